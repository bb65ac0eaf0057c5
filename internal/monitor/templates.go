package monitor

import (
	"fmt"
	"html/template"
	"log"
	"net/http"

	"github.com/banshee-data/surface.report/internal/surface"
	"github.com/banshee-data/surface.report/internal/units"
)

var statusTemplate = template.Must(template.New("status").Parse(`<!DOCTYPE html>
<html>
<head>
<title>Road Surface Monitor</title>
<style>
body { font-family: monospace; background: #1e1e1e; color: #d4d4d4; margin: 2em; }
a { color: #4fc1ff; }
table { border-collapse: collapse; margin: 1em 0; }
td, th { border: 1px solid #444; padding: 4px 12px; text-align: left; }
</style>
</head>
<body>
<h1>Road Surface Monitor</h1>
<p>source: {{.Source}}</p>
<table>
<tr><th>Mean</th><td>{{.Mean}}</td></tr>
<tr><th>Max</th><td>{{.Max}}</td></tr>
<tr><th>Min</th><td>{{.Min}}</td></tr>
<tr><th>Loaded</th><td>{{.LoadedAt}}</td></tr>
<tr><th>Elevation</th><td>{{.Elevation}}</td></tr>
<tr><th>Azimuth</th><td>{{.Azimuth}}</td></tr>
<tr><th>Colormap</th><td>{{.Colormap}}</td></tr>
<tr><th>Auto-rotate</th><td>{{.AutoRotate}}</td></tr>
{{if .Diagnostic}}<tr><th>Diagnostic</th><td>{{.Diagnostic}}</td></tr>{{end}}
</table>
<ul>
<li><a href="/api/grid">grid JSON</a></li>
<li><a href="/api/stats">stats JSON</a></li>
<li><a href="/debug/surface">surface chart</a></li>
<li><a href="/api/export/png">PNG export</a></li>
</ul>
</body>
</html>
`))

// handleStatus renders a minimal status page for eyeballing the monitor.
func (ws *WebServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		ws.writeJSONError(w, http.StatusNotFound, "not found")
		return
	}

	snap := ws.store.Snapshot()
	// snap.Summary is in the store's unit scale; recompute for the
	// configured display unit so the label and the numbers agree.
	sum := surface.Analyze(snap.Grid, units.ScaleFor(ws.unit))
	data := map[string]any{
		"Source":     ws.sourceFile,
		"Mean":       fmt.Sprintf("%.2f %s", sum.Mean, units.Label(ws.unit)),
		"Max":        fmt.Sprintf("%.2f %s", sum.Max, units.Label(ws.unit)),
		"Min":        fmt.Sprintf("%.2f %s", sum.Min, units.Label(ws.unit)),
		"LoadedAt":   snap.LoadedAt.Format("2006-01-02 15:04:05"),
		"Elevation":  fmt.Sprintf("%.1f", snap.View.Elevation),
		"Azimuth":    fmt.Sprintf("%.1f", snap.View.Azimuth),
		"Colormap":   snap.View.Colormap,
		"AutoRotate": snap.AutoRotate,
		"Diagnostic": snap.Diagnostic,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := statusTemplate.Execute(w, data); err != nil {
		log.Printf("[Monitor] status template: %v", err)
	}
}
