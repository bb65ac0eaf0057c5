package monitor

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/surface.report/internal/surface"
	"github.com/banshee-data/surface.report/internal/view"
)

const echartsAssetsPrefix = "https://go-echarts.github.io/go-echarts-assets/assets/"

// colormapRamps maps the renderer colormap names onto ECharts hex
// ramps so the debug chart matches what the external renderer shows.
var colormapRamps = map[string][]string{
	"viridis":  {"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"},
	"plasma":   {"#0d0887", "#41049d", "#6a00a8", "#8f0da4", "#b12a90", "#cc4778", "#e16462", "#f2844b", "#fca636", "#f0f921"},
	"inferno":  {"#000004", "#1b0c41", "#4a0c6b", "#781c6d", "#a52c60", "#cf4446", "#ed6925", "#fb9b06", "#f7d03c", "#fcffa4"},
	"cividis":  {"#00204d", "#00336f", "#39486b", "#575d6d", "#707173", "#8a8779", "#a69d75", "#c4b56c", "#e4cf5b", "#ffea46"},
	"coolwarm": {"#3b4cc0", "#5977e3", "#7b9ff9", "#9ebeff", "#dddcdc", "#f2cbb7", "#f7ac8e", "#ee8468", "#d65244", "#b40426"},
}

func rampFor(colormap string) []string {
	if ramp, ok := colormapRamps[colormap]; ok {
		return ramp
	}
	return colormapRamps[view.DefaultColormap]
}

// handleSurfaceChart renders the current grid as a colored scatter (HTML)
// using go-echarts. This is a debugging-only endpoint to eyeball the
// surface without the external 3D renderer. Row 0 is the oldest sample
// window and is drawn at the bottom.
func (ws *WebServer) handleSurfaceChart(w http.ResponseWriter, r *http.Request) {
	snap := ws.store.Snapshot()

	minVal, maxVal := snap.Grid[0][0], snap.Grid[0][0]
	data := make([]opts.ScatterData, 0, surface.GridSize*surface.GridSize)
	for row := 0; row < surface.GridSize; row++ {
		for col := 0; col < surface.GridSize; col++ {
			v := snap.Grid[row][col]
			if v < minVal {
				minVal = v
			}
			if v > maxVal {
				maxVal = v
			}
			data = append(data, opts.ScatterData{Value: []interface{}{col, row, v}})
		}
	}
	if maxVal == minVal {
		// flat grids would collapse the visual map range
		maxVal = minVal + 1
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Road Surface Grid", Theme: "dark", Width: "900px", Height: "900px", AssetsHost: echartsAssetsPrefix}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Road Surface Deformation",
			Subtitle: fmt.Sprintf("source=%s elev=%.1f azim=%.1f colormap=%s loaded=%s", ws.sourceFile, snap.View.Elevation, snap.View.Azimuth, snap.View.Colormap, snap.LoadedAt.Format("15:04:05")),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -1, Max: surface.GridSize, Name: "Sample", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -1, Max: surface.GridSize, Name: "Window", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(minVal),
			Max:        float32(maxVal),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: rampFor(snap.View.Colormap)},
		}),
	)

	scatter.AddSeries("deformation", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 40}))

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
