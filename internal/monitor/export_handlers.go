package monitor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/banshee-data/surface.report/internal/security"
)

// handleExportPNG streams the current grid as a PNG heat map. An
// optional colormap query parameter overrides the view's colormap.
func (ws *WebServer) handleExportPNG(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		ws.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	snap := ws.store.Snapshot()
	colormap := r.URL.Query().Get("colormap")
	if colormap == "" {
		colormap = snap.View.Colormap
	}

	wt, err := renderHeatMap(snap.Grid, colormap)
	if err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render PNG: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if _, err := wt.WriteTo(w); err != nil {
		log.Printf("[Monitor] PNG export write: %v", err)
	}
}

// exportRequest is the JSON body for server-side PNG export.
type exportRequest struct {
	Path     string `json:"path"`
	Colormap string `json:"colormap"`
}

// handleExport writes the current grid as a PNG heat map to a path on
// the server's filesystem.
func (ws *WebServer) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		ws.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ws.writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid export JSON: %v", err))
		return
	}
	if req.Path == "" {
		ws.writeJSONError(w, http.StatusBadRequest, "path is required")
		return
	}
	if !strings.EqualFold(filepath.Ext(req.Path), ".png") {
		ws.writeJSONError(w, http.StatusBadRequest, "path must end in .png")
		return
	}
	if err := security.ValidateExportPath(req.Path); err != nil {
		ws.writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid export path: %v", err))
		return
	}

	snap := ws.store.Snapshot()
	colormap := req.Colormap
	if colormap == "" {
		colormap = snap.View.Colormap
	}

	wt, err := renderHeatMap(snap.Grid, colormap)
	if err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render PNG: %v", err))
		return
	}

	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode PNG: %v", err))
		return
	}

	if dir := filepath.Dir(req.Path); dir != "." {
		if err := ws.fs.MkdirAll(dir, 0755); err != nil {
			ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to create output dir: %v", err))
			return
		}
	}
	if err := ws.fs.WriteFile(req.Path, buf.Bytes(), 0644); err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to write PNG: %v", err))
		return
	}

	log.Printf("[Monitor] exported grid PNG to %s (%d bytes)", req.Path, buf.Len())
	ws.writeJSON(w, map[string]any{"path": req.Path, "bytes": buf.Len()})
}
