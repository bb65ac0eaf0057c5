// Package monitor provides the HTTP interface to the live grid: JSON
// APIs for the external renderer and status UI, view commands, debug
// charts, and PNG export.
package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/banshee-data/surface.report/internal/fsutil"
	"github.com/banshee-data/surface.report/internal/httputil"
	"github.com/banshee-data/surface.report/internal/store"
	"github.com/banshee-data/surface.report/internal/surface"
	"github.com/banshee-data/surface.report/internal/units"
	"github.com/banshee-data/surface.report/internal/version"
	"github.com/banshee-data/surface.report/internal/view"
)

// WebServer handles the HTTP interface for the road-surface monitor.
type WebServer struct {
	address    string
	store      *store.GridStore
	sourceFile string
	unit       string
	fs         fsutil.FileSystem
	server     *http.Server
}

// WebServerConfig contains configuration options for the web server.
type WebServerConfig struct {
	Address    string
	Store      *store.GridStore
	SourceFile string
	Units      string
	FS         fsutil.FileSystem
}

// NewWebServer creates a new web server with the provided configuration.
func NewWebServer(config WebServerConfig) *WebServer {
	ws := &WebServer{
		address:    config.Address,
		store:      config.Store,
		sourceFile: config.SourceFile,
		unit:       config.Units,
		fs:         config.FS,
	}
	if ws.fs == nil {
		ws.fs = fsutil.OSFileSystem{}
	}
	if !units.IsValid(ws.unit) {
		ws.unit = units.MM
	}

	ws.server = &http.Server{
		Addr:    ws.address,
		Handler: ws.setupRoutes(),
	}

	return ws
}

func (ws *WebServer) writeJSONError(w http.ResponseWriter, status int, msg string) {
	httputil.WriteJSONError(w, status, msg)
}

func (ws *WebServer) writeJSON(w http.ResponseWriter, v any) {
	httputil.WriteJSONOK(w, v)
}

// Start begins the HTTP server in a goroutine and handles graceful shutdown.
func (ws *WebServer) Start(ctx context.Context) error {
	go func() {
		log.Printf("[Monitor] HTTP server on %s", ws.address)
		if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("[Monitor] shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	if err := ws.server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Monitor] HTTP server shutdown error: %v", err)
		if err := ws.server.Close(); err != nil {
			log.Printf("[Monitor] HTTP server force close error: %v", err)
		}
	}

	log.Printf("[Monitor] HTTP server routine stopped")
	return nil
}

// setupRoutes configures the HTTP routes and handlers.
func (ws *WebServer) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/health", ws.handleHealth)
	mux.HandleFunc("/", ws.handleStatus)
	mux.HandleFunc("/api/grid", ws.handleGrid)
	mux.HandleFunc("/api/view", ws.handleView)
	mux.HandleFunc("/api/view/command", ws.handleViewCommand)
	mux.HandleFunc("/api/stats", ws.handleStats)
	mux.HandleFunc("/api/export", ws.handleExport)
	mux.HandleFunc("/api/export/png", ws.handleExportPNG)
	mux.HandleFunc("/debug/surface", ws.handleSurfaceChart)

	return mux
}

func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	ws.writeJSON(w, map[string]string{
		"status":  "ok",
		"source":  ws.sourceFile,
		"version": version.Version,
	})
}

// handleGrid returns the current 8x8 grid with its provenance.
func (ws *WebServer) handleGrid(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		ws.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	snap := ws.store.Snapshot()
	ws.writeJSON(w, map[string]any{
		"grid":       snap.Grid,
		"rows":       surface.GridSize,
		"cols":       surface.GridSize,
		"units":      units.MM,
		"loaded_at":  snap.LoadedAt,
		"diagnostic": snap.Diagnostic,
		"source":     ws.sourceFile,
	})
}

// handleView returns the renderer camera state.
func (ws *WebServer) handleView(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		ws.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	snap := ws.store.Snapshot()
	ws.writeJSON(w, map[string]any{
		"elevation":   snap.View.Elevation,
		"azimuth":     snap.View.Azimuth,
		"colormap":    snap.View.Colormap,
		"auto_rotate": snap.AutoRotate,
	})
}

// commandRequest is the JSON envelope for view commands.
type commandRequest struct {
	Op        string   `json:"op"`
	DElev     float64  `json:"d_elev"`
	DAzim     float64  `json:"d_azim"`
	Elevation *float64 `json:"elevation"`
	Azimuth   *float64 `json:"azimuth"`
	Colormap  string   `json:"colormap"`
}

// handleViewCommand dispatches one command through the store's single
// command entry point and returns the resulting view.
func (ws *WebServer) handleViewCommand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		ws.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ws.writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid command JSON: %v", err))
		return
	}

	var cmd store.Command
	switch req.Op {
	case "rotate":
		cmd = store.Rotate{DElev: req.DElev, DAzim: req.DAzim}
	case "set_view":
		cmd = store.SetView{Elevation: req.Elevation, Azimuth: req.Azimuth}
	case "reset":
		cmd = store.ResetView{}
	case "set_colormap":
		cmd = store.SetColormap{Name: req.Colormap}
	case "toggle_auto_rotate":
		cmd = store.ToggleAutoRotate{}
	default:
		ws.writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("unknown op %q", req.Op))
		return
	}

	if err := ws.store.Apply(cmd); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, view.ErrInvalidColormap) {
			status = http.StatusUnprocessableEntity
		}
		ws.writeJSONError(w, status, err.Error())
		return
	}

	snap := ws.store.Snapshot()
	ws.writeJSON(w, map[string]any{
		"elevation":   snap.View.Elevation,
		"azimuth":     snap.View.Azimuth,
		"colormap":    snap.View.Colormap,
		"auto_rotate": snap.AutoRotate,
	})
}

// handleStats returns summary statistics over the current grid,
// converted to the requested units (default: the server's configured
// display unit).
func (ws *WebServer) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		ws.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	unit := r.URL.Query().Get("units")
	if unit == "" {
		unit = ws.unit
	}
	if !units.IsValid(unit) {
		ws.writeJSONError(w, http.StatusBadRequest,
			fmt.Sprintf("invalid units %q (valid: %s)", unit, units.GetValidUnitsString()))
		return
	}

	snap := ws.store.Snapshot()
	summary := surface.Analyze(snap.Grid, units.ScaleFor(unit))
	ws.writeJSON(w, map[string]any{
		"mean":      summary.Mean,
		"max":       summary.Max,
		"min":       summary.Min,
		"units":     units.Label(unit),
		"loaded_at": snap.LoadedAt,
	})
}
