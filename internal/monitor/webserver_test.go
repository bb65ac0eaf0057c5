package monitor

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/banshee-data/surface.report/internal/fsutil"
	"github.com/banshee-data/surface.report/internal/store"
	"github.com/banshee-data/surface.report/internal/surface"
	"github.com/banshee-data/surface.report/internal/timeutil"
)

func newTestServer(t *testing.T) (*WebServer, *store.GridStore, *fsutil.MemoryFileSystem) {
	t.Helper()

	clock := timeutil.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	s := store.New(1.0, clock)
	fs := fsutil.NewMemoryFileSystem()

	server := NewWebServer(WebServerConfig{
		Address:    ":0",
		Store:      s,
		SourceFile: "road.log",
		Units:      "mm",
		FS:         fs,
	})
	return server, s, fs
}

func testGrid() surface.Grid {
	var g surface.Grid
	for row := 0; row < surface.GridSize; row++ {
		for col := 0; col < surface.GridSize; col++ {
			g[row][col] = float64(row*surface.GridSize + col)
		}
	}
	return g
}

func TestNewWebServerDefaults(t *testing.T) {
	clock := timeutil.NewMockClock(time.Now())
	server := NewWebServer(WebServerConfig{
		Address: ":0",
		Store:   store.New(1.0, clock),
		Units:   "furlongs",
	})

	if server == nil {
		t.Fatal("NewWebServer returned nil")
	}
	if server.unit != "mm" {
		t.Errorf("invalid unit should fall back to mm, got %q", server.unit)
	}
	if server.fs == nil {
		t.Error("nil FS should fall back to the OS filesystem")
	}
}

func TestHandleGrid(t *testing.T) {
	server, s, _ := newTestServer(t)
	s.ReplaceGrid(testGrid(), "")

	rr := httptest.NewRecorder()
	server.setupRoutes().ServeHTTP(rr, httptest.NewRequest("GET", "/api/grid", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("grid handler returned %d, want %d", rr.Code, http.StatusOK)
	}

	var resp struct {
		Grid  [][]float64 `json:"grid"`
		Rows  int         `json:"rows"`
		Cols  int         `json:"cols"`
		Units string      `json:"units"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode grid response: %v", err)
	}
	if resp.Rows != 8 || resp.Cols != 8 {
		t.Errorf("got %dx%d grid, want 8x8", resp.Rows, resp.Cols)
	}
	if resp.Units != "mm" {
		t.Errorf("grid units = %q, want mm", resp.Units)
	}
	if len(resp.Grid) != 8 || resp.Grid[7][7] != 63 {
		t.Errorf("grid payload does not match stored grid: %v", resp.Grid)
	}
}

func TestHandleView(t *testing.T) {
	server, _, _ := newTestServer(t)

	rr := httptest.NewRecorder()
	server.setupRoutes().ServeHTTP(rr, httptest.NewRequest("GET", "/api/view", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("view handler returned %d, want %d", rr.Code, http.StatusOK)
	}

	var resp struct {
		Elevation  float64 `json:"elevation"`
		Azimuth    float64 `json:"azimuth"`
		Colormap   string  `json:"colormap"`
		AutoRotate bool    `json:"auto_rotate"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode view response: %v", err)
	}
	if resp.Elevation != 30 || resp.Azimuth != -60 {
		t.Errorf("view = (%v, %v), want (30, -60)", resp.Elevation, resp.Azimuth)
	}
	if resp.Colormap != "viridis" {
		t.Errorf("colormap = %q, want viridis", resp.Colormap)
	}
	if resp.AutoRotate {
		t.Error("auto_rotate should default to false")
	}
}

func TestHandleViewCommandRotate(t *testing.T) {
	server, _, _ := newTestServer(t)

	body := strings.NewReader(`{"op":"rotate","d_elev":5,"d_azim":-3}`)
	rr := httptest.NewRecorder()
	server.setupRoutes().ServeHTTP(rr, httptest.NewRequest("POST", "/api/view/command", body))

	if rr.Code != http.StatusOK {
		t.Fatalf("rotate command returned %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Elevation float64 `json:"elevation"`
		Azimuth   float64 `json:"azimuth"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode command response: %v", err)
	}
	if resp.Elevation != 35 || resp.Azimuth != -63 {
		t.Errorf("view after rotate = (%v, %v), want (35, -63)", resp.Elevation, resp.Azimuth)
	}
}

func TestHandleViewCommandSetView(t *testing.T) {
	server, s, _ := newTestServer(t)

	body := strings.NewReader(`{"op":"set_view","elevation":80}`)
	rr := httptest.NewRecorder()
	server.setupRoutes().ServeHTTP(rr, httptest.NewRequest("POST", "/api/view/command", body))

	if rr.Code != http.StatusOK {
		t.Fatalf("set_view command returned %d: %s", rr.Code, rr.Body.String())
	}

	v := s.View()
	if v.Elevation != 80 {
		t.Errorf("elevation = %v, want 80", v.Elevation)
	}
	if v.Azimuth != -60 {
		t.Errorf("omitted azimuth should be unchanged, got %v", v.Azimuth)
	}
}

func TestHandleViewCommandInvalidColormap(t *testing.T) {
	server, s, _ := newTestServer(t)

	body := strings.NewReader(`{"op":"set_colormap","colormap":"jet"}`)
	rr := httptest.NewRecorder()
	server.setupRoutes().ServeHTTP(rr, httptest.NewRequest("POST", "/api/view/command", body))

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid colormap returned %d, want %d", rr.Code, http.StatusUnprocessableEntity)
	}
	if got := s.View().Colormap; got != "viridis" {
		t.Errorf("rejected colormap must not change state, got %q", got)
	}
}

func TestHandleViewCommandUnknownOp(t *testing.T) {
	server, _, _ := newTestServer(t)

	body := strings.NewReader(`{"op":"barrel_roll"}`)
	rr := httptest.NewRecorder()
	server.setupRoutes().ServeHTTP(rr, httptest.NewRequest("POST", "/api/view/command", body))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("unknown op returned %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestHandleViewCommandMethodNotAllowed(t *testing.T) {
	server, _, _ := newTestServer(t)

	rr := httptest.NewRecorder()
	server.setupRoutes().ServeHTTP(rr, httptest.NewRequest("GET", "/api/view/command", nil))

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET on command endpoint returned %d, want %d", rr.Code, http.StatusMethodNotAllowed)
	}
}

func TestHandleStatsUnits(t *testing.T) {
	server, s, _ := newTestServer(t)

	var g surface.Grid
	for row := range g {
		for col := range g[row] {
			g[row][col] = 10 // 10mm everywhere
		}
	}
	s.ReplaceGrid(g, "")

	rr := httptest.NewRecorder()
	server.setupRoutes().ServeHTTP(rr, httptest.NewRequest("GET", "/api/stats?units=cm", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("stats handler returned %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Mean  float64 `json:"mean"`
		Max   float64 `json:"max"`
		Min   float64 `json:"min"`
		Units string  `json:"units"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode stats response: %v", err)
	}
	if resp.Mean != 1 || resp.Max != 1 || resp.Min != 1 {
		t.Errorf("10mm in cm = (%v, %v, %v), want all 1", resp.Mean, resp.Max, resp.Min)
	}
	if resp.Units != "cm" {
		t.Errorf("units label = %q, want cm", resp.Units)
	}
}

func TestHandleStatsInvalidUnits(t *testing.T) {
	server, _, _ := newTestServer(t)

	rr := httptest.NewRecorder()
	server.setupRoutes().ServeHTTP(rr, httptest.NewRequest("GET", "/api/stats?units=parsec", nil))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("invalid units returned %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestHandleStatus(t *testing.T) {
	server, s, _ := newTestServer(t)
	s.ReplaceGrid(testGrid(), "")

	rr := httptest.NewRecorder()
	server.setupRoutes().ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status handler returned %d, want %d", rr.Code, http.StatusOK)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Road Surface Monitor") {
		t.Error("status page missing title")
	}
	if !strings.Contains(body, "road.log") {
		t.Error("status page missing source file")
	}
}

func TestHandleStatusDisplayUnits(t *testing.T) {
	// The display unit is independent of the store's unit_scale; the
	// page must convert before labelling.
	clock := timeutil.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	s := store.New(1.0, clock)
	server := NewWebServer(WebServerConfig{
		Address:    ":0",
		Store:      s,
		SourceFile: "road.log",
		Units:      "cm",
	})

	var g surface.Grid
	for row := range g {
		for col := range g[row] {
			g[row][col] = 10 // 10mm everywhere
		}
	}
	s.ReplaceGrid(g, "")

	rr := httptest.NewRecorder()
	server.setupRoutes().ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status handler returned %d, want %d", rr.Code, http.StatusOK)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "1.00 cm") {
		t.Error("status page should show 10mm as 1.00 cm")
	}
	if strings.Contains(body, "10.00 cm") {
		t.Error("status page labelled millimetre values as cm")
	}
}

func TestHandleHealth(t *testing.T) {
	server, _, _ := newTestServer(t)

	rr := httptest.NewRecorder()
	server.setupRoutes().ServeHTTP(rr, httptest.NewRequest("GET", "/api/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("health handler returned %d, want %d", rr.Code, http.StatusOK)
	}
	if !strings.Contains(rr.Body.String(), `"ok"`) {
		t.Errorf("unexpected health body: %s", rr.Body.String())
	}
}

func TestHandleSurfaceChart(t *testing.T) {
	server, s, _ := newTestServer(t)
	s.ReplaceGrid(testGrid(), "")

	rr := httptest.NewRecorder()
	server.setupRoutes().ServeHTTP(rr, httptest.NewRequest("GET", "/debug/surface", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("surface chart returned %d: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("surface chart Content-Type = %q, want text/html", ct)
	}
	if !strings.Contains(rr.Body.String(), "echarts") {
		t.Error("surface chart body does not look like an ECharts page")
	}
}

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestHandleExportPNG(t *testing.T) {
	server, s, _ := newTestServer(t)
	s.ReplaceGrid(testGrid(), "")

	rr := httptest.NewRecorder()
	server.setupRoutes().ServeHTTP(rr, httptest.NewRequest("GET", "/api/export/png", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("PNG export returned %d: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("PNG export Content-Type = %q, want image/png", ct)
	}
	if !bytes.HasPrefix(rr.Body.Bytes(), pngMagic) {
		t.Error("PNG export body does not start with the PNG signature")
	}
}

func TestHandleExportWritesFile(t *testing.T) {
	server, s, fs := newTestServer(t)
	s.ReplaceGrid(testGrid(), "")

	body := strings.NewReader(`{"path":"out/surface.png","colormap":"coolwarm"}`)
	rr := httptest.NewRecorder()
	server.setupRoutes().ServeHTTP(rr, httptest.NewRequest("POST", "/api/export", body))

	if rr.Code != http.StatusOK {
		t.Fatalf("export returned %d: %s", rr.Code, rr.Body.String())
	}

	data, err := fs.ReadFile("out/surface.png")
	if err != nil {
		t.Fatalf("exported file not written: %v", err)
	}
	if !bytes.HasPrefix(data, pngMagic) {
		t.Error("exported file does not start with the PNG signature")
	}
}

func TestHandleExportRejectsBadPath(t *testing.T) {
	server, _, _ := newTestServer(t)

	for _, body := range []string{`{}`, `{"path":"surface.jpg"}`} {
		rr := httptest.NewRecorder()
		server.setupRoutes().ServeHTTP(rr, httptest.NewRequest("POST", "/api/export", strings.NewReader(body)))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("export body %s returned %d, want %d", body, rr.Code, http.StatusBadRequest)
		}
	}
}
