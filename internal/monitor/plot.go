package monitor

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/surface.report/internal/surface"
)

// gridXYZ adapts a surface.Grid to the plotter heat map interface.
// Column index runs along X, window (row) index along Y, with row 0
// (the oldest window) at the bottom of the plot.
type gridXYZ struct {
	g surface.Grid
}

func (d gridXYZ) Dims() (c, r int)   { return surface.GridSize, surface.GridSize }
func (d gridXYZ) Z(c, r int) float64 { return d.g[r][c] }
func (d gridXYZ) X(c int) float64    { return float64(c) }
func (d gridXYZ) Y(r int) float64    { return float64(r) }

// paletteFor maps renderer colormap names onto gonum color maps. The
// matches are approximate; the PNG export is a diagnostic artifact, not
// the primary rendering path.
func paletteFor(colormap string) palette.Palette {
	const colors = 255
	switch colormap {
	case "plasma":
		return moreland.ExtendedBlackBody().Palette(colors)
	case "inferno":
		return moreland.BlackBody().Palette(colors)
	case "cividis":
		return moreland.ExtendedKindlmann().Palette(colors)
	case "coolwarm":
		return moreland.SmoothBlueRed().Palette(colors)
	default: // viridis
		return moreland.Kindlmann().Palette(colors)
	}
}

// renderHeatMap draws the grid as a PNG heat map and returns a writer
// holding the encoded image.
func renderHeatMap(g surface.Grid, colormap string) (io.WriterTo, error) {
	p := plot.New()
	p.Title.Text = "Road Surface Deformation (mm)"
	p.X.Label.Text = "Sample"
	p.Y.Label.Text = "Window"

	h := plotter.NewHeatMap(gridXYZ{g: g}, paletteFor(colormap))
	if h.Min == h.Max {
		// flat grids would give the heat map a zero-width range
		h.Min--
		h.Max++
	}
	p.Add(h)

	wt, err := p.WriterTo(6*vg.Inch, 6*vg.Inch, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to encode heat map: %w", err)
	}
	return wt, nil
}
