package surface

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds the derived statistics for a grid, in the caller's
// units. It has no lifecycle of its own: it is recomputed on every
// grid replacement.
type Summary struct {
	Mean float64 `json:"mean"`
	Max  float64 `json:"max"`
	Min  float64 `json:"min"`
}

// Analyze computes mean, max and min over all 64 cells, scaled by the
// caller's unit conversion factor. Results are rounded to 2 decimal
// places, half away from zero (math.Round); tests pin this choice.
// Analyze is pure and never fails: grids are well formed by
// construction.
func Analyze(g Grid, scale float64) Summary {
	cells := g.Flat()
	return Summary{
		Mean: round2(stat.Mean(cells, nil) * scale),
		Max:  round2(floats.Max(cells) * scale),
		Min:  round2(floats.Min(cells) * scale),
	}
}

// round2 rounds to 2 decimal places, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
