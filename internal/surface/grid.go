// Package surface owns the measurement data model: the canonical 8x8
// deformation grid, normalization of raw CSV tables into it, and
// summary statistics over it.
//
// Grid values are stored in millimetres. Consumers apply a unit scale
// when reporting (see Analyze and the units package).
package surface

// GridSize is the fixed edge length of a measurement grid.
const GridSize = 8

// Grid is an 8x8 matrix of deformation samples in millimetres,
// row-major with the most recent measurement row last. A Grid is a
// value type: it is replaced wholesale, never mutated in place.
type Grid [GridSize][GridSize]float64

// ZeroGrid returns an all-zero grid, the fallback for unreadable or
// malformed input.
func ZeroGrid() Grid {
	return Grid{}
}

// Flat returns all 64 cells as a single row-major slice.
func (g Grid) Flat() []float64 {
	out := make([]float64, 0, GridSize*GridSize)
	for r := 0; r < GridSize; r++ {
		for c := 0; c < GridSize; c++ {
			out = append(out, g[r][c])
		}
	}
	return out
}

// IsZero reports whether every cell is zero.
func (g Grid) IsZero() bool {
	for r := 0; r < GridSize; r++ {
		for c := 0; c < GridSize; c++ {
			if g[r][c] != 0 {
				return false
			}
		}
	}
	return true
}
