package surface

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/banshee-data/surface.report/internal/fsutil"
)

// Normalize maps an arbitrarily shaped measurement table onto the
// canonical 8x8 grid:
//
//  1. rows with no numeric cell at all (headers, blanks) are discarded
//  2. column 0 of each surviving row is an index/timestamp, never data
//  3. the most recent 8 rows are kept, zero rows padded on top when
//     fewer exist, so real measurements sit at the bottom of the grid
//  4. the first 8 data columns are kept, zero columns padded on the
//     right when fewer exist
//
// Normalization is total: it always returns a grid. When the input
// yields no usable measurements the grid is all zeros and the returned
// diagnostic says why; the diagnostic is empty on a clean parse.
func Normalize(records [][]string) (Grid, string) {
	var rows [][]float64
	for _, rec := range records {
		vals, ok := numericRow(rec)
		if !ok {
			continue
		}
		rows = append(rows, vals)
	}

	if len(rows) == 0 {
		return ZeroGrid(), "no numeric measurement rows in input"
	}

	// Keep the last 8 rows; with fewer, the zero-valued Grid cells
	// above them are the padding.
	if len(rows) > GridSize {
		rows = rows[len(rows)-GridSize:]
	}

	var g Grid
	offset := GridSize - len(rows)
	for i, vals := range rows {
		for c := 0; c < GridSize && c < len(vals); c++ {
			g[offset+i][c] = vals[c]
		}
	}
	return g, ""
}

// numericRow parses a CSV record into its data cells. It returns false
// when every cell is non-numeric or missing. Column 0 is dropped; an
// unparseable cell inside an otherwise numeric row reads as zero.
func numericRow(rec []string) ([]float64, bool) {
	anyNumeric := false
	for _, cell := range rec {
		if _, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err == nil {
			anyNumeric = true
			break
		}
	}
	if !anyNumeric || len(rec) < 2 {
		return nil, false
	}

	data := rec[1:]
	vals := make([]float64, len(data))
	for i, cell := range data {
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			continue
		}
		vals[i] = v
	}
	return vals, true
}

// ParseCSV normalizes raw CSV bytes. A malformed CSV stream is a parse
// failure, recovered locally with a zero grid plus diagnostic.
func ParseCSV(data []byte) (Grid, string) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return ZeroGrid(), fmt.Sprintf("malformed CSV: %v", err)
	}
	return Normalize(records)
}

// LoadCSV reads and normalizes the measurement file at path. A read
// failure is returned as an error so callers can retain their previous
// grid and retry; parse failures never error (see ParseCSV).
func LoadCSV(fs fsutil.FileSystem, path string) (Grid, string, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return ZeroGrid(), "", fmt.Errorf("read %s: %w", path, err)
	}
	g, diag := ParseCSV(data)
	return g, diag, nil
}
