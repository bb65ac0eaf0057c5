// Command gen-roadlog generates sample road measurement CSV files for
// testing the monitor, optionally appending fresh rows on an interval
// to simulate a live logger.
package main

import (
	"bytes"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"time"
)

func sampleRow(t time.Time, samples int, rng *rand.Rand) []string {
	row := make([]string, 0, samples+1)
	row = append(row, t.Format(time.RFC3339))
	// a slow sine wave plus noise looks enough like settling pavement
	phase := float64(t.UnixMilli()) / 5000.0
	for i := 0; i < samples; i++ {
		v := 3.0*math.Sin(phase+float64(i)*0.4) + rng.NormFloat64()*0.5
		row = append(row, fmt.Sprintf("%.3f", v))
	}
	return row
}

func writeRows(path string, rows [][]string, includeHeader bool) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if includeHeader {
		header := []string{"timestamp"}
		for i := 0; i < len(rows[0])-1; i++ {
			header = append(header, fmt.Sprintf("s%d", i))
		}
		if err := w.Write(header); err != nil {
			return err
		}
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return os.WriteFile(path, buf.Bytes(), 0644)
}

func main() {
	output := flag.String("o", "road.log", "output path")
	rows := flag.Int("n", 16, "number of measurement rows")
	samples := flag.Int("samples", 8, "sample columns per row")
	header := flag.Bool("header", true, "include a header row")
	live := flag.Duration("live", 0, "keep appending a row at this interval (0 = write once)")
	seed := flag.Int64("seed", 0, "random seed (0 = time-based)")
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	now := time.Now()
	all := make([][]string, 0, *rows)
	for i := 0; i < *rows; i++ {
		t := now.Add(time.Duration(i-*rows) * time.Second)
		all = append(all, sampleRow(t, *samples, rng))
	}
	if err := writeRows(*output, all, *header); err != nil {
		log.Fatalf("failed to write %s: %v", *output, err)
	}
	log.Printf("✓ Created: %s (%d rows)", *output, *rows)

	if *live <= 0 {
		return
	}

	log.Printf("appending a row every %s (Ctrl-C to stop)", *live)
	for {
		time.Sleep(*live)
		all = append(all, sampleRow(time.Now(), *samples, rng))
		if err := writeRows(*output, all, *header); err != nil {
			log.Fatalf("failed to rewrite %s: %v", *output, err)
		}
	}
}
