// Command gendata fabricates the seeded labor and tide CSVs used when the
// real sources are unavailable, and prints a summary of the labor series.
//
// Usage:
//
//	go run ./cmd/gendata -out-dir data -labor-seed 42 -tide-seed 7
package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"

	"github.com/couchcryptid/hk-data-viz/internal/analysis"
	"github.com/couchcryptid/hk-data-viz/internal/dataset"
	"github.com/couchcryptid/hk-data-viz/internal/domain"
	"github.com/couchcryptid/hk-data-viz/internal/report"
	"github.com/couchcryptid/hk-data-viz/internal/synth"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", "data", "directory the CSV files are written to")
	laborSeed := flag.Int64("labor-seed", 42, "seed for the labor series")
	tideSeed := flag.Int64("tide-seed", 7, "seed for the tide series")
	tideCount := flag.Int("tide-count", 240, "number of hourly tide readings")
	flag.Parse()

	if *tideCount <= 0 {
		flag.Usage()
		return fmt.Errorf("-tide-count must be positive")
	}

	gen := synth.NewLaborGenerator(*laborSeed)
	basic, err := gen.Basic()
	if err != nil {
		return fmt.Errorf("generate basic labor: %w", err)
	}
	enhanced, err := gen.Enhanced()
	if err != nil {
		return fmt.Errorf("generate enhanced labor: %w", err)
	}

	tg := synth.NewTideGenerator(*tideSeed)
	tg.Count = *tideCount
	tides, err := tg.Generate()
	if err != nil {
		return fmt.Errorf("generate tides: %w", err)
	}

	outputs := []struct {
		file  string
		rows  int
		write func(string) error
	}{
		{dataset.LaborBasicFile, len(basic), func(p string) error { return dataset.WriteLabor(p, basic, false) }},
		{dataset.LaborEnhancedFile, len(enhanced), func(p string) error { return dataset.WriteLabor(p, enhanced, true) }},
		{dataset.TidesFile, len(tides), func(p string) error { return dataset.WriteTides(p, tides) }},
	}
	for _, o := range outputs {
		path := filepath.Join(*outDir, o.file)
		if err := o.write(path); err != nil {
			return fmt.Errorf("writing %s: %w", o.file, err)
		}
		log.Printf("wrote %s (%d rows)", path, o.rows)
	}

	r, err := analysis.LaborReport(enhanced)
	if err != nil {
		return fmt.Errorf("analyze labor: %w", err)
	}
	printReport(r, tides)
	return nil
}

func printReport(r analysis.Report, tides []domain.TideReading) {
	fmt.Println("\n=== Labor series summary ===")
	for _, fd := range report.Findings(r) {
		fmt.Printf("  %-30s %s\n", fd.Label+":", fd.Value)
	}

	fmt.Println("\nColumn statistics:")
	fmt.Printf("  %-26s %8s %8s %8s %8s\n", "column", "mean", "min", "max", "std")
	for _, c := range r.Columns {
		s := c.Summary
		fmt.Printf("  %-26s %8.2f %8.1f %8.1f %8.2f\n", c.Name, s.Mean, s.Min, s.Max, s.Std)
	}

	if len(tides) > 0 {
		s := analysis.Describe(domain.TideHeights(tides))
		fmt.Printf("\nTides: %d readings from %s, height %.2f-%.2f m (mean %.2f)\n",
			s.Count, tides[0].Time.Format("2006-01-02 15:04"), s.Min, s.Max, s.Mean)
	}
}
