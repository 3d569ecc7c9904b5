// Command validate checks the integrity of the CSVs in a data directory:
// the HKO warnings table, the basic and enhanced labor series, and the
// tide readings. Each phase prints PASS, FAIL or SKIP; any failure exits 1.
//
// Usage:
//
//	go run ./cmd/validate -data-dir data
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"slices"

	"github.com/google/go-cmp/cmp"

	"github.com/couchcryptid/hk-data-viz/internal/dataset"
	"github.com/couchcryptid/hk-data-viz/internal/domain"
)

// Bounds applied by the labor generator.
const (
	unemployedTolerance = 0.15
	minUnemploymentRate = 2.8
	maxUnemploymentRate = 6.5
	minParticipation    = 55.0
	maxParticipation    = 60.0
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name    string
	skipped string
	errors  []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) skip(reason string) { p.skipped = reason }

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataDir := flag.String("data-dir", "data", "directory containing the CSVs to validate")
	flag.Parse()

	os.Exit(run(*dataDir))
}

func run(dataDir string) int {
	fmt.Println("=== HK Dataset Integrity Validation ===")
	fmt.Printf("Data dir: %s\n\n", dataDir)

	warnings, werr := dataset.ReadWarnings(filepath.Join(dataDir, dataset.WarningsFile))
	basic, berr := dataset.ReadLabor(filepath.Join(dataDir, dataset.LaborBasicFile))
	enhanced, eerr := dataset.ReadLabor(filepath.Join(dataDir, dataset.LaborEnhancedFile))
	tides, terr := dataset.ReadTides(filepath.Join(dataDir, dataset.TidesFile))

	phases := []*phase{
		validateWarnings(warnings, werr),
		validateYearOrder(warnings, werr),
		validateLabor("Phase 3: Labor invariants (basic)", basic, berr),
		validateLabor("Phase 4: Labor invariants (enhanced)", enhanced, eerr),
		validateLaborParity(basic, berr, enhanced, eerr),
		validateTides(tides, terr),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		switch {
		case p.skipped != "":
			status = "\033[33mSKIP\033[0m (" + p.skipped + ")"
		case !p.passed():
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-44s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Rows: %d warnings, %d basic labor, %d enhanced labor, %d tides\n",
		len(warnings), len(basic), len(enhanced), len(tides))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if i == 20 {
				fmt.Printf("  ... and %d more\n", len(p.errors)-i)
				break
			}
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// loadFailed records a read error on p. A missing file is a skip, anything
// else is a failure. It reports whether the phase should stop.
func loadFailed(p *phase, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, fs.ErrNotExist):
		p.skip("file not found")
	default:
		p.errorf("read: %v", err)
	}
	return true
}

// ── Phase 1: Warnings schema ──

func validateWarnings(rows []domain.WarningYear, err error) *phase {
	p := &phase{name: "Phase 1: Warnings schema and counts"}
	if loadFailed(p, err) {
		return p
	}
	if len(rows) == 0 {
		p.errorf("no data rows")
	}
	for _, w := range rows {
		if err := w.Validate(); err != nil {
			p.errorf("%v", err)
		}
	}
	return p
}

// ── Phase 2: Year ordering ──
// Rows are written in year order with one row per year, and every year
// carries a finite TotalHours.

func validateYearOrder(rows []domain.WarningYear, err error) *phase {
	p := &phase{name: "Phase 2: Warnings year ordering"}
	if loadFailed(p, err) {
		return p
	}

	years := make([]int, len(rows))
	for i, w := range rows {
		years[i] = w.Year
		if math.IsNaN(w.TotalHours) || math.IsInf(w.TotalHours, 0) {
			p.errorf("year %d: TotalHours is not finite", w.Year)
		}
	}
	want := slices.Compact(slices.Sorted(slices.Values(years)))
	if diff := cmp.Diff(want, years); diff != "" {
		p.errorf("years not strictly ascending (-want +got):\n%s", diff)
	}
	return p
}

// ── Phases 3-4: Labor invariants ──

func validateLabor(name string, rows []domain.LaborRecord, err error) *phase {
	p := &phase{name: name}
	if loadFailed(p, err) {
		return p
	}
	if len(rows) == 0 {
		p.errorf("no data rows")
	}

	var prev domain.LaborRecord
	for i, r := range rows {
		month := r.Month.Format(domain.MonthLayout)
		if err := r.Validate(); err != nil {
			p.errorf("%v", err)
		}
		if i > 0 && !r.Month.After(prev.Month) {
			p.errorf("%s: not after previous month %s", month, prev.Month.Format(domain.MonthLayout))
		}
		if d := math.Abs(r.Unemployed - (r.LaborForce - r.Employed)); d > unemployedTolerance {
			p.errorf("%s: unemployed %.1f differs from labor force - employed by %.2f", month, r.Unemployed, d)
		}
		if r.UnemploymentRate < minUnemploymentRate || r.UnemploymentRate > maxUnemploymentRate {
			p.errorf("%s: unemployment rate %.1f outside [%.1f, %.1f]",
				month, r.UnemploymentRate, minUnemploymentRate, maxUnemploymentRate)
		}
		if r.ParticipationRate < minParticipation || r.ParticipationRate > maxParticipation {
			p.errorf("%s: participation rate %.1f outside [%.0f, %.0f]",
				month, r.ParticipationRate, minParticipation, maxParticipation)
		}
		prev = r
	}
	return p
}

// ── Phase 5: Labor parity ──
// The enhanced series is the basic series plus a breakdown, so stripping the
// breakdown must give back the basic rows.

func validateLaborParity(basic []domain.LaborRecord, berr error, enhanced []domain.LaborRecord, eerr error) *phase {
	p := &phase{name: "Phase 5: Labor basic/enhanced parity"}
	if loadFailed(p, berr) || loadFailed(p, eerr) {
		return p
	}

	stripped := make([]domain.LaborRecord, len(enhanced))
	for i, r := range enhanced {
		if r.Enhanced == nil {
			p.errorf("enhanced row %d (%s): breakdown missing", i+1, r.Month.Format(domain.MonthLayout))
		}
		r.Enhanced = nil
		stripped[i] = r
	}
	if diff := cmp.Diff(basic, stripped); diff != "" {
		p.errorf("basic and enhanced base columns differ (-basic +enhanced):\n%s", diff)
	}
	return p
}

// ── Phase 6: Tides ──

func validateTides(rows []domain.TideReading, err error) *phase {
	p := &phase{name: "Phase 6: Tide readings"}
	if loadFailed(p, err) {
		return p
	}
	if len(rows) == 0 {
		p.errorf("no data rows")
	}
	for i, r := range rows {
		if err := r.Validate(); err != nil {
			p.errorf("%v", err)
		}
		if i > 0 && r.Time.Before(rows[i-1].Time) {
			p.errorf("row %d: %s is before the previous reading", i+1, r.Time.Format("2006-01-02 15:04"))
		}
	}
	return p
}
