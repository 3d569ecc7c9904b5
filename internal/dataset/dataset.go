// Package dataset reads and writes the CSV files that sit between the
// scrapers, the synthetic generators and the renderers.
package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// File names shared by the loaders and renderers.
const (
	WarningsFile      = "hko_tropical_warnings_1956_2024.csv"
	LaborBasicFile    = "hk_labor_basic.csv"
	LaborEnhancedFile = "hk_labor_enhanced.csv"
	TidesFile         = "tides.csv"
	IndicatorsFile    = "hk_labor_indicators.csv"
)

// Candidate input lists, most specific first.
var (
	TidalBarCandidates = []string{"tidal_data.csv", TidesFile, WarningsFile}
	LaborCandidates    = []string{LaborEnhancedFile, LaborBasicFile, "hk_labor_statistics.csv"}
)

var (
	// ErrNoInput is returned when none of the candidate input files exist.
	ErrNoInput = errors.New("no input file found")
	// ErrNoValueColumn is returned when a table has no usable numeric column.
	ErrNoValueColumn = errors.New("no numeric value column")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CellError locates an unparsable cell. Line is 1-based and counts the header.
type CellError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("line %d, column %s: cannot parse %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *CellError) Unwrap() error { return e.Err }

// readRecords loads every non-blank record from r. The header row is
// returned separately with a leading BOM stripped.
func readRecords(r io.Reader) ([]string, [][]string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)

	cr := csv.NewReader(bytes.NewReader(raw))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var header []string
	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("parse csv: %w", err)
		}
		if blank(rec) {
			continue
		}
		if header == nil {
			header = trimAll(rec)
			continue
		}
		rows = append(rows, rec)
	}
	if header == nil {
		return nil, nil, errors.New("parse csv: missing header")
	}
	return header, rows, nil
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func trimAll(rec []string) []string {
	out := make([]string, len(rec))
	for i, c := range rec {
		out[i] = strings.TrimSpace(c)
	}
	return out
}

// columnIndex maps canonical column names to their position in header,
// resolving any alias spelling.
func columnIndex(header []string, aliases map[string]string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		name := h
		if canon, ok := aliases[h]; ok {
			name = canon
		}
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}
	return idx
}

type rowReader struct {
	line int
	rec  []string
	idx  map[string]int
	err  error
}

func (r *rowReader) cell(col string) (string, bool) {
	i, ok := r.idx[col]
	if !ok || i >= len(r.rec) {
		return "", false
	}
	return strings.TrimSpace(r.rec[i]), true
}

func (r *rowReader) float(col string) float64 {
	if r.err != nil {
		return 0
	}
	s, ok := r.cell(col)
	if !ok {
		r.err = &CellError{Line: r.line, Column: col, Err: errors.New("missing")}
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		r.err = &CellError{Line: r.line, Column: col, Value: s, Err: err}
		return 0
	}
	return v
}

func (r *rowReader) int(col string) int {
	if r.err != nil {
		return 0
	}
	s, ok := r.cell(col)
	if !ok {
		r.err = &CellError{Line: r.line, Column: col, Err: errors.New("missing")}
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		// Pandas writes integer columns as floats once a NaN has appeared.
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int(f)) {
			r.err = &CellError{Line: r.line, Column: col, Value: s, Err: err}
			return 0
		}
		v = int(f)
	}
	return v
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteFileAtomic writes the output of fn to path via a temporary file in
// the same directory followed by a rename. Readers never observe a
// partially written file.
func WriteFileAtomic(path string, fn func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	if err := fn(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

func writeAtomic(path string, fn func(w *csv.Writer) error) error {
	return WriteFileAtomic(path, func(out io.Writer) error {
		w := csv.NewWriter(out)
		if err := fn(w); err != nil {
			return err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		return nil
	})
}

func readFile[T any](path string, parse func(io.Reader) (T, error)) (T, error) {
	f, err := os.Open(path)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck // read-only

	v, err := parse(f)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return v, nil
}
