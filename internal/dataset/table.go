package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// FindInput returns the first candidate file that exists in any of dirs,
// searching candidates in order and dirs in order for each.
func FindInput(dirs, candidates []string) (string, error) {
	for _, name := range candidates {
		for _, dir := range dirs {
			p := filepath.Join(dir, name)
			if st, err := os.Stat(p); err == nil && !st.IsDir() {
				return p, nil
			}
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrNoInput, strings.Join(candidates, ", "))
}

// FindAnyInput is FindInput, except that when no candidate exists it falls
// back to the first CSV in the first dir.
func FindAnyInput(dirs, candidates []string) (string, error) {
	p, err := FindInput(dirs, candidates)
	if err == nil || len(dirs) == 0 {
		return p, err
	}
	matches, gerr := filepath.Glob(filepath.Join(dirs[0], "*.csv"))
	if gerr != nil || len(matches) == 0 {
		return "", err
	}
	return matches[0], nil
}

// Table is a generic header plus rows view of a CSV file.
type Table struct {
	Header []string
	Rows   [][]string
}

// ReadTable reads up to limit data rows from path. A limit of zero or less
// reads every row.
func ReadTable(path string, limit int) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck // read-only

	header, rows, err := readRecords(f)
	if err != nil {
		return Table{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return Table{Header: header, Rows: rows}, nil
}

func (t Table) cell(row, col int) string {
	if col < len(t.Rows[row]) {
		return strings.TrimSpace(t.Rows[row][col])
	}
	return ""
}

// Series is a single time-indexed numeric column picked out of a Table.
type Series struct {
	TimeColumn  string
	ValueColumn string
	Times       []time.Time
	Values      []float64
	// Synthetic is set when the time column did not parse and hourly
	// placeholders were substituted.
	Synthetic bool
}

var syntheticEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// DetectSeries picks a datetime column and a numeric value column.
//
// The datetime column is the last header containing "date" or "time",
// otherwise column 0. The value column is the first fully numeric column
// whose header mentions neither "year" nor "hour", otherwise column 1.
// If any datetime cell fails to parse, all timestamps become an hourly
// range starting 2000-01-01.
func DetectSeries(t Table) (Series, error) {
	if len(t.Header) == 0 {
		return Series{}, ErrNoValueColumn
	}

	timeCol := 0
	for i, h := range t.Header {
		l := strings.ToLower(h)
		if strings.Contains(l, "date") || strings.Contains(l, "time") {
			timeCol = i
		}
	}

	valueCol := -1
	for i, h := range t.Header {
		l := strings.ToLower(h)
		if i == timeCol || strings.Contains(l, "year") || strings.Contains(l, "hour") {
			continue
		}
		if t.numeric(i) {
			valueCol = i
			break
		}
	}
	if valueCol < 0 {
		if len(t.Header) < 2 || !t.numeric(1) {
			return Series{}, ErrNoValueColumn
		}
		valueCol = 1
	}

	s := Series{
		TimeColumn:  t.Header[timeCol],
		ValueColumn: t.Header[valueCol],
		Times:       make([]time.Time, len(t.Rows)),
		Values:      make([]float64, len(t.Rows)),
	}
	for r := range t.Rows {
		s.Values[r], _ = strconv.ParseFloat(t.cell(r, valueCol), 64)
		ts, err := parseTime(t.cell(r, timeCol))
		if err != nil {
			s.Synthetic = true
		}
		s.Times[r] = ts
	}
	if s.Synthetic {
		for r := range s.Times {
			s.Times[r] = syntheticEpoch.Add(time.Duration(r) * time.Hour)
		}
	}
	return s, nil
}

func (t Table) numeric(col int) bool {
	if len(t.Rows) == 0 {
		return false
	}
	for r := range t.Rows {
		if _, err := strconv.ParseFloat(t.cell(r, col), 64); err != nil {
			return false
		}
	}
	return true
}
