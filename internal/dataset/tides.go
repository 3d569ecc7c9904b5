package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/couchcryptid/hk-data-viz/internal/domain"
)

var tidesHeader = []string{"time", "tide"}

// timeLayouts lists the timestamp formats accepted in time-like columns.
var timeLayouts = []string{
	time.RFC3339,
	time.DateTime,
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006/01/02 15:04",
	time.DateOnly,
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

// ParseTides decodes a tide CSV. The height comes from the "tide" column
// when present, else the second column; the time from "time" or column 0.
func ParseTides(r io.Reader) ([]domain.TideReading, error) {
	header, rows, err := readRecords(r)
	if err != nil {
		return nil, err
	}
	if len(header) < 2 {
		return nil, errors.New("tide csv needs at least two columns")
	}
	timeCol, tideCol := 0, 1
	for i, h := range header {
		switch strings.ToLower(h) {
		case "time":
			timeCol = i
		case "tide":
			tideCol = i
		}
	}
	idx := map[string]int{header[timeCol]: timeCol, header[tideCol]: tideCol}

	out := make([]domain.TideReading, 0, len(rows))
	for i, rec := range rows {
		rr := rowReader{line: i + 2, rec: rec, idx: idx}
		s, _ := rr.cell(header[timeCol])
		ts, err := parseTime(s)
		if err != nil {
			return nil, &CellError{Line: rr.line, Column: header[timeCol], Value: s, Err: err}
		}
		h := rr.float(header[tideCol])
		if rr.err != nil {
			return nil, rr.err
		}
		out = append(out, domain.TideReading{Time: ts, Height: h})
	}
	return out, nil
}

// ReadTides reads the tide CSV at path.
func ReadTides(path string) ([]domain.TideReading, error) {
	return readFile(path, ParseTides)
}

// EncodeTides writes rows to w.
func EncodeTides(w *csv.Writer, rows []domain.TideReading) error {
	if err := w.Write(tidesHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write([]string{r.Time.UTC().Format(time.RFC3339), formatFloat(r.Height)}); err != nil {
			return err
		}
	}
	return nil
}

// WriteTides atomically replaces path with rows.
func WriteTides(path string, rows []domain.TideReading) error {
	return writeAtomic(path, func(w *csv.Writer) error { return EncodeTides(w, rows) })
}

// WriteIndicators atomically writes a key,value CSV sorted by key.
func WriteIndicators(path string, kv map[string]string) error {
	return writeAtomic(path, func(w *csv.Writer) error {
		if err := w.Write([]string{"key", "value"}); err != nil {
			return err
		}
		for _, k := range slices.Sorted(maps.Keys(kv)) {
			if err := w.Write([]string{k, kv[k]}); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReadIndicators reads a key,value CSV written by WriteIndicators.
func ReadIndicators(path string) (map[string]string, error) {
	return readFile(path, func(r io.Reader) (map[string]string, error) {
		_, rows, err := readRecords(r)
		if err != nil {
			return nil, err
		}
		out := make(map[string]string, len(rows))
		for _, rec := range rows {
			if len(rec) >= 2 {
				out[strings.TrimSpace(rec[0])] = strings.TrimSpace(rec[1])
			}
		}
		return out, nil
	})
}
