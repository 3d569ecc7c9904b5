package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/couchcryptid/hk-data-viz/internal/domain"
)

func warningsHeader() []string {
	h := []string{"Year"}
	for i := 1; i <= domain.SignalCount; i++ {
		h = append(h, "Signal"+strconv.Itoa(i))
	}
	return append(h, "TotalHours")
}

// ParseWarnings decodes the warnings CSV.
func ParseWarnings(r io.Reader) ([]domain.WarningYear, error) {
	header, rows, err := readRecords(r)
	if err != nil {
		return nil, err
	}
	idx := columnIndex(header, nil)
	for _, col := range warningsHeader() {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing column %s", col)
		}
	}

	out := make([]domain.WarningYear, 0, len(rows))
	for i, rec := range rows {
		rr := rowReader{line: i + 2, rec: rec, idx: idx}
		w := domain.WarningYear{Year: rr.int("Year")}
		for s := range w.Signals {
			w.Signals[s] = rr.int("Signal" + strconv.Itoa(s+1))
		}
		w.TotalHours = rr.float("TotalHours")
		if rr.err != nil {
			return nil, rr.err
		}
		out = append(out, w)
	}
	return out, nil
}

// ReadWarnings reads the warnings CSV at path.
func ReadWarnings(path string) ([]domain.WarningYear, error) {
	return readFile(path, ParseWarnings)
}

// EncodeWarnings writes rows to w in year order.
func EncodeWarnings(w *csv.Writer, rows []domain.WarningYear) error {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b domain.WarningYear) int {
		switch {
		case domain.LessWarning(a, b):
			return -1
		case domain.LessWarning(b, a):
			return 1
		}
		return 0
	})

	if err := w.Write(warningsHeader()); err != nil {
		return err
	}
	for _, r := range sorted {
		rec := []string{strconv.Itoa(r.Year)}
		for _, n := range r.Signals {
			rec = append(rec, strconv.Itoa(n))
		}
		rec = append(rec, formatFloat(r.TotalHours))
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// WriteWarnings atomically replaces path with rows.
func WriteWarnings(path string, rows []domain.WarningYear) error {
	return writeAtomic(path, func(w *csv.Writer) error { return EncodeWarnings(w, rows) })
}
