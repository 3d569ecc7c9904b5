package domain

import (
	"fmt"
	"time"
)

// TideReading is a single tide gauge sample.
type TideReading struct {
	Time   time.Time `json:"time"`
	Height float64   `json:"height_m"`
}

// Validate reports whether the reading is usable.
func (t TideReading) Validate() error {
	if t.Time.IsZero() {
		return fmt.Errorf("tide reading: time is missing")
	}
	if t.Height < 0 {
		return fmt.Errorf("tide reading %s: height %g is negative", t.Time.Format(time.RFC3339), t.Height)
	}
	return nil
}

// TideHeights extracts the height column.
func TideHeights(rows []TideReading) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.Height
	}
	return out
}
