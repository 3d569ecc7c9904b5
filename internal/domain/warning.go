package domain

import (
	"fmt"
	"math"
)

// SignalCount is the number of signal columns in the HKO warnings table.
const SignalCount = 8

// SignalLabels names the HKO signal columns in page order.
var SignalLabels = [SignalCount]string{"1", "3", "8NE", "8SE", "8SW", "8NW", "9", "10"}

// WarningYear is one row of the HKO tropical cyclone warning signal table.
type WarningYear struct {
	Year       int              `json:"year"`
	Signals    [SignalCount]int `json:"signals"`
	TotalHours float64          `json:"total_hours"`
}

// Validate reports the first invariant the row violates.
func (w WarningYear) Validate() error {
	if w.Year <= 0 {
		return fmt.Errorf("year %d: must be positive", w.Year)
	}
	for i, n := range w.Signals {
		if n < 0 {
			return fmt.Errorf("year %d: Signal%d count %d is negative", w.Year, i+1, n)
		}
	}
	if w.TotalHours < 0 || math.IsNaN(w.TotalHours) {
		return fmt.Errorf("year %d: TotalHours %g is negative", w.Year, w.TotalHours)
	}
	return nil
}

// HoursFromClock converts an hours/minutes pair into decimal hours rounded
// to two places, the way the warnings CSV stores durations.
func HoursFromClock(hours, minutes int) float64 {
	return Round(float64(hours)+float64(minutes)/60.0, 2)
}

// TotalHoursSeries extracts the TotalHours column.
func TotalHoursSeries(rows []WarningYear) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.TotalHours
	}
	return out
}

// LessWarning orders rows by year, then by signal counts.
func LessWarning(a, b WarningYear) bool {
	if a.Year != b.Year {
		return a.Year < b.Year
	}
	for i := range a.Signals {
		if a.Signals[i] != b.Signals[i] {
			return a.Signals[i] < b.Signals[i]
		}
	}
	return a.TotalHours < b.TotalHours
}
