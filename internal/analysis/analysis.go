// Package analysis computes descriptive statistics over the labor series.
package analysis

import (
	"errors"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/couchcryptid/hk-data-viz/internal/domain"
)

// ErrNoData is returned when a report is requested for an empty series.
var ErrNoData = errors.New("no data")

// Summary describes one numeric column.
type Summary struct {
	Count int
	Mean  float64
	Min   float64
	Max   float64
	// Std is the sample standard deviation; zero for fewer than two values.
	Std float64
}

// Describe summarizes values. An empty slice yields a zero Summary.
func Describe(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	s := Summary{
		Count: len(values),
		Mean:  stat.Mean(values, nil),
		Min:   floats.Min(values),
		Max:   floats.Max(values),
	}
	if len(values) > 1 {
		s.Std = stat.StdDev(values, nil)
	}
	return s
}

// Column is a named summary in report order.
type Column struct {
	Name    string
	Summary Summary
}

// Trend is a least-squares line over the month index.
type Trend struct {
	Intercept float64
	// Slope is in percentage points per month.
	Slope float64
}

// Report holds the key findings for a labor series.
type Report struct {
	From, To time.Time
	Months   int
	Columns  []Column

	LaborForceGrowth  float64 // percent, first month to last
	AvgUnemployment   float64
	MinUnemployment   float64
	MaxUnemployment   float64
	Participation     float64 // latest month
	MaleShare         float64 // latest month, percent
	HasBreakdown      bool
	UnemploymentTrend Trend
}

// LaborReport analyzes records, which must be in month order.
func LaborReport(records []domain.LaborRecord) (Report, error) {
	if len(records) == 0 {
		return Report{}, ErrNoData
	}
	first, last := records[0], records[len(records)-1]

	col := func(f func(domain.LaborRecord) float64) []float64 {
		out := make([]float64, len(records))
		for i, r := range records {
			out[i] = f(r)
		}
		return out
	}
	rates := domain.UnemploymentSeries(records)

	r := Report{
		From:   first.Month,
		To:     last.Month,
		Months: len(records),
		Columns: []Column{
			{"Labor force (thousands)", Describe(col(func(r domain.LaborRecord) float64 { return r.LaborForce }))},
			{"Employed (thousands)", Describe(col(func(r domain.LaborRecord) float64 { return r.Employed }))},
			{"Unemployed (thousands)", Describe(col(func(r domain.LaborRecord) float64 { return r.Unemployed }))},
			{"Unemployment rate (%)", Describe(rates)},
		},
		Participation: last.ParticipationRate,
	}

	if first.LaborForce != 0 {
		r.LaborForceGrowth = (last.LaborForce - first.LaborForce) / first.LaborForce * 100
	}
	rateSummary := r.Columns[3].Summary
	r.AvgUnemployment = rateSummary.Mean
	r.MinUnemployment = rateSummary.Min
	r.MaxUnemployment = rateSummary.Max

	if b := last.Enhanced; b != nil && b.MaleLaborForce+b.FemaleLaborForce > 0 {
		r.HasBreakdown = true
		r.MaleShare = b.MaleLaborForce / (b.MaleLaborForce + b.FemaleLaborForce) * 100
	}

	if len(rates) > 1 {
		x := make([]float64, len(rates))
		floats.Span(x, 0, float64(len(rates)-1))
		r.UnemploymentTrend.Intercept, r.UnemploymentTrend.Slope = stat.LinearRegression(x, rates, nil, false)
	} else {
		r.UnemploymentTrend.Intercept = rates[0]
	}
	return r, nil
}
