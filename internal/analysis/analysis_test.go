package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/hk-data-viz/internal/domain"
)

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func TestDescribe(t *testing.T) {
	s := Describe([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.Equal(t, 8, s.Count)
	assert.InDelta(t, 5, s.Mean, 1e-12)
	assert.InDelta(t, 2, s.Min, 0)
	assert.InDelta(t, 9, s.Max, 0)
	assert.InDelta(t, math.Sqrt(32.0/7.0), s.Std, 1e-12, "sample standard deviation")
}

func TestDescribe_EdgeCases(t *testing.T) {
	assert.Equal(t, Summary{}, Describe(nil))

	one := Describe([]float64{3.3})
	assert.Equal(t, 1, one.Count)
	assert.InDelta(t, 0, one.Std, 0)
}

func TestLaborReport(t *testing.T) {
	records := []domain.LaborRecord{
		{Month: month(2020, 1), LaborForce: 4000, Employed: 3840, Unemployed: 160, UnemploymentRate: 4.0, ParticipationRate: 58},
		{Month: month(2020, 2), LaborForce: 4050, Employed: 3880, Unemployed: 170, UnemploymentRate: 4.5, ParticipationRate: 57},
		{
			Month: month(2020, 3), LaborForce: 4100, Employed: 3895, Unemployed: 205, UnemploymentRate: 5.0, ParticipationRate: 56.5,
			Enhanced: &domain.LaborBreakdown{MaleLaborForce: 2214, FemaleLaborForce: 1886},
		},
	}

	r, err := LaborReport(records)
	require.NoError(t, err)

	assert.Equal(t, 3, r.Months)
	assert.Equal(t, month(2020, 1), r.From)
	assert.Equal(t, month(2020, 3), r.To)
	require.Len(t, r.Columns, 4)
	assert.InDelta(t, 4050, r.Columns[0].Summary.Mean, 1e-9)

	assert.InDelta(t, 2.5, r.LaborForceGrowth, 1e-9)
	assert.InDelta(t, 4.5, r.AvgUnemployment, 1e-9)
	assert.InDelta(t, 4.0, r.MinUnemployment, 0)
	assert.InDelta(t, 5.0, r.MaxUnemployment, 0)
	assert.InDelta(t, 56.5, r.Participation, 0)

	assert.True(t, r.HasBreakdown)
	assert.InDelta(t, 54.0, r.MaleShare, 1e-9)

	assert.InDelta(t, 0.5, r.UnemploymentTrend.Slope, 1e-9)
	assert.InDelta(t, 4.0, r.UnemploymentTrend.Intercept, 1e-9)
}

func TestLaborReport_NoBreakdown(t *testing.T) {
	r, err := LaborReport([]domain.LaborRecord{{Month: month(2021, 6), LaborForce: 1, UnemploymentRate: 3.2}})
	require.NoError(t, err)
	assert.False(t, r.HasBreakdown)
	assert.InDelta(t, 0, r.LaborForceGrowth, 0)
	assert.InDelta(t, 3.2, r.UnemploymentTrend.Intercept, 0)
	assert.InDelta(t, 0, r.UnemploymentTrend.Slope, 0)
}

func TestLaborReport_Empty(t *testing.T) {
	_, err := LaborReport(nil)
	require.ErrorIs(t, err, ErrNoData)
}
