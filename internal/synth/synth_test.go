package synth

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/hk-data-viz/internal/domain"
)

func TestLaborGenerator_Basic(t *testing.T) {
	rows, err := NewLaborGenerator(42).Basic()
	require.NoError(t, err)
	require.Len(t, rows, 129, "2015-01 through 2025-09 inclusive")

	assert.Equal(t, DefaultLaborStart, rows[0].Month)
	assert.Equal(t, DefaultLaborEnd, rows[len(rows)-1].Month)

	for _, r := range rows {
		require.NoError(t, r.Validate())
		assert.Nil(t, r.Enhanced)
		assert.GreaterOrEqual(t, r.UnemploymentRate, 2.8)
		assert.LessOrEqual(t, r.UnemploymentRate, 6.5)
		assert.GreaterOrEqual(t, r.ParticipationRate, 55.0)
		assert.LessOrEqual(t, r.ParticipationRate, 60.0)
		assert.GreaterOrEqual(t, r.UnderemploymentRate, 1.0)
		assert.LessOrEqual(t, r.UnderemploymentRate, 2.0)
		assert.InDelta(t, r.LaborForce-r.Employed, r.Unemployed, 0.15)
	}
}

func TestLaborGenerator_Deterministic(t *testing.T) {
	a, err := NewLaborGenerator(42).Basic()
	require.NoError(t, err)
	b, err := NewLaborGenerator(42).Basic()
	require.NoError(t, err)
	c, err := NewLaborGenerator(43).Basic()
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestLaborGenerator_EnhancedSharesBase(t *testing.T) {
	g := NewLaborGenerator(42)
	basic, err := g.Basic()
	require.NoError(t, err)
	enhanced, err := g.Enhanced()
	require.NoError(t, err)
	require.Len(t, enhanced, len(basic))

	for i, r := range enhanced {
		require.NotNil(t, r.Enhanced)
		b := r.Enhanced
		r.Enhanced = nil
		assert.Equal(t, basic[i], r)

		assert.InDelta(t, r.LaborForce, b.MaleLaborForce+b.FemaleLaborForce, 0.15)
		share := b.MaleLaborForce / r.LaborForce
		assert.True(t, share > 0.51 && share < 0.57, "male share %.3f", share)
		assert.True(t, b.Youth15to24Rate >= 45 && b.Youth15to24Rate <= 65)
		assert.True(t, b.Prime25to54Rate >= 85 && b.Prime25to54Rate <= 92)
		assert.True(t, b.Senior55PlusRate >= 25 && b.Senior55PlusRate <= 35)
		assert.True(t, b.FinanceShare >= 6 && b.FinanceShare <= 8)
		assert.True(t, b.RetailShare >= 15 && b.RetailShare <= 18)
		assert.True(t, b.PublicAdminShare >= 4 && b.PublicAdminShare <= 6)
		assert.True(t, b.GDPGrowth >= -2 && b.GDPGrowth <= 6)
	}
}

func TestLaborGenerator_InvalidRange(t *testing.T) {
	g := LaborGenerator{Seed: 1, Start: DefaultLaborEnd, End: DefaultLaborStart}
	_, err := g.Basic()
	require.ErrorIs(t, err, ErrInvalidRange)

	_, err = g.Extract(context.Background())
	require.ErrorIs(t, err, ErrInvalidRange)
}

func TestLaborGenerator_SingleMonth(t *testing.T) {
	m := time.Date(2020, 5, 17, 0, 0, 0, 0, time.UTC)
	rows, err := LaborGenerator{Seed: 1, Start: m, End: m}.Basic()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC), rows[0].Month)
}

func TestLaborGenerator_Extract(t *testing.T) {
	ds, err := NewLaborGenerator(42).Extract(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.KindLabor, ds.Kind)
	assert.Len(t, ds.Labor, 129)
	assert.NotNil(t, ds.Labor[0].Enhanced)
}

func TestTideGenerator(t *testing.T) {
	g := NewTideGenerator(7)
	rows, err := g.Generate()
	require.NoError(t, err)
	require.Len(t, rows, defaultTideCount)

	assert.Equal(t, DefaultTideStart, rows[0].Time)
	assert.Equal(t, time.Hour, rows[1].Time.Sub(rows[0].Time))

	heights := domain.TideHeights(rows)
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, h := range heights {
		assert.GreaterOrEqual(t, h, 0.0)
		lo, hi = math.Min(lo, h), math.Max(hi, h)
	}
	assert.Greater(t, hi-lo, 1.0, "tidal range should span the harmonic amplitude")

	again, err := g.Generate()
	require.NoError(t, err)
	assert.Equal(t, rows, again)
}

func TestTideGenerator_InvalidRange(t *testing.T) {
	_, err := TideGenerator{Seed: 1, Start: DefaultTideStart, Step: time.Hour}.Generate()
	require.ErrorIs(t, err, ErrInvalidRange)

	_, err = TideGenerator{Seed: 1, Start: DefaultTideStart, Count: 3}.Generate()
	require.ErrorIs(t, err, ErrInvalidRange)
}

func TestTideGenerator_Extract(t *testing.T) {
	ds, err := NewTideGenerator(7).Extract(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.KindTides, ds.Kind)
	assert.Equal(t, "tides", NewTideGenerator(7).Name())
}
