package synth

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/couchcryptid/hk-data-viz/internal/domain"
)

// Default monthly range of the fabricated labor series.
var (
	DefaultLaborStart = time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)
	DefaultLaborEnd   = time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
)

const (
	baseLaborForce = 3800.0
	baseEmployed   = 3650.0
)

// LaborGenerator produces a seeded monthly labor series. Start and End are
// truncated to the first of their month; both are inclusive.
type LaborGenerator struct {
	Seed  int64
	Start time.Time
	End   time.Time
}

// NewLaborGenerator returns a generator over the default range.
func NewLaborGenerator(seed int64) LaborGenerator {
	return LaborGenerator{Seed: seed, Start: DefaultLaborStart, End: DefaultLaborEnd}
}

// Name identifies the dataset this generator produces.
func (g LaborGenerator) Name() string { return string(domain.KindLabor) }

// Extract returns the enhanced series as a labor dataset.
func (g LaborGenerator) Extract(ctx context.Context) (domain.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return domain.Dataset{}, err
	}
	rows, err := g.Enhanced()
	if err != nil {
		return domain.Dataset{}, err
	}
	return domain.Dataset{Kind: domain.KindLabor, Labor: rows, FetchedAt: domain.Now()}, nil
}

func (g LaborGenerator) months() ([]time.Time, error) {
	start := firstOfMonth(g.Start)
	end := firstOfMonth(g.End)
	if start.IsZero() || end.IsZero() || start.After(end) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidRange,
			start.Format(domain.MonthLayout), end.Format(domain.MonthLayout))
	}
	var out []time.Time
	for m := start; !m.After(end); m = m.AddDate(0, 1, 0) {
		out = append(out, m)
	}
	return out, nil
}

func firstOfMonth(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Basic returns the headline series: trend plus yearly seasonality plus
// Gaussian noise, with the rates clamped to plausible bounds.
func (g LaborGenerator) Basic() ([]domain.LaborRecord, error) {
	rows, _, err := g.basic()
	return rows, err
}

func (g LaborGenerator) basic() ([]domain.LaborRecord, rand.Source, error) {
	months, err := g.months()
	if err != nil {
		return nil, nil, err
	}
	src := newSource(g.Seed)
	noiseDist := distuv.Normal{Mu: 0, Sigma: 15, Src: src}
	participationDist := distuv.Normal{Mu: 0, Sigma: 1.5, Src: src}
	underDist := distuv.Uniform{Min: 1, Max: 2, Src: src}

	out := make([]domain.LaborRecord, len(months))
	for i, month := range months {
		trend := 2.5 * float64(i)
		seasonal := 20 * math.Sin(2*math.Pi*float64(i)/12)
		noise := noiseDist.Rand()

		labor := baseLaborForce + trend + seasonal + noise
		employed := baseEmployed + trend + 0.8*seasonal + 0.7*noise
		unemployed := labor - employed
		rate := domain.Clamp(unemployed/labor*100, 2.8, 6.5)
		participation := domain.Clamp(57+participationDist.Rand(), 55, 60)

		out[i] = domain.LaborRecord{
			Month:               month,
			LaborForce:          domain.Round(labor, 1),
			Employed:            domain.Round(employed, 1),
			Unemployed:          domain.Round(unemployed, 1),
			UnemploymentRate:    domain.Round(rate, 1),
			ParticipationRate:   domain.Round(participation, 1),
			UnderemploymentRate: domain.Round(underDist.Rand(), 1),
		}
	}
	return out, src, nil
}

// Enhanced returns the basic series with a demographic and industry
// breakdown attached. The headline columns are identical to Basic.
func (g LaborGenerator) Enhanced() ([]domain.LaborRecord, error) {
	rows, src, err := g.basic()
	if err != nil {
		return nil, err
	}
	u := func(lo, hi float64) float64 {
		return distuv.Uniform{Min: lo, Max: hi, Src: src}.Rand()
	}
	for i := range rows {
		maleRatio := u(0.52, 0.56)
		lf := rows[i].LaborForce
		rows[i].Enhanced = &domain.LaborBreakdown{
			MaleLaborForce:   domain.Round(lf*maleRatio, 1),
			FemaleLaborForce: domain.Round(lf*(1-maleRatio), 1),
			Youth15to24Rate:  domain.Round(u(45, 65), 1),
			Prime25to54Rate:  domain.Round(u(85, 92), 1),
			Senior55PlusRate: domain.Round(u(25, 35), 1),
			FinanceShare:     domain.Round(u(6, 8), 1),
			RetailShare:      domain.Round(u(15, 18), 1),
			PublicAdminShare: domain.Round(u(4, 6), 1),
			GDPGrowth:        domain.Round(u(-2, 6), 1),
		}
	}
	return rows, nil
}
