package synth

import (
	"context"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/couchcryptid/hk-data-viz/internal/domain"
)

// Harmonic constituents, in hours.
const (
	semiDiurnalPeriod = 12.42
	diurnalPeriod     = 23.93

	meanSeaLevel       = 1.4
	semiDiurnalAmpl    = 0.8
	diurnalAmpl        = 0.35
	diurnalPhase       = 0.6
	tideNoiseSigma     = 0.05
	defaultTideCount   = 240
	defaultTideStepHrs = 1
)

// DefaultTideStart is the first sample time of the default tide series.
var DefaultTideStart = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// TideGenerator produces a seeded two-constituent tide curve.
type TideGenerator struct {
	Seed  int64
	Start time.Time
	Step  time.Duration
	Count int
}

// NewTideGenerator returns a generator for ten days of hourly readings.
func NewTideGenerator(seed int64) TideGenerator {
	return TideGenerator{
		Seed:  seed,
		Start: DefaultTideStart,
		Step:  defaultTideStepHrs * time.Hour,
		Count: defaultTideCount,
	}
}

// Name identifies the dataset this generator produces.
func (g TideGenerator) Name() string { return string(domain.KindTides) }

// Extract returns the tide dataset.
func (g TideGenerator) Extract(ctx context.Context) (domain.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return domain.Dataset{}, err
	}
	rows, err := g.Generate()
	if err != nil {
		return domain.Dataset{}, err
	}
	return domain.Dataset{Kind: domain.KindTides, Tides: rows, FetchedAt: domain.Now()}, nil
}

// Generate returns Count readings spaced Step apart. Heights never go
// below zero.
func (g TideGenerator) Generate() ([]domain.TideReading, error) {
	if g.Count <= 0 || g.Step <= 0 || g.Start.IsZero() {
		return nil, fmt.Errorf("%w: count %d, step %s", ErrInvalidRange, g.Count, g.Step)
	}
	noise := distuv.Normal{Mu: 0, Sigma: tideNoiseSigma, Src: newSource(g.Seed)}

	out := make([]domain.TideReading, g.Count)
	for i := range out {
		ts := g.Start.Add(time.Duration(i) * g.Step).UTC()
		h := ts.Sub(g.Start).Hours()
		height := meanSeaLevel +
			semiDiurnalAmpl*math.Sin(2*math.Pi*h/semiDiurnalPeriod) +
			diurnalAmpl*math.Sin(2*math.Pi*h/diurnalPeriod+diurnalPhase) +
			noise.Rand()
		out[i] = domain.TideReading{Time: ts, Height: domain.Round(math.Max(0, height), 3)}
	}
	return out, nil
}
