package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/hk-data-viz/internal/dataset"
	"github.com/couchcryptid/hk-data-viz/internal/domain"
	"github.com/couchcryptid/hk-data-viz/internal/observability"
)

// ErrRunInProgress is returned when RunOnce is called while another run
// has not finished.
var ErrRunInProgress = errors.New("pipeline run already in progress")

// Extractor produces one dataset, from a scraper or a generator.
type Extractor interface {
	Name() string
	Extract(ctx context.Context) (domain.Dataset, error)
}

// Loader persists or publishes an extracted dataset.
type Loader interface {
	Name() string
	Load(ctx context.Context, ds domain.Dataset) error
}

// Renderer produces one artifact from the CSVs in the data directory.
type Renderer interface {
	Name() string
	Render(ctx context.Context) (domain.Artifact, error)
}

// Optional is implemented by extractors whose failure should not fail the
// run. Their errors are reported as warnings.
type Optional interface {
	Optional() bool
}

// StageError records which stage and component failed.
type StageError struct {
	Stage string // extract, load or render
	Name  string
	Err   error
}

func (e *StageError) Error() string { return e.Stage + " " + e.Name + ": " + e.Err.Error() }

func (e *StageError) Unwrap() error { return e.Err }

// Summary is the outcome of one RunOnce.
type Summary struct {
	Started   time.Time
	Finished  time.Time
	Datasets  []domain.Dataset
	Artifacts []domain.Artifact
	// Skipped lists renderers whose input CSV was not present.
	Skipped  []string
	Warnings []error
	Errors   []error
}

// Failed reports whether any required stage failed.
func (s Summary) Failed() bool { return len(s.Errors) > 0 }

// Err joins the stage errors, or returns nil.
func (s Summary) Err() error { return errors.Join(s.Errors...) }

// Retry controls how often an extraction is attempted and the wait between
// attempts.
type Retry struct {
	Attempts   int
	Initial    time.Duration
	MaxBackoff time.Duration
}

// DefaultRetry starts at 200ms, doubles each attempt, caps at 5s and gives
// up after three attempts.
var DefaultRetry = Retry{Attempts: 3, Initial: 200 * time.Millisecond, MaxBackoff: 5 * time.Second}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRetry overrides DefaultRetry.
func WithRetry(r Retry) Option {
	return func(p *Pipeline) { p.retry = r }
}

// Pipeline orchestrates the extract-load-render run.
type Pipeline struct {
	extractors []Extractor
	loaders    []Loader
	renderers  []Renderer
	logger     *slog.Logger
	metrics    *observability.Metrics
	retry      Retry
	ready      atomic.Bool
	running    sync.Mutex
}

// New creates a Pipeline with the given stages and observability.
func New(extractors []Extractor, loaders []Loader, renderers []Renderer, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Pipeline {
	p := &Pipeline{
		extractors: extractors,
		loaders:    loaders,
		renderers:  renderers,
		logger:     logger,
		metrics:    metrics,
		retry:      DefaultRetry,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CheckReadiness returns nil once a run has rendered at least one artifact,
// or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not rendered any artifacts yet")
	}
	return nil
}

// Ready reports whether any artifact has been rendered.
func (p *Pipeline) Ready() bool { return p.ready.Load() }

// RunOnce extracts every dataset, hands each to every loader, then renders
// every artifact. Failures are collected in the Summary rather than
// aborting the run, except for context cancellation.
func (p *Pipeline) RunOnce(ctx context.Context) Summary {
	s := Summary{Started: domain.Now()}
	if !p.running.TryLock() {
		s.Errors = append(s.Errors, ErrRunInProgress)
		s.Finished = domain.Now()
		return s
	}
	defer p.running.Unlock()

	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	p.logger.Info("pipeline run started",
		"extractors", len(p.extractors),
		"loaders", len(p.loaders),
		"renderers", len(p.renderers),
	)

	p.extractAll(ctx, &s)
	p.loadAll(ctx, &s)
	p.renderAll(ctx, &s)

	if err := ctx.Err(); err != nil {
		s.Errors = append(s.Errors, err)
	}
	if len(s.Artifacts) > 0 {
		p.ready.Store(true)
		p.metrics.LastSuccess.Set(float64(domain.Now().Unix()))
	}

	s.Finished = domain.Now()
	p.logger.Info("pipeline run finished",
		"datasets", len(s.Datasets),
		"artifacts", len(s.Artifacts),
		"skipped", len(s.Skipped),
		"warnings", len(s.Warnings),
		"errors", len(s.Errors),
		"duration", s.Finished.Sub(s.Started),
	)
	return s
}

func (p *Pipeline) extractAll(ctx context.Context, s *Summary) {
	for _, e := range p.extractors {
		if ctx.Err() != nil {
			return
		}
		start := time.Now()
		ds, err := p.extract(ctx, e)
		p.metrics.ExtractDuration.WithLabelValues(e.Name()).Observe(time.Since(start).Seconds())
		if err != nil {
			p.metrics.ExtractTotal.WithLabelValues(e.Name(), "error").Inc()
			stageErr := &StageError{Stage: "extract", Name: e.Name(), Err: err}
			if o, ok := e.(Optional); ok && o.Optional() {
				p.logger.Warn("optional extract failed, continuing", "dataset", e.Name(), "error", err)
				s.Warnings = append(s.Warnings, stageErr)
				continue
			}
			p.logger.Error("extract failed", "dataset", e.Name(), "error", err)
			s.Errors = append(s.Errors, stageErr)
			continue
		}
		p.metrics.ExtractTotal.WithLabelValues(e.Name(), "success").Inc()
		p.metrics.RecordsExtracted.WithLabelValues(e.Name()).Add(float64(ds.Len()))
		p.logger.Info("dataset extracted", "dataset", e.Name(), "records", ds.Len())
		s.Datasets = append(s.Datasets, ds)
	}
}

// extract calls e until it succeeds, the attempts run out, or ctx ends.
func (p *Pipeline) extract(ctx context.Context, e Extractor) (domain.Dataset, error) {
	backoff := p.retry.Initial
	attempts := max(p.retry.Attempts, 1)
	var (
		err     error
		attempt int
	)
	for attempt = 1; ; attempt++ {
		var ds domain.Dataset
		ds, err = e.Extract(ctx)
		if err == nil {
			return ds, nil
		}
		if ctx.Err() != nil || attempt >= attempts {
			break
		}
		p.logger.Warn("extract attempt failed, retrying",
			"dataset", e.Name(), "attempt", attempt, "backoff", backoff, "error", err)
		if !sleepWithContext(ctx, backoff) {
			break
		}
		backoff = nextBackoff(backoff, p.retry.MaxBackoff)
	}
	return domain.Dataset{}, fmt.Errorf("after %d attempt(s): %w", attempt, err)
}

func (p *Pipeline) loadAll(ctx context.Context, s *Summary) {
	for _, ds := range s.Datasets {
		for _, l := range p.loaders {
			if ctx.Err() != nil {
				return
			}
			if err := l.Load(ctx, ds); err != nil {
				p.metrics.LoadErrors.WithLabelValues(l.Name()).Inc()
				p.logger.Error("load failed", "loader", l.Name(), "dataset", ds.Kind, "error", err)
				s.Errors = append(s.Errors, &StageError{Stage: "load", Name: l.Name(), Err: err})
				continue
			}
			p.logger.Debug("dataset loaded", "loader", l.Name(), "dataset", ds.Kind, "records", ds.Len())
		}
	}
}

func (p *Pipeline) renderAll(ctx context.Context, s *Summary) {
	for _, r := range p.renderers {
		if ctx.Err() != nil {
			return
		}
		start := time.Now()
		art, err := r.Render(ctx)
		elapsed := time.Since(start)
		switch {
		case errors.Is(err, dataset.ErrNoInput):
			p.logger.Warn("render skipped, input missing", "artifact", r.Name(), "error", err)
			s.Skipped = append(s.Skipped, r.Name())
		case err != nil:
			p.metrics.RenderErrors.WithLabelValues(r.Name()).Inc()
			p.logger.Error("render failed", "artifact", r.Name(), "error", err)
			s.Errors = append(s.Errors, &StageError{Stage: "render", Name: r.Name(), Err: err})
		default:
			p.metrics.RenderDuration.WithLabelValues(r.Name()).Observe(elapsed.Seconds())
			p.metrics.ArtifactsRendered.WithLabelValues(r.Name()).Inc()
			p.metrics.FramesRendered.WithLabelValues(r.Name()).Add(float64(art.Frames))
			p.logger.Info("artifact rendered",
				"artifact", r.Name(), "path", art.Path, "frames", art.Frames, "duration", elapsed)
			s.Artifacts = append(s.Artifacts, art)
		}
	}
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
