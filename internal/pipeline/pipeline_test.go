package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/hk-data-viz/internal/dataset"
	"github.com/couchcryptid/hk-data-viz/internal/domain"
	"github.com/couchcryptid/hk-data-viz/internal/observability"
	"github.com/couchcryptid/hk-data-viz/internal/pipeline"
)

// --- mocks ---

type mockExtractor struct {
	name     string
	failures int // fail this many calls before succeeding; -1 fails forever
	optional bool
	calls    atomic.Int64
}

func (m *mockExtractor) Name() string   { return m.name }
func (m *mockExtractor) Optional() bool { return m.optional }

func (m *mockExtractor) Extract(_ context.Context) (domain.Dataset, error) {
	n := int(m.calls.Add(1))
	if m.failures < 0 || n <= m.failures {
		return domain.Dataset{}, fmt.Errorf("%s unavailable", m.name)
	}
	return domain.Dataset{
		Kind:  domain.KindTides,
		Tides: []domain.TideReading{{Time: time.Unix(0, 0).UTC(), Height: 1.2}},
	}, nil
}

type mockLoader struct {
	err    error
	mu     sync.Mutex
	loaded []domain.Dataset
}

func (m *mockLoader) Name() string { return "mock-loader" }

func (m *mockLoader) Load(_ context.Context, ds domain.Dataset) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaded = append(m.loaded, ds)
	return nil
}

type mockRenderer struct {
	name    string
	err     error
	block   chan struct{}
	entered chan struct{}
}

func (m *mockRenderer) Name() string { return m.name }

func (m *mockRenderer) Render(ctx context.Context) (domain.Artifact, error) {
	if m.block != nil {
		close(m.entered)
		select {
		case <-m.block:
		case <-ctx.Done():
			return domain.Artifact{}, ctx.Err()
		}
	}
	if m.err != nil {
		return domain.Artifact{}, m.err
	}
	return domain.Artifact{Name: m.name, Path: "/out/" + m.name + ".gif", Frames: 3}, nil
}

var fastRetry = pipeline.WithRetry(pipeline.Retry{Attempts: 3, Initial: time.Millisecond, MaxBackoff: 2 * time.Millisecond})

func newPipeline(e []pipeline.Extractor, l []pipeline.Loader, r []pipeline.Renderer) (*pipeline.Pipeline, *observability.Metrics) {
	metrics := observability.NewMetricsForTesting()
	return pipeline.New(e, l, r, slog.Default(), metrics, fastRetry), metrics
}

// --- tests ---

func TestRunOnce_HappyPath(t *testing.T) {
	ext := &mockExtractor{name: "tides"}
	ldr := &mockLoader{}
	rnd := &mockRenderer{name: "tidal-spiral"}
	p, metrics := newPipeline([]pipeline.Extractor{ext}, []pipeline.Loader{ldr}, []pipeline.Renderer{rnd})

	require.Error(t, p.CheckReadiness(context.Background()))

	s := p.RunOnce(context.Background())
	require.NoError(t, s.Err())
	assert.False(t, s.Failed())
	assert.Len(t, s.Datasets, 1)
	assert.Len(t, ldr.loaded, 1)
	require.Len(t, s.Artifacts, 1)
	assert.Equal(t, "tidal-spiral", s.Artifacts[0].Name)

	require.NoError(t, p.CheckReadiness(context.Background()))
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ExtractTotal.WithLabelValues("tides", "success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RecordsExtracted.WithLabelValues("tides")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ArtifactsRendered.WithLabelValues("tidal-spiral")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(metrics.FramesRendered.WithLabelValues("tidal-spiral")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.PipelineRunning), 0)
	assert.Positive(t, testutil.ToFloat64(metrics.LastSuccess))
}

func TestRunOnce_RetriesExtract(t *testing.T) {
	ext := &mockExtractor{name: "warnings", failures: 2}
	p, _ := newPipeline([]pipeline.Extractor{ext}, nil, nil)

	s := p.RunOnce(context.Background())
	require.NoError(t, s.Err())
	assert.Equal(t, int64(3), ext.calls.Load())
	assert.Len(t, s.Datasets, 1)
}

func TestRunOnce_ExtractExhausted(t *testing.T) {
	ext := &mockExtractor{name: "warnings", failures: -1}
	ldr := &mockLoader{}
	p, metrics := newPipeline([]pipeline.Extractor{ext}, []pipeline.Loader{ldr}, nil)

	s := p.RunOnce(context.Background())
	require.True(t, s.Failed())
	assert.Equal(t, int64(3), ext.calls.Load())
	assert.Empty(t, ldr.loaded)

	var stageErr *pipeline.StageError
	require.ErrorAs(t, s.Err(), &stageErr)
	assert.Equal(t, "extract", stageErr.Stage)
	assert.Equal(t, "warnings", stageErr.Name)
	assert.Contains(t, stageErr.Error(), "after 3 attempt(s)")
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ExtractTotal.WithLabelValues("warnings", "error")), 0)
}

func TestRunOnce_OptionalExtractFailureIsWarning(t *testing.T) {
	ext := &mockExtractor{name: "indicators", failures: -1, optional: true}
	p, _ := newPipeline([]pipeline.Extractor{ext}, nil, nil)

	s := p.RunOnce(context.Background())
	assert.False(t, s.Failed())
	assert.Len(t, s.Warnings, 1)
}

func TestRunOnce_MissingInputIsSkipped(t *testing.T) {
	missing := &mockRenderer{name: "cyclone-rain", err: fmt.Errorf("find: %w", dataset.ErrNoInput)}
	p, metrics := newPipeline(nil, nil, []pipeline.Renderer{missing})

	s := p.RunOnce(context.Background())
	assert.False(t, s.Failed())
	assert.Equal(t, []string{"cyclone-rain"}, s.Skipped)
	assert.False(t, p.Ready())
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.RenderErrors.WithLabelValues("cyclone-rain")), 0)
}

func TestRunOnce_RenderAndLoadErrors(t *testing.T) {
	ext := &mockExtractor{name: "tides"}
	ldr := &mockLoader{err: errors.New("disk full")}
	bad := &mockRenderer{name: "star", err: errors.New("boom")}
	good := &mockRenderer{name: "variants"}
	p, metrics := newPipeline([]pipeline.Extractor{ext}, []pipeline.Loader{ldr}, []pipeline.Renderer{bad, good})

	s := p.RunOnce(context.Background())
	require.True(t, s.Failed())
	assert.Len(t, s.Errors, 2)
	assert.Len(t, s.Artifacts, 1, "one failing renderer does not stop the others")
	assert.True(t, p.Ready())
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.LoadErrors.WithLabelValues("mock-loader")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RenderErrors.WithLabelValues("star")), 0)
}

func TestRunOnce_Cancelled(t *testing.T) {
	ext := &mockExtractor{name: "tides"}
	p, _ := newPipeline([]pipeline.Extractor{ext}, nil, []pipeline.Renderer{&mockRenderer{name: "star"}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := p.RunOnce(ctx)
	require.ErrorIs(t, s.Err(), context.Canceled)
	assert.Zero(t, ext.calls.Load())
	assert.Empty(t, s.Artifacts)
}

func TestRunOnce_RejectsOverlap(t *testing.T) {
	rnd := &mockRenderer{name: "star", block: make(chan struct{}), entered: make(chan struct{})}
	p, _ := newPipeline(nil, nil, []pipeline.Renderer{rnd})

	done := make(chan pipeline.Summary)
	go func() { done <- p.RunOnce(context.Background()) }()
	<-rnd.entered

	second := p.RunOnce(context.Background())
	require.ErrorIs(t, second.Err(), pipeline.ErrRunInProgress)

	close(rnd.block)
	first := <-done
	require.NoError(t, first.Err())
}

func TestRunOnce_UsesClock(t *testing.T) {
	at := time.Date(2024, time.September, 1, 8, 0, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(at))
	t.Cleanup(func() { domain.SetClock(nil) })

	p, _ := newPipeline(nil, nil, nil)
	s := p.RunOnce(context.Background())
	assert.Equal(t, at, s.Started)
	assert.Equal(t, at, s.Finished)
}
