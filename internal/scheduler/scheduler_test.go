package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/hk-data-viz/internal/pipeline"
)

type countingRunner struct {
	calls       atomic.Int32
	active      atomic.Int32
	maxActive   atomic.Int32
	sawDeadline atomic.Bool
	hold        time.Duration
}

func (r *countingRunner) RunOnce(ctx context.Context) pipeline.Summary {
	r.calls.Add(1)
	n := r.active.Add(1)
	defer r.active.Add(-1)
	for {
		m := r.maxActive.Load()
		if n <= m || r.maxActive.CompareAndSwap(m, n) {
			break
		}
	}
	if _, ok := ctx.Deadline(); ok {
		r.sawDeadline.Store(true)
	}
	select {
	case <-time.After(r.hold):
	case <-ctx.Done():
	}
	return pipeline.Summary{}
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestScheduler_RunsImmediately(t *testing.T) {
	r := &countingRunner{}
	s := New(r, time.Hour, discard())
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(s.Stop)

	require.Eventually(t, func() bool { return r.calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.True(t, r.sawDeadline.Load(), "each run is bounded by the interval")
}

func TestScheduler_RepeatsWithoutOverlap(t *testing.T) {
	r := &countingRunner{hold: 30 * time.Millisecond}
	s := New(r, 10*time.Millisecond, discard())
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(s.Stop)

	require.Eventually(t, func() bool { return r.calls.Load() >= 3 }, 3*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), r.maxActive.Load())
}

func TestScheduler_InvalidInterval(t *testing.T) {
	s := New(&countingRunner{}, 0, discard())
	require.Error(t, s.Start(context.Background()))
}
