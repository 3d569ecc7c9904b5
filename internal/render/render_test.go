package render

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/hk-data-viz/internal/dataset"
	"github.com/couchcryptid/hk-data-viz/internal/observability"
	"github.com/couchcryptid/hk-data-viz/internal/pipeline"
	"github.com/couchcryptid/hk-data-viz/internal/render/anim"
	"github.com/couchcryptid/hk-data-viz/internal/synth"
)

func names(t *testing.T, sel []string) []string {
	t.Helper()
	rs, err := Build(sel, Options{OutDir: t.TempDir()})
	require.NoError(t, err)
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Name()
	}
	return out
}

func TestBuild_AllInOrder(t *testing.T) {
	assert.Equal(t, Names(), names(t, nil))
	assert.Len(t, Names(), 10)
}

func TestBuild_SubsetKeepsCatalogOrder(t *testing.T) {
	assert.Equal(t, []string{"tidal-bar", "star"}, names(t, []string{"star", " Tidal-Bar", "star"}))
}

func TestBuild_Unknown(t *testing.T) {
	_, err := Build([]string{"star", "sparkles"}, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"sparkles"`)
	assert.Contains(t, err.Error(), "unemployment-explosion")
}

func TestBuild_PresetDefaultsToPreview(t *testing.T) {
	rs, err := Build([]string{"unemployment-explosion"}, Options{})
	require.NoError(t, err)
	require.Len(t, rs, 1)
	r, ok := rs[0].(*anim.UnemploymentExplosion)
	require.True(t, ok)
	assert.Equal(t, anim.PresetPreview, r.Preset)
}

func TestRunOnce_MissingWarningsAndTidesAreSkipped(t *testing.T) {
	data := t.TempDir()
	rows, err := synth.NewLaborGenerator(42).Basic()
	require.NoError(t, err)
	require.NoError(t, dataset.WriteLabor(filepath.Join(data, dataset.LaborBasicFile), rows, false))

	sel := []string{"cyclone-spiral", "cyclone-rain", "tidal-spiral"}
	rs, err := Build(sel, Options{DataDirs: []string{data}, OutDir: t.TempDir()})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := pipeline.New(nil, nil, rs, logger, observability.NewMetricsForTesting())
	summary := p.RunOnce(context.Background())

	assert.False(t, summary.Failed(), "errors: %v", summary.Err())
	assert.Equal(t, sel, summary.Skipped)
	assert.Empty(t, summary.Artifacts)
}
