// Package csvsink writes extracted datasets into the data directory as the
// CSV files the renderers read.
package csvsink

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/couchcryptid/hk-data-viz/internal/dataset"
	"github.com/couchcryptid/hk-data-viz/internal/domain"
)

// Sink implements pipeline.Loader over a directory.
type Sink struct {
	dir    string
	logger *slog.Logger
}

// New returns a Sink writing into dir.
func New(dir string, logger *slog.Logger) *Sink {
	return &Sink{dir: dir, logger: logger}
}

func (s *Sink) Name() string { return "csv" }

// Load replaces the CSV files for ds. Labor datasets produce the basic file
// and, when any row carries a breakdown, the enhanced file.
func (s *Sink) Load(ctx context.Context, ds domain.Dataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	written, err := s.write(ds)
	if err != nil {
		return err
	}
	for _, path := range written {
		s.logger.Info("dataset written", "dataset", ds.Kind, "path", path, "records", ds.Len())
	}
	return nil
}

func (s *Sink) write(ds domain.Dataset) ([]string, error) {
	path := func(name string) string { return filepath.Join(s.dir, name) }

	switch ds.Kind {
	case domain.KindWarnings:
		p := path(dataset.WarningsFile)
		return []string{p}, dataset.WriteWarnings(p, ds.Warnings)
	case domain.KindLabor:
		basic := path(dataset.LaborBasicFile)
		if err := dataset.WriteLabor(basic, ds.Labor, false); err != nil {
			return nil, err
		}
		if !hasBreakdown(ds.Labor) {
			return []string{basic}, nil
		}
		enhanced := path(dataset.LaborEnhancedFile)
		return []string{basic, enhanced}, dataset.WriteLabor(enhanced, ds.Labor, true)
	case domain.KindTides:
		p := path(dataset.TidesFile)
		return []string{p}, dataset.WriteTides(p, ds.Tides)
	case domain.KindIndicators:
		p := path(dataset.IndicatorsFile)
		return []string{p}, dataset.WriteIndicators(p, ds.Indicators)
	}
	return nil, fmt.Errorf("csv sink: unknown dataset kind %q", ds.Kind)
}

func hasBreakdown(rows []domain.LaborRecord) bool {
	for _, r := range rows {
		if r.Enhanced != nil {
			return true
		}
	}
	return false
}
