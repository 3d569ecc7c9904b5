// Command hkviz scrapes and fabricates the Hong Kong datasets, writes them
// to the data directory, and renders the charts and animations. By default
// it refreshes on REFRESH_INTERVAL and serves health, metrics, and the
// artifacts over HTTP; -once performs a single run and exits.
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/hk-data-viz/internal/adapter/censtatd"
	"github.com/couchcryptid/hk-data-viz/internal/adapter/csvsink"
	"github.com/couchcryptid/hk-data-viz/internal/adapter/fetch"
	"github.com/couchcryptid/hk-data-viz/internal/adapter/hko"
	httpadapter "github.com/couchcryptid/hk-data-viz/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/hk-data-viz/internal/adapter/kafka"
	"github.com/couchcryptid/hk-data-viz/internal/adapter/sqlite"
	"github.com/couchcryptid/hk-data-viz/internal/config"
	"github.com/couchcryptid/hk-data-viz/internal/observability"
	"github.com/couchcryptid/hk-data-viz/internal/pipeline"
	"github.com/couchcryptid/hk-data-viz/internal/render"
	"github.com/couchcryptid/hk-data-viz/internal/render/anim"
	"github.com/couchcryptid/hk-data-viz/internal/scheduler"
	"github.com/couchcryptid/hk-data-viz/internal/synth"
)

func main() {
	once := flag.Bool("once", false, "run the pipeline once and exit; non-zero exit on failures")
	flag.Parse()
	os.Exit(run(*once))
}

func run(once bool) int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := wire(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to wire pipeline", "error", err)
		return 1
	}
	defer st.close(logger)

	p := pipeline.New(st.extractors, st.loaders, st.renderers, logger, metrics)

	if once {
		summary := p.RunOnce(ctx)
		if summary.Failed() {
			logger.Error("run failed", "error", summary.Err())
			return 1
		}
		return 0
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, cfg.OutputDir, p, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	sched := scheduler.New(p, cfg.RefreshInterval, logger)
	if err := sched.Start(ctx); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		return 1
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	sched.Stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
	return 0
}

type stages struct {
	extractors []pipeline.Extractor
	loaders    []pipeline.Loader
	renderers  []pipeline.Renderer
	closers    map[string]io.Closer
}

func wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*stages, error) {
	s := &stages{closers: map[string]io.Closer{}}

	backoff := fetch.DefaultBackoff(cfg.ScrapeMaxRetries)
	s.extractors = []pipeline.Extractor{
		hko.NewClient(fetch.NewClient("hko", cfg.ScrapeTimeout, backoff), cfg.HKOURL),
		censtatd.NewClient(fetch.NewClient("censtatd", cfg.ScrapeTimeout, backoff), cfg.CenstatdURL),
		synth.NewLaborGenerator(cfg.LaborSeed),
		synth.NewTideGenerator(cfg.TideSeed),
	}

	s.loaders = []pipeline.Loader{csvsink.New(cfg.DataDir, logger)}
	if cfg.KafkaEnabled {
		w := kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		s.loaders = append(s.loaders, w)
		s.closers["kafka writer"] = w
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}
	if cfg.ArchivePath != "" {
		a, err := sqlite.Open(ctx, cfg.ArchivePath, logger)
		if err != nil {
			s.close(logger)
			return nil, err
		}
		s.loaders = append(s.loaders, a)
		s.closers["sqlite archive"] = a
		logger.Info("sqlite archive enabled", "path", cfg.ArchivePath)
	}

	preset, err := anim.PresetByName(cfg.AnimationPreset)
	if err != nil {
		s.close(logger)
		return nil, err
	}
	s.renderers, err = render.Build(cfg.Artifacts, render.Options{
		DataDirs: []string{cfg.DataDir},
		OutDir:   cfg.OutputDir,
		Preset:   preset,
		Logger:   logger,
	})
	if err != nil {
		s.close(logger)
		return nil, err
	}
	return s, nil
}

func (s *stages) close(logger *slog.Logger) {
	for name, c := range s.closers {
		if err := c.Close(); err != nil {
			logger.Error(name+" close error", "error", err)
		}
	}
	clear(s.closers)
}
