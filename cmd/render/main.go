// Command render draws the charts and animations from CSVs already on disk.
// It never touches the network.
//
// Usage:
//
//	go run ./cmd/render -data-dir data -out-dir output -only star,labor-trends -preset high
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/couchcryptid/hk-data-viz/internal/config"
	"github.com/couchcryptid/hk-data-viz/internal/observability"
	"github.com/couchcryptid/hk-data-viz/internal/pipeline"
	"github.com/couchcryptid/hk-data-viz/internal/render"
	"github.com/couchcryptid/hk-data-viz/internal/render/anim"
)

func main() {
	dataDir := flag.String("data-dir", "data", "directory holding the input CSVs")
	outDir := flag.String("out-dir", "output", "directory the artifacts are written to")
	only := flag.String("only", "", "comma-separated artifacts to render (default all: "+strings.Join(render.Names(), ",")+")")
	preset := flag.String("preset", config.PresetPreview, "animation preset: preview or high")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	os.Exit(run(*dataDir, *outDir, *only, *preset, *logLevel))
}

func run(dataDir, outDir, only, presetName, logLevel string) int {
	logger := observability.NewLogger(&config.Config{LogLevel: logLevel, LogFormat: "text"})

	preset, err := anim.PresetByName(presetName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	var names []string
	if only != "" {
		names = strings.Split(only, ",")
	}
	renderers, err := render.Build(names, render.Options{
		DataDirs: []string{dataDir, "."},
		OutDir:   outDir,
		Preset:   preset,
		Logger:   logger,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := pipeline.New(nil, nil, renderers, logger, observability.NewMetrics())
	summary := p.RunOnce(ctx)

	for _, a := range summary.Artifacts {
		files := a.Files
		if len(files) == 0 {
			files = []string{a.Path}
		}
		for _, f := range files {
			fmt.Printf("  %-24s %s\n", a.Name, f)
		}
	}
	for _, name := range summary.Skipped {
		fmt.Printf("  %-24s skipped (no input)\n", name)
	}
	if summary.Failed() {
		fmt.Fprintf(os.Stderr, "render failed: %v\n", summary.Err())
		return 1
	}
	return 0
}
