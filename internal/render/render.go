// Package render builds the artifact renderers by name.
package render

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/couchcryptid/hk-data-viz/internal/pipeline"
	"github.com/couchcryptid/hk-data-viz/internal/render/anim"
	"github.com/couchcryptid/hk-data-viz/internal/render/chart"
)

// Options are shared by every renderer.
type Options struct {
	DataDirs []string
	OutDir   string
	Preset   anim.Preset
	Logger   *slog.Logger
}

type factory func(Options) pipeline.Renderer

type entry struct {
	name  string
	newFn factory
}

// catalog is in render order: static charts first, then animations.
var catalog = []entry{
	{"tidal-bar", func(o Options) pipeline.Renderer { return chart.NewTidalBar(o.DataDirs, o.OutDir) }},
	{"cyclone-spiral", func(o Options) pipeline.Renderer { return chart.NewCycloneSpiral(o.DataDirs, o.OutDir) }},
	{"labor-trends", func(o Options) pipeline.Renderer { return chart.NewLaborTrends(o.DataDirs, o.OutDir) }},
	{"labor-report", func(o Options) pipeline.Renderer {
		return chart.NewLaborWorkbook(o.DataDirs, o.OutDir, o.Logger)
	}},
	{"cyclone-rain", func(o Options) pipeline.Renderer { return anim.NewCycloneRain(o.DataDirs, o.OutDir) }},
	{"typhoon-universe", func(o Options) pipeline.Renderer { return anim.NewTyphoonUniverse(o.OutDir) }},
	{"variants", func(o Options) pipeline.Renderer { return anim.NewVariants(o.OutDir) }},
	{"star", func(o Options) pipeline.Renderer { return anim.NewStar(o.OutDir) }},
	{"tidal-spiral", func(o Options) pipeline.Renderer { return anim.NewTidalSpiral(o.DataDirs, o.OutDir) }},
	{"unemployment-explosion", func(o Options) pipeline.Renderer {
		return anim.NewUnemploymentExplosion(o.DataDirs, o.OutDir, o.Preset)
	}},
}

// Names lists every artifact name in render order.
func Names() []string {
	out := make([]string, len(catalog))
	for i, e := range catalog {
		out[i] = e.name
	}
	return out
}

// Build returns renderers for names in catalog order, ignoring duplicates.
// An empty list selects every artifact.
func Build(names []string, opts Options) ([]pipeline.Renderer, error) {
	if opts.Preset.Width == 0 {
		opts.Preset = anim.PresetPreview
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[strings.ToLower(strings.TrimSpace(n))] = true
	}
	for n := range want {
		if !known(n) {
			return nil, fmt.Errorf("unknown artifact %q (valid: %s)", n, strings.Join(Names(), ", "))
		}
	}

	var out []pipeline.Renderer
	for _, e := range catalog {
		if len(want) == 0 || want[e.name] {
			out = append(out, e.newFn(opts))
		}
	}
	return out, nil
}

func known(name string) bool {
	for _, e := range catalog {
		if e.name == name {
			return true
		}
	}
	return false
}
