package chart

import (
	"context"
	"fmt"
	"math"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/couchcryptid/hk-data-viz/internal/analysis"
	"github.com/couchcryptid/hk-data-viz/internal/dataset"
	"github.com/couchcryptid/hk-data-viz/internal/domain"
)

const (
	spiralTurns     = 6
	spiralPerTurn   = 500
	spiralGrowth    = 0.2
	spiralBase      = 0.5
	spiralEyeRadius = 0.4
)

// CycloneSpiral draws a logarithmic spiral with one segment per warnings
// year, colored and weighted by that year's normalized signal hours.
type CycloneSpiral struct {
	DataDirs []string
	OutDir   string
	DPI      int
}

// NewCycloneSpiral returns the 300 dpi configuration.
func NewCycloneSpiral(dataDirs []string, outDir string) *CycloneSpiral {
	return &CycloneSpiral{DataDirs: dataDirs, OutDir: outDir, DPI: 300}
}

func (r *CycloneSpiral) Name() string { return "cyclone-spiral" }

// spiralSegments splits n points into k contiguous index ranges of
// n/k points each, the last one running to the end. Each range also takes
// the first point of the next so the segments join.
func spiralSegments(n, k int) [][2]int {
	if n == 0 || k == 0 {
		return nil
	}
	per := max(n/k, 1)
	var out [][2]int
	for i := range k {
		start := i * per
		if start >= n {
			break
		}
		end := min(start+per+1, n)
		if i == k-1 {
			end = n
		}
		out = append(out, [2]int{start, end})
	}
	return out
}

func spiralPoint(theta float64) plotter.XY {
	rad := spiralBase * math.Exp(spiralGrowth*theta)
	return plotter.XY{X: rad * math.Cos(theta), Y: rad * math.Sin(theta)}
}

func (r *CycloneSpiral) Render(ctx context.Context) (domain.Artifact, error) {
	path, err := dataset.FindInput(r.DataDirs, []string{dataset.WarningsFile})
	if err != nil {
		return domain.Artifact{}, err
	}
	rows, err := dataset.ReadWarnings(path)
	if err != nil {
		return domain.Artifact{}, err
	}
	if len(rows) == 0 {
		return domain.Artifact{}, fmt.Errorf("%s: %w", filepath.Base(path), analysis.ErrNoData)
	}
	norm := domain.Normalize(domain.TotalHoursSeries(rows))
	thetas := domain.Linspace(0, 2*math.Pi*spiralTurns, spiralTurns*spiralPerTurn)

	p := plot.New()
	p.HideAxes()
	p.BackgroundColor = domain.Named("white")

	for i, seg := range spiralSegments(len(thetas), len(norm)) {
		xys := make(plotter.XYs, 0, seg[1]-seg[0])
		for _, th := range thetas[seg[0]:seg[1]] {
			xys = append(xys, spiralPoint(th))
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return domain.Artifact{}, fmt.Errorf("spiral segment %d: %w", i, err)
		}
		line.Color = domain.WithAlpha(domain.BlueWhite(norm[i]), 0.9)
		line.Width = vg.Points(1 + 4*norm[i])
		p.Add(line)
	}

	eye := make(plotter.XYs, 64)
	for i := range eye {
		a := 2 * math.Pi * float64(i) / float64(len(eye))
		eye[i] = plotter.XY{X: spiralEyeRadius * math.Cos(a), Y: spiralEyeRadius * math.Sin(a)}
	}
	poly, err := plotter.NewPolygon(eye)
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("spiral eye: %w", err)
	}
	poly.Color = domain.Named("white")
	poly.LineStyle.Width = 0
	p.Add(poly)

	extent := 1.05 * spiralBase * math.Exp(spiralGrowth*thetas[len(thetas)-1])
	p.X.Min, p.X.Max = -extent, extent
	p.Y.Min, p.Y.Max = -extent, extent

	out := filepath.Join(r.OutDir, "cyclone_visualization.png")
	err = savePNG(ctx, out, 8*vg.Inch, 8*vg.Inch, r.DPI, func(dc draw.Canvas) error {
		p.Draw(dc)
		return nil
	})
	if err != nil {
		return domain.Artifact{}, err
	}
	return domain.Artifact{Name: r.Name(), Path: out}, nil
}
