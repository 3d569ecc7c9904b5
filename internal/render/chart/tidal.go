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

	"github.com/couchcryptid/hk-data-viz/internal/dataset"
	"github.com/couchcryptid/hk-data-viz/internal/domain"
)

const (
	tidalBarLabelLayout = "2006-01-02 15:04"
	// The x axis always carries timestamps, synthetic ones included.
	tidalBarXLabel = "Datetime"
)

// TidalBar plots the first Limit rows of whichever tidal-like CSV it finds
// as a bar chart.
type TidalBar struct {
	DataDirs []string
	OutDir   string
	Limit    int
	DPI      int
}

// NewTidalBar returns the 100-row, 200 dpi configuration.
func NewTidalBar(dataDirs []string, outDir string) *TidalBar {
	return &TidalBar{DataDirs: dataDirs, OutDir: outDir, Limit: 100, DPI: 200}
}

func (r *TidalBar) Name() string { return "tidal-bar" }

func (r *TidalBar) Render(ctx context.Context) (domain.Artifact, error) {
	path, err := dataset.FindAnyInput(r.DataDirs, dataset.TidalBarCandidates)
	if err != nil {
		return domain.Artifact{}, err
	}
	table, err := dataset.ReadTable(path, r.Limit)
	if err != nil {
		return domain.Artifact{}, err
	}
	series, err := dataset.DetectSeries(table)
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	const width = 14 * vg.Inch
	p, err := tidalBarPlot(series, filepath.Base(path), width)
	if err != nil {
		return domain.Artifact{}, err
	}

	out := filepath.Join(r.OutDir, "plot_tidal_bar.png")
	err = savePNG(ctx, out, width, 5*vg.Inch, r.DPI, func(dc draw.Canvas) error {
		p.Draw(dc)
		return nil
	})
	if err != nil {
		return domain.Artifact{}, err
	}
	return domain.Artifact{Name: r.Name(), Path: out}, nil
}

func tidalBarPlot(series dataset.Series, source string, width vg.Length) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Tidal Data - First %d Entries (from %s)", len(series.Values), source)
	p.X.Label.Text = tidalBarXLabel
	p.Y.Label.Text = series.ValueColumn

	bars, err := plotter.NewBarChart(plotter.Values(series.Values), barWidth(width, len(series.Values)))
	if err != nil {
		return nil, fmt.Errorf("tidal bars: %w", err)
	}
	bars.Color = domain.Named("blue")
	bars.LineStyle.Width = 0
	p.Add(bars)

	labels := make([]string, len(series.Times))
	for i, t := range series.Times {
		labels[i] = t.Format(tidalBarLabelLayout)
	}
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 2
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.X.Tick.Label.Font.Size = vg.Points(7)
	return p, nil
}

// barWidth leaves a fifth of each slot empty across roughly 85% of the
// figure width.
func barWidth(figure vg.Length, n int) vg.Length {
	if n <= 0 {
		return figure
	}
	return figure * 0.85 * 0.8 / vg.Length(n)
}
