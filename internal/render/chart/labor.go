package chart

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/couchcryptid/hk-data-viz/internal/analysis"
	"github.com/couchcryptid/hk-data-viz/internal/dataset"
	"github.com/couchcryptid/hk-data-viz/internal/domain"
	"github.com/couchcryptid/hk-data-viz/internal/report"
)

func readLabor(dirs []string) ([]domain.LaborRecord, error) {
	path, err := dataset.FindInput(dirs, dataset.LaborCandidates)
	if err != nil {
		return nil, err
	}
	rows, err := dataset.ReadLabor(path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), analysis.ErrNoData)
	}
	return rows, nil
}

type laborPanel struct {
	title string
	unit  string
	color color.RGBA
	value func(domain.LaborRecord) float64
}

var laborPanels = [4]laborPanel{
	{"Labor force", "Thousands", domain.Named("blue"),
		func(r domain.LaborRecord) float64 { return r.LaborForce }},
	{"Employed persons", "Thousands", domain.Named("green"),
		func(r domain.LaborRecord) float64 { return r.Employed }},
	{"Unemployment rate", "Percent", domain.Named("tabred"),
		func(r domain.LaborRecord) float64 { return r.UnemploymentRate }},
	{"Labor force participation rate", "Percent", domain.Named("taborange"),
		func(r domain.LaborRecord) float64 { return r.ParticipationRate }},
}

// LaborTrends draws the four headline labor series in a 2×2 grid.
type LaborTrends struct {
	DataDirs []string
	OutDir   string
	DPI      int
}

// NewLaborTrends returns the 300 dpi configuration.
func NewLaborTrends(dataDirs []string, outDir string) *LaborTrends {
	return &LaborTrends{DataDirs: dataDirs, OutDir: outDir, DPI: 300}
}

func (r *LaborTrends) Name() string { return "labor-trends" }

func laborPlot(rows []domain.LaborRecord, panel laborPanel) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = panel.title
	p.Y.Label.Text = panel.unit
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006"}

	xys := make(plotter.XYs, len(rows))
	for i, row := range rows {
		xys[i] = plotter.XY{X: float64(row.Month.Unix()), Y: panel.value(row)}
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, fmt.Errorf("%s line: %w", panel.title, err)
	}
	line.Color = panel.color
	line.Width = vg.Points(2)

	grid := plotter.NewGrid()
	grid.Vertical.Color = domain.WithAlpha(domain.Named("gray"), 0.3)
	grid.Horizontal.Color = domain.WithAlpha(domain.Named("gray"), 0.3)
	p.Add(grid, line)
	return p, nil
}

// LaborTitle is the figure title for rows spanning first to last year.
func LaborTitle(rows []domain.LaborRecord) string {
	return fmt.Sprintf("Hong Kong Labor Market Trends (%d-%d)",
		rows[0].Month.Year(), rows[len(rows)-1].Month.Year())
}

func (r *LaborTrends) Render(ctx context.Context) (domain.Artifact, error) {
	rows, err := readLabor(r.DataDirs)
	if err != nil {
		return domain.Artifact{}, err
	}

	plots := [][]*plot.Plot{make([]*plot.Plot, 2), make([]*plot.Plot, 2)}
	for i, panel := range laborPanels {
		p, err := laborPlot(rows, panel)
		if err != nil {
			return domain.Artifact{}, err
		}
		plots[i/2][i%2] = p
	}
	title := LaborTitle(rows)

	out := filepath.Join(r.OutDir, "hk_labor_trends.png")
	err = savePNG(ctx, out, 15*vg.Inch, 10*vg.Inch, r.DPI, func(dc draw.Canvas) error {
		style := plot.New().Title.TextStyle
		style.Font.Size = vg.Points(16)
		style.XAlign = draw.XCenter
		style.YAlign = draw.YCenter
		h := style.Height(title)
		dc.FillText(style, vg.Point{X: (dc.Min.X + dc.Max.X) / 2, Y: dc.Max.Y - h}, title)

		body := draw.Canvas{Canvas: dc.Canvas, Rectangle: vg.Rectangle{
			Min: dc.Min,
			Max: vg.Point{X: dc.Max.X, Y: dc.Max.Y - 2*h},
		}}
		tiles := draw.Tiles{
			Rows: 2, Cols: 2,
			PadX: vg.Millimeter * 10, PadY: vg.Millimeter * 10,
			PadTop: vg.Millimeter * 2, PadBottom: vg.Millimeter * 4,
			PadLeft: vg.Millimeter * 4, PadRight: vg.Millimeter * 6,
		}
		canvases := plot.Align(plots, tiles, body)
		for i := range plots {
			for j := range plots[i] {
				plots[i][j].Draw(canvases[i][j])
			}
		}
		return nil
	})
	if err != nil {
		return domain.Artifact{}, err
	}
	return domain.Artifact{Name: r.Name(), Path: out}, nil
}

// LaborWorkbook analyzes the labor series, logs the findings, and writes
// them as a spreadsheet.
type LaborWorkbook struct {
	DataDirs []string
	OutDir   string
	Logger   *slog.Logger
}

// NewLaborWorkbook returns a workbook renderer logging to logger.
func NewLaborWorkbook(dataDirs []string, outDir string, logger *slog.Logger) *LaborWorkbook {
	return &LaborWorkbook{DataDirs: dataDirs, OutDir: outDir, Logger: logger}
}

func (r *LaborWorkbook) Name() string { return "labor-report" }

func (r *LaborWorkbook) Render(ctx context.Context) (domain.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return domain.Artifact{}, err
	}
	rows, err := readLabor(r.DataDirs)
	if err != nil {
		return domain.Artifact{}, err
	}
	rep, err := analysis.LaborReport(rows)
	if err != nil {
		return domain.Artifact{}, err
	}
	if r.Logger != nil {
		report.LogLaborReport(r.Logger, rep)
	}

	out := filepath.Join(r.OutDir, "hk_labor_report.xlsx")
	if err := report.WriteLaborWorkbook(out, rows, rep); err != nil {
		return domain.Artifact{}, err
	}
	return domain.Artifact{Name: r.Name(), Path: out}, nil
}
