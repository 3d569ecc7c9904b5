package anim

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/couchcryptid/hk-data-viz/internal/analysis"
	"github.com/couchcryptid/hk-data-viz/internal/dataset"
	"github.com/couchcryptid/hk-data-viz/internal/domain"
	"github.com/couchcryptid/hk-data-viz/internal/particle"
)

// Preset fixes the frame rate and canvas size of the unemployment
// animation.
type Preset struct {
	Name   string
	FPS    float64
	Width  int
	Height int
}

var (
	PresetPreview = Preset{Name: "preview", FPS: 10, Width: 800, Height: 500}
	PresetHigh    = Preset{Name: "high", FPS: 15, Width: 1280, Height: 800}
)

// PresetByName resolves "preview" or "high".
func PresetByName(name string) (Preset, error) {
	switch name {
	case PresetPreview.Name, "":
		return PresetPreview, nil
	case PresetHigh.Name:
		return PresetHigh, nil
	}
	return Preset{}, fmt.Errorf("unknown animation preset %q", name)
}

// Data-space window of the plot.
const (
	curveXMin, curveXMax = -5.0, 135.0
	curveYMin, curveYMax = 3.0, 4.5
	explodeEvery         = 5
)

// UnemploymentExplosion animates the unemployment curve being drawn month
// by month with particle bursts at the leading point.
type UnemploymentExplosion struct {
	DataDirs []string
	OutDir   string
	Preset   Preset
	// Frames overrides the default of two frames per month plus fifty.
	Frames int
	Seed   int64
}

// NewUnemploymentExplosion returns a renderer using preset.
func NewUnemploymentExplosion(dataDirs []string, outDir string, preset Preset) *UnemploymentExplosion {
	return &UnemploymentExplosion{DataDirs: dataDirs, OutDir: outDir, Preset: preset, Seed: 42}
}

func (r *UnemploymentExplosion) Name() string { return "unemployment-explosion" }

type curveFrame struct {
	dc    *gg.Context
	view  viewport
	k     float64 // marker scale relative to a 1600px-wide figure
	faces map[string]font.Face
}

func (r *UnemploymentExplosion) Render(ctx context.Context) (domain.Artifact, error) {
	path, err := dataset.FindInput(r.DataDirs, dataset.LaborCandidates)
	if err != nil {
		return domain.Artifact{}, err
	}
	rows, err := dataset.ReadLabor(path)
	if err != nil {
		return domain.Artifact{}, err
	}
	if len(rows) == 0 {
		return domain.Artifact{}, fmt.Errorf("%s: %w", path, analysis.ErrNoData)
	}

	w, h := r.Preset.Width, r.Preset.Height
	k := float64(w) / 1600
	faces := make(map[string]font.Face)
	for name, spec := range map[string]struct {
		pt   float64
		bold bool
	}{
		"title": {16, true}, "label": {14, false}, "tick": {12, false},
		"box": {10, false}, "note": {12, true},
	} {
		f, err := face(math.Max(spec.pt*k*1.6, 6), spec.bold)
		if err != nil {
			return domain.Artifact{}, err
		}
		faces[name] = f
	}

	view := viewport{
		x0: curveXMin, x1: curveXMax, y0: curveYMin, y1: curveYMax,
		left: 0.08 * float64(w), top: 0.15 * float64(h),
		width: 0.89 * float64(w), height: 0.74 * float64(h),
	}

	frames := r.Frames
	if frames <= 0 {
		frames = 2*len(rows) + 50
	}
	rates := domain.UnemploymentSeries(rows)
	sys := particle.NewSystem(r.Seed)
	enc := NewEncoder(DelayForFPS(r.Preset.FPS))

	err = frameLoop(ctx, frames, func(f int) error {
		cf := curveFrame{dc: gg.NewContext(w, h), view: view, k: k, faces: faces}
		current := min(f/2, len(rows)-1)
		particles := sys.Len()

		cf.background(rows)
		cf.title(rows[current], particles)

		cf.clipPlot()
		if current >= 1 {
			cf.curve(rates[:current+1])
			x, y := float64(current), rates[current]
			if f%explodeEvery == 0 {
				sys.Spawn(x, y, y, f)
			}
			cf.pulse(x, y, f)
		}
		cf.sprites(sys.Step())
		cf.dc.ResetClip()

		if current >= 1 {
			cf.annotate(float64(current), rates[current], rows[current])
			cf.stats(rates[:current+1])
		}
		cf.legend()

		enc.Add(cf.dc.Image())
		return nil
	})
	if err != nil {
		return domain.Artifact{}, err
	}

	out := filepath.Join(r.OutDir, "hk_unemployment_dynamic_curve.gif")
	if err := enc.Save(out); err != nil {
		return domain.Artifact{}, fmt.Errorf("save %s: %w", out, err)
	}
	return domain.Artifact{Name: r.Name(), Path: out, Frames: enc.Len()}, nil
}

func (c curveFrame) pt(v float64) float64 { return v * pointPx * c.k * 2 }

func (c curveFrame) background(rows []domain.LaborRecord) {
	dc, v := c.dc, c.view
	dc.SetRGB(0, 0, 0)
	dc.Clear()

	gray := domain.Named("gray")
	dc.SetLineWidth(c.pt(0.5))
	for x := 0.0; x < 130; x += 20 {
		x0, y0 := v.px(x, curveYMin)
		x1, y1 := v.px(x, curveYMax)
		setColor(dc, gray, 0.2)
		dc.DrawLine(x0, y0, x1, y1)
		dc.Stroke()
	}
	for i := range 8 {
		y := curveYMin + 0.2*float64(i)
		x0, y0 := v.px(curveXMin, y)
		x1, y1 := v.px(curveXMax, y)
		setColor(dc, gray, 0.2)
		dc.DrawLine(x0, y0, x1, y1)
		dc.Stroke()
	}

	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(c.pt(2))
	dc.DrawRectangle(v.left, v.top, v.width, v.height)
	dc.Stroke()

	dc.SetFontFace(c.faces["tick"])
	for i := 0; i < len(rows); i += 12 {
		x, y := v.px(float64(i), curveYMin)
		dc.DrawStringAnchored(rows[i].Month.Format("2006"), x, y+c.pt(6), 0.5, 1)
	}
	for i := range 8 {
		val := curveYMin + 0.2*float64(i)
		x, y := v.px(curveXMin, val)
		dc.DrawStringAnchored(fmt.Sprintf("%.1f", val), x-c.pt(6), y, 1, 0.5)
	}

	dc.SetFontFace(c.faces["label"])
	bottom := v.top + v.height
	dc.DrawStringAnchored("Time progress", v.left+v.width/2, bottom+c.pt(28), 0.5, 1)
	dc.Push()
	dc.RotateAbout(-math.Pi/2, v.left-c.pt(40), v.top+v.height/2)
	dc.DrawStringAnchored("Unemployment rate (%)", v.left-c.pt(40), v.top+v.height/2, 0.5, 0.5)
	dc.Pop()
}

func (c curveFrame) title(rec domain.LaborRecord, particles int) {
	dc := c.dc
	dc.SetRGB(1, 1, 1)
	dc.SetFontFace(c.faces["title"])
	mid := float64(dc.Width()) / 2
	line := dc.FontHeight() * 1.3
	y := c.view.top - c.pt(20) - line
	dc.DrawStringAnchored("Hong Kong Unemployment Particle Explosion - "+rec.Month.Format(domain.MonthLayout),
		mid, y, 0.5, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("Current rate: %.1f%% | Particles: %d", rec.UnemploymentRate, particles),
		mid, y+line, 0.5, 0.5)
}

func (c curveFrame) clipPlot() {
	v := c.view
	c.dc.DrawRectangle(v.left, v.top, v.width, v.height)
	c.dc.Clip()
}

func (c curveFrame) curve(rates []float64) {
	dc, v := c.dc, c.view
	for i, r := range rates {
		x, y := v.px(float64(i), r)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	setColor(dc, domain.Named("cyan"), 0.8)
	dc.SetLineWidth(c.pt(3))
	dc.Stroke()

	rad := markerRadius(30) * c.k * 2
	dc.SetLineWidth(c.pt(1))
	for i, r := range rates {
		x, y := v.px(float64(i), r)
		dc.DrawCircle(x, y, rad)
		dc.SetRGB(1, 1, 1)
		dc.FillPreserve()
		dc.SetColor(domain.Named("cyan"))
		dc.Stroke()
	}
}

func (c curveFrame) pulse(x, y float64, f int) {
	wave := math.Sin(0.3 * float64(f))
	px, py := c.view.px(x, y)
	setColor(c.dc, domain.Named("red"), 0.4+0.3*wave)
	c.dc.DrawCircle(px, py, markerRadius(150+50*wave)*c.k*2)
	c.dc.Fill()
}

func (c curveFrame) sprites(sprites []particle.Sprite) {
	dc := c.dc
	for _, s := range sprites {
		x, y := c.view.px(s.X, s.Y)
		dc.DrawCircle(x, y, markerRadius(s.Size)*c.k*2)
		setColor(dc, s.Color, s.Alpha)
		if s.Glow {
			dc.Fill()
			continue
		}
		dc.FillPreserve()
		setColor(dc, domain.Named("white"), s.Alpha)
		dc.SetLineWidth(c.pt(0.5))
		dc.Stroke()
	}
}

// textBox draws lines inside a rounded box anchored at (x, y). ax selects
// the horizontal anchor: 0 left edge, 1 right edge.
func (c curveFrame) textBox(lines []string, x, y, ax float64, fg, bg, edge color.Color, face font.Face) {
	dc := c.dc
	dc.SetFontFace(face)
	var wMax float64
	for _, l := range lines {
		lw, _ := dc.MeasureString(l)
		wMax = math.Max(wMax, lw)
	}
	pad := c.pt(6)
	lineH := dc.FontHeight() * 1.35
	bw, bh := wMax+2*pad, float64(len(lines))*lineH+2*pad
	bx := x - ax*bw

	dc.DrawRoundedRectangle(bx, y, bw, bh, pad)
	dc.SetColor(bg)
	dc.FillPreserve()
	if edge != nil {
		dc.SetColor(edge)
		dc.SetLineWidth(c.pt(1))
		dc.Stroke()
	} else {
		dc.ClearPath()
	}
	dc.SetColor(fg)
	for i, l := range lines {
		dc.DrawStringAnchored(l, bx+pad, y+pad+(float64(i)+0.5)*lineH, 0, 0.5)
	}
}

func (c curveFrame) annotate(x, y float64, rec domain.LaborRecord) {
	px, py := c.view.px(x, y)
	tx, ty := px+c.pt(15), py-c.pt(25)-c.pt(30)

	dc := c.dc
	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(c.pt(2))
	dc.DrawLine(tx, ty+c.pt(30), px, py)
	dc.Stroke()

	c.textBox(
		[]string{fmt.Sprintf("%.1f%%", rec.UnemploymentRate), rec.Month.Format(domain.MonthLayout)},
		tx, ty, 0,
		color.Black, domain.WithAlpha(domain.Named("yellow"), 0.9), nil, c.faces["note"],
	)
}

func (c curveFrame) stats(rates []float64) {
	s := analysis.Describe(rates)
	n := len(rates)
	trend := "▼ down"
	if rates[n-1] > rates[n-2] {
		trend = "▲ up"
	}
	lines := []string{
		"Current stats:",
		fmt.Sprintf("Max: %.1f%%", s.Max),
		fmt.Sprintf("Min: %.1f%%", s.Min),
		fmt.Sprintf("Mean: %.2f%%", s.Mean),
		"Trend: " + trend,
	}
	v := c.view
	yellow := domain.Named("yellow")
	c.textBox(lines, v.left+v.width-c.pt(8), v.top+c.pt(8), 1,
		yellow, domain.WithAlpha(domain.Named("black"), 0.8), yellow, c.faces["box"])
}

var legendLines = strings.Split(strings.TrimSpace(`
Particle explosions:
Higher unemployment, bigger bursts
Red: high unemployment
Orange: moderate unemployment
Yellow: low unemployment
Particles glow as they fade`), "\n")

func (c curveFrame) legend() {
	v := c.view
	cyan := domain.Named("cyan")
	c.textBox(legendLines, v.left+c.pt(8), v.top+c.pt(8), 0,
		cyan, domain.WithAlpha(domain.Named("black"), 0.8), cyan, c.faces["box"])
}
