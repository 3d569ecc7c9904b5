package anim

import (
	"context"
	"fmt"
	"math"
	"path/filepath"

	"github.com/fogleman/gg"

	"github.com/couchcryptid/hk-data-viz/internal/domain"
)

// variantFrame draws frame f of one variant onto a white canvas whose data
// space is [-1,1] squared.
type variantFrame func(dc *gg.Context, v viewport, f int)

var variantFrames = []variantFrame{
	pulsingCircle,
	rotatingSquare,
	expandingRings,
	spinningPetals,
	orbitingDots,
	bouncingShapes,
}

// Variants renders the six small looping geometry GIFs.
type Variants struct {
	OutDir string
	Size   int
	Frames int
}

// NewVariants returns the 400px, 120-frame configuration.
func NewVariants(outDir string) *Variants {
	return &Variants{OutDir: outDir, Size: 400, Frames: 120}
}

func (r *Variants) Name() string { return "variants" }

func (r *Variants) Render(ctx context.Context) (domain.Artifact, error) {
	view := squareViewport(1, r.Size)
	art := domain.Artifact{Name: r.Name()}
	for i, draw := range variantFrames {
		enc := NewEncoder(4)
		err := frameLoop(ctx, r.Frames, func(f int) error {
			dc := gg.NewContext(r.Size, r.Size)
			dc.SetRGB(1, 1, 1)
			dc.Clear()
			draw(dc, view, f)
			enc.Add(dc.Image())
			return nil
		})
		if err != nil {
			return domain.Artifact{}, err
		}
		out := filepath.Join(r.OutDir, fmt.Sprintf("variant%d.gif", i+1))
		if err := enc.Save(out); err != nil {
			return domain.Artifact{}, fmt.Errorf("save %s: %w", out, err)
		}
		art.Files = append(art.Files, out)
		art.Frames += enc.Len()
	}
	art.Path = art.Files[0]
	return art, nil
}

// polygon traces pts, given in data space, rotated by deg degrees
// counter-clockwise about the origin and shifted by (dx, dy).
func polygon(dc *gg.Context, v viewport, pts [][2]float64, deg, dx, dy float64) {
	sin, cos := math.Sincos(gg.Radians(deg))
	for i, p := range pts {
		x := p[0]*cos - p[1]*sin + dx
		y := p[0]*sin + p[1]*cos + dy
		px, py := v.px(x, y)
		if i == 0 {
			dc.MoveTo(px, py)
		} else {
			dc.LineTo(px, py)
		}
	}
	dc.ClosePath()
}

func pulsingCircle(dc *gg.Context, v viewport, f int) {
	r := 0.05 + 0.95*0.5*(1+math.Sin(2*math.Pi*float64(f)/60))
	dc.SetColor(domain.Blues(float64(f%60) / 60))
	cx, cy := v.px(0, 0)
	dc.DrawCircle(cx, cy, r*v.scale())
	dc.Fill()
}

var unitSquare = [][2]float64{{-0.5, -0.5}, {-0.5, 0.5}, {0.5, 0.5}, {0.5, -0.5}}

func rotatingSquare(dc *gg.Context, v viewport, f int) {
	polygon(dc, v, unitSquare, 3*float64(f), 0, 0)
	dc.SetColor(domain.Named("teal"))
	dc.SetLineWidth(pointPx * v.width / 400)
	dc.Stroke()
}

func expandingRings(dc *gg.Context, v viewport, f int) {
	cx, cy := v.px(0, 0)
	phase := float64(f) / 10
	dc.SetLineWidth(2 * pointPx * v.width / 400)
	for i := range 6 {
		cycle := math.Mod(phase+float64(i), 3)
		setColor(dc, domain.Named("royalblue"), 0.2+0.8*cycle/3)
		dc.DrawCircle(cx, cy, (cycle*0.33+0.05)*v.scale())
		dc.Stroke()
	}
}

var petal = [][2]float64{{0, 0}, {0.1, 0.2}, {0.2, 0.05}}

func spinningPetals(dc *gg.Context, v viewport, f int) {
	for i := range 8 {
		polygon(dc, v, petal, 2*float64(f)+45*float64(i), 0, 0)
		setColor(dc, domain.Blues(float64(i)/8), 0.8)
		dc.Fill()
	}
}

func orbitingDots(dc *gg.Context, v viewport, f int) {
	const n = 40
	ff := float64(f)
	r := markerRadius(20) * v.width / 400
	for i, a := range domain.Linspace(0, 2*math.Pi, n) {
		a += 0.1 * ff
		dist := 0.2 + 0.6*math.Abs(math.Sin(3*a+0.05*ff))
		x, y := v.px(dist*math.Cos(a), dist*math.Sin(a))
		dc.SetColor(domain.Blues(float64(i) / n))
		dc.DrawCircle(x, y, r)
		dc.Fill()
	}
}

var smallSquare = [][2]float64{{-0.1, -0.1}, {-0.1, 0.1}, {0.1, 0.1}, {0.1, -0.1}}

func bouncingShapes(dc *gg.Context, v viewport, f int) {
	ff := float64(f)
	polygon(dc, v, smallSquare, 0, 0.6*math.Sin(0.05*ff), 0)
	dc.SetColor(domain.Named("navy"))
	dc.Fill()

	cx, cy := v.px(0, 0.5*math.Abs(math.Sin(0.08*ff)))
	dc.SetColor(domain.Named("lightblue"))
	dc.DrawCircle(cx, cy, 0.08*v.scale())
	dc.Fill()
}
