package anim

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"math/rand/v2"
	"path/filepath"

	"github.com/fogleman/gg"

	"github.com/couchcryptid/hk-data-viz/internal/domain"
)

const (
	universeExtent = 400.0
	starCount      = 800
	spiralLayers   = 6
	spiralPoints   = 800
)

type nebula struct {
	cx, cy, amp, sigma, hue float64
}

var nebulae = []nebula{
	{-150, -50, 0.6, 120, 0.55},
	{120, 80, 0.45, 160, 0.65},
	{40, -120, 0.35, 90, 0.48},
}

// TyphoonUniverse animates a raindrop spiral over a static starfield.
type TyphoonUniverse struct {
	OutDir string
	Size   int
	Frames int
}

// NewTyphoonUniverse returns the 800px, 80-frame configuration.
func NewTyphoonUniverse(outDir string) *TyphoonUniverse {
	return &TyphoonUniverse{OutDir: outDir, Size: 800, Frames: 80}
}

func (r *TyphoonUniverse) Name() string { return "typhoon-universe" }

func (r *TyphoonUniverse) Render(ctx context.Context) (domain.Artifact, error) {
	view := squareViewport(universeExtent, r.Size)
	k := float64(r.Size) / 800
	bg := universeBackground(view, r.Size)

	seeded := func(seed uint64, n int, fn func(float64) float64) []float64 {
		rng := rand.New(rand.NewPCG(seed, seed))
		out := make([]float64, n)
		for i := range out {
			out[i] = fn(rng.Float64())
		}
		return out
	}
	theta := domain.Linspace(0, 4*math.Pi, raindropCount)
	rBase := domain.Linspace(20, 350, raindropCount)
	phase := seeded(1, raindropCount, func(u float64) float64 { return 2 * math.Pi * u })
	speed := seeded(2, raindropCount, func(u float64) float64 { return 0.5 + 2*u })
	sizes := seeded(3, raindropCount, func(u float64) float64 { return 2 + 6*u })
	tvals := domain.Linspace(0, 1, raindropCount)

	enc := NewEncoder(4)
	err := frameLoop(ctx, r.Frames, func(f int) error {
		ff := float64(f)
		dc := gg.NewContextForRGBA(cloneRGBA(bg))

		for i := range raindropCount {
			th := theta[i] + ff*0.12*speed[i]
			rad := rBase[i] + 30*math.Sin(0.5*th+phase[i]) + ff
			x, y := view.px(rad*math.Cos(th), rad*math.Sin(th))
			wave := math.Sin(0.1*ff + phase[i])
			area := math.Pow(sizes[i]*math.Abs(0.6+0.8*wave), 1.6)
			setColor(dc, domain.BlueWhite(tvals[i]), domain.Clamp(0.6+0.4*wave, 0, 1))
			dc.DrawCircle(x, y, k*markerRadius(area))
			dc.Fill()
		}

		for layer := range spiralLayers {
			l := float64(layer)
			th2 := domain.Linspace(0, 2*math.Pi*(2+0.8*l), spiralPoints)
			spin := ff * 0.03 * (l + 1)
			for j, t := range th2 {
				rad := 20 + 50*l*math.Exp(0.15*t)*0.002
				x, y := view.px(rad*math.Cos(t+spin), rad*math.Sin(t+spin))
				if j == 0 {
					dc.MoveTo(x, y)
				} else {
					dc.LineTo(x, y)
				}
			}
			setColor(dc, domain.BlueWhite(0.2+0.12*l), 0.25+0.05*l)
			dc.SetLineWidth(k * (8 - l) * pointPx)
			dc.Stroke()
		}

		enc.Add(dc.Image())
		return nil
	})
	if err != nil {
		return domain.Artifact{}, err
	}

	out := filepath.Join(r.OutDir, "typhoon_animation.gif")
	if err := enc.Save(out); err != nil {
		return domain.Artifact{}, fmt.Errorf("save %s: %w", out, err)
	}
	return domain.Artifact{Name: r.Name(), Path: out, Frames: enc.Len()}, nil
}

// universeBackground paints the radial gradient, nebula blobs, bright core
// and starfield shared by every frame.
func universeBackground(view viewport, size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	span := 2 * universeExtent
	for py := range size {
		y := universeExtent - (float64(py)+0.5)/float64(size)*span
		for px := range size {
			x := -universeExtent + (float64(px)+0.5)/float64(size)*span
			r := math.Hypot(x/span, y/span)
			base := 0.08 + 0.6*math.Exp(-3*r)
			var neb float64
			for _, n := range nebulae {
				d2 := (x-n.cx)*(x-n.cx) + (y-n.cy)*(y-n.cy)
				neb += n.amp * math.Exp(-d2/(2*n.sigma*n.sigma)) * (0.5 + 0.5*n.hue)
			}
			core := 0.15 * math.Exp(-6*r)
			img.SetRGBA(px, py, color.RGBA{
				R: unit8(base*0.02 + neb*0.05 + core),
				G: unit8(base*0.12 + neb*0.12 + core),
				B: unit8(base*0.25 + neb*0.35 + core),
				A: 0xff,
			})
		}
	}

	dc := gg.NewContextForRGBA(img)
	rng := rand.New(rand.NewPCG(0, 0))
	k := float64(size) / 800
	white := domain.Named("white")
	for range starCount {
		sx := -380 + 760*rng.Float64()
		sy := -380 + 760*rng.Float64()
		area := 0.3 + 2.2*rng.Float64()
		alpha := 0.3 + 0.7*rng.Float64()
		x, y := view.px(sx, sy)
		setColor(dc, white, alpha)
		dc.DrawCircle(x, y, math.Max(0.5, k*markerRadius(area)))
		dc.Fill()
	}
	return img
}

func unit8(v float64) uint8 {
	return uint8(math.Round(domain.Clamp(v, 0, 1) * 255))
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	return dst
}
