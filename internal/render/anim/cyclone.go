package anim

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"math/rand/v2"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/couchcryptid/hk-data-viz/internal/dataset"
	"github.com/couchcryptid/hk-data-viz/internal/domain"
)

const (
	raindropCount = 300
	bandLayers    = 8
	bandQuads     = 60
)

// CycloneRain animates raindrops spiralling out of a rotating storm body.
// The band opacity follows the normalized warning hours of the year each
// frame represents.
type CycloneRain struct {
	DataDirs []string
	OutDir   string
	Size     int
	Frames   int
	Seed     int64
}

// NewCycloneRain returns the 800px, 80-frame configuration.
func NewCycloneRain(dataDirs []string, outDir string) *CycloneRain {
	return &CycloneRain{DataDirs: dataDirs, OutDir: outDir, Size: 800, Frames: 80, Seed: 1}
}

func (r *CycloneRain) Name() string { return "cyclone-rain" }

type raindrops struct {
	theta, rBase []float64
	phase, speed []float64
	size         []float64
}

func newRaindrops(seed int64) raindrops {
	rng := rand.New(rand.NewPCG(uint64(seed), 1))
	d := raindrops{
		theta: domain.Linspace(0, 4*math.Pi, raindropCount),
		rBase: domain.Linspace(20, 350, raindropCount),
		phase: make([]float64, raindropCount),
		speed: make([]float64, raindropCount),
		size:  make([]float64, raindropCount),
	}
	for i := range raindropCount {
		d.phase[i] = 2 * math.Pi * rng.Float64()
	}
	for i := range raindropCount {
		d.speed[i] = 0.5 + 2*rng.Float64()
	}
	for i := range raindropCount {
		d.size[i] = 2 + 6*rng.Float64()
	}
	return d
}

// yearIndex maps a frame onto the warnings row it represents.
func yearIndex(f, frames, years int) int {
	if years == 0 || frames == 0 {
		return 0
	}
	return min(f*years/frames, years-1)
}

func (r *CycloneRain) Render(ctx context.Context) (domain.Artifact, error) {
	path, err := dataset.FindInput(r.DataDirs, []string{dataset.WarningsFile})
	if err != nil {
		return domain.Artifact{}, err
	}
	rows, err := dataset.ReadWarnings(path)
	if err != nil {
		return domain.Artifact{}, err
	}
	norm := domain.Normalize(domain.TotalHoursSeries(rows))

	drops := newRaindrops(r.Seed)
	size := float64(r.Size)
	k := size / 800 // geometry is laid out for an 800px canvas
	cx, cy := size/2, size/2
	enc := NewEncoder(4)

	err = frameLoop(ctx, r.Frames, func(f int) error {
		dc := gg.NewContext(r.Size, r.Size)
		dc.SetRGB(1, 1, 1)
		dc.Clear()

		weight := 1.0
		if len(norm) > 0 {
			weight = 0.5 + 0.5*norm[yearIndex(f, r.Frames, len(norm))]
		}
		drawBands(dc, cx, cy, k, f, weight)

		for i := range raindropCount {
			th := drops.theta[i] + 0.1*float64(f)*drops.speed[i]
			rad := drops.rBase[i] + 50*math.Sin(0.5*th+drops.phase[i]) + float64(f)
			x, y := cx+k*rad*math.Cos(th), cy+k*rad*math.Sin(th)
			drawRaindrop(dc, x, y, k*drops.size[i], math.Atan2(y-cy, x-cx),
				domain.BlueWhite(float64(i)/raindropCount))
		}

		dc.SetRGB(1, 1, 1)
		dc.DrawCircle(cx, cy, 40*k)
		dc.Fill()

		enc.Add(imaging.Blur(dc.Image(), 0.8))
		return nil
	})
	if err != nil {
		return domain.Artifact{}, err
	}

	out := filepath.Join(r.OutDir, "cyclone_animation.gif")
	if err := enc.Save(out); err != nil {
		return domain.Artifact{}, fmt.Errorf("save %s: %w", out, err)
	}
	return domain.Artifact{Name: r.Name(), Path: out, Frames: enc.Len()}, nil
}

// drawBands fills the rotating translucent rings that form the storm body.
func drawBands(dc *gg.Context, cx, cy, k float64, f int, weight float64) {
	step := 2 * math.Pi / bandQuads
	for layer := range bandLayers {
		t := float64(layer) / (bandLayers - 1)
		setColor(dc, domain.BlueWhite(0.2+0.8*t), weight*(40+60*t)/255)
		spin := gg.Radians(1.5 * float64(f) * float64(layer+1))
		r1 := k * (30 + 30*float64(layer))
		r2 := r1 + 200*k
		for q := range bandQuads {
			a1 := float64(q)*step + spin
			a2 := a1 + step
			dc.MoveTo(cx+r1*math.Cos(a1), cy+r1*math.Sin(a1))
			dc.LineTo(cx+r1*math.Cos(a2), cy+r1*math.Sin(a2))
			dc.LineTo(cx+r2*math.Cos(a2), cy+r2*math.Sin(a2))
			dc.LineTo(cx+r2*math.Cos(a1), cy+r2*math.Sin(a1))
			dc.ClosePath()
			dc.Fill()
		}
	}
}

// drawRaindrop draws an ellipse with a triangular tail. heading is the
// pixel-space angle from the storm centre; the tail points along it.
func drawRaindrop(dc *gg.Context, x, y, s, heading float64, c color.RGBA) {
	dc.Push()
	dc.Translate(x, y)
	dc.Rotate(heading - math.Pi/2)
	dc.Translate(-2*s, -2*s)

	setColor(dc, c, 200.0/255)
	dc.DrawEllipse(2*s, 1.75*s, 1.5*s, 1.75*s)
	dc.Fill()

	setColor(dc, c, 160.0/255)
	dc.MoveTo(2*s, 3.5*s)
	dc.LineTo(1.1*s, 4.5*s)
	dc.LineTo(2.9*s, 4.5*s)
	dc.ClosePath()
	dc.Fill()
	dc.Pop()
}
