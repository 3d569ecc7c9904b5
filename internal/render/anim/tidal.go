package anim

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"path/filepath"

	"github.com/fogleman/gg"
	"gonum.org/v1/gonum/floats"

	"github.com/couchcryptid/hk-data-viz/internal/dataset"
	"github.com/couchcryptid/hk-data-viz/internal/domain"
)

// TidalSpiral plots every tide reading as a dot on a slowly turning spiral.
type TidalSpiral struct {
	DataDirs []string
	OutDir   string
	Size     int
	Frames   int
	FPS      float64
}

// NewTidalSpiral returns the 800px, 90-frame, 30fps configuration.
func NewTidalSpiral(dataDirs []string, outDir string) *TidalSpiral {
	return &TidalSpiral{DataDirs: dataDirs, OutDir: outDir, Size: 800, Frames: 90, FPS: 30}
}

func (r *TidalSpiral) Name() string { return "tidal-spiral" }

// spiralRatios scales values by their maximum. A non-positive maximum
// yields all zeros.
func spiralRatios(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	hi := floats.Max(values)
	if hi <= 0 {
		return out
	}
	for i, v := range values {
		out[i] = v / hi
	}
	return out
}

func (r *TidalSpiral) Render(ctx context.Context) (domain.Artifact, error) {
	path, err := dataset.FindInput(r.DataDirs, []string{dataset.TidesFile})
	if err != nil {
		return domain.Artifact{}, err
	}
	rows, err := dataset.ReadTides(path)
	if err != nil {
		return domain.Artifact{}, err
	}
	ratios := spiralRatios(domain.TideHeights(rows))

	k := float64(r.Size) / 800
	c := float64(r.Size) / 2
	bg := color.RGBA{10, 10, 30, 0xff}
	enc := NewEncoder(DelayForFPS(r.FPS))

	err = frameLoop(ctx, r.Frames, func(f int) error {
		dc := gg.NewContext(r.Size, r.Size)
		dc.SetColor(bg)
		dc.Clear()
		for i, ratio := range ratios {
			angle := 0.1*float64(i) + 0.01*float64(f)
			radius := k * (100 + 200*ratio)
			x := c + math.Trunc(radius*math.Cos(angle))
			y := c + math.Trunc(radius*math.Sin(angle))
			dc.SetColor(color.RGBA{R: unit8((100 + 155*ratio) / 255), G: 100, B: 255, A: 0xff})
			dc.DrawCircle(x, y, 4*k)
			dc.Fill()
		}
		enc.Add(dc.Image())
		return nil
	})
	if err != nil {
		return domain.Artifact{}, err
	}

	out := filepath.Join(r.OutDir, "tidal_spiral.gif")
	if err := enc.Save(out); err != nil {
		return domain.Artifact{}, fmt.Errorf("save %s: %w", out, err)
	}
	return domain.Artifact{Name: r.Name(), Path: out, Frames: enc.Len()}, nil
}
