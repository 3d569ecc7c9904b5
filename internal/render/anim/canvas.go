package anim

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/couchcryptid/hk-data-viz/internal/domain"
)

// pointPx converts typographic points to pixels at 100 dpi, the resolution
// the animations are laid out for.
const pointPx = 100.0 / 72.0

// viewport maps a data rectangle onto a pixel rectangle with y pointing up.
type viewport struct {
	x0, y0, x1, y1 float64 // data bounds
	left, top      float64 // pixel origin of the plot area
	width, height  float64 // pixel size of the plot area
}

func squareViewport(half float64, px int) viewport {
	return viewport{x0: -half, y0: -half, x1: half, y1: half, width: float64(px), height: float64(px)}
}

func (v viewport) px(x, y float64) (float64, float64) {
	return v.left + (x-v.x0)/(v.x1-v.x0)*v.width,
		v.top + (v.y1-y)/(v.y1-v.y0)*v.height
}

// scale is the number of pixels per data unit along x.
func (v viewport) scale() float64 {
	return v.width / (v.x1 - v.x0)
}

// markerRadius converts a scatter marker area in points squared
// to a pixel radius.
func markerRadius(area float64) float64 {
	return 0.5 * math.Sqrt(math.Max(area, 0)) * pointPx
}

func setColor(dc *gg.Context, c color.RGBA, alpha float64) {
	dc.SetColor(domain.WithAlpha(c, alpha))
}

var (
	regularFont = sync.OnceValues(func() (*truetype.Font, error) { return truetype.Parse(goregular.TTF) })
	boldFont    = sync.OnceValues(func() (*truetype.Font, error) { return truetype.Parse(gobold.TTF) })
)

func face(points float64, bold bool) (font.Face, error) {
	load := regularFont
	if bold {
		load = boldFont
	}
	f, err := load()
	if err != nil {
		return nil, fmt.Errorf("parse embedded font: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{Size: points * pointPx, Hinting: font.HintingFull}), nil
}

// frameLoop calls draw for every frame index, stopping early when ctx is
// cancelled.
func frameLoop(ctx context.Context, frames int, draw func(f int) error) error {
	for f := range frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := draw(f); err != nil {
			return err
		}
	}
	return nil
}
