package anim

import (
	"context"
	"fmt"
	"image/png"
	"io"
	"math"
	"path/filepath"

	"github.com/fogleman/gg"

	"github.com/couchcryptid/hk-data-viz/internal/dataset"
	"github.com/couchcryptid/hk-data-viz/internal/domain"
)

// Star draws the five-point turtle star.
type Star struct {
	OutDir string
	Side   float64
	Pen    float64
}

// NewStar returns a star with 200px sides and a 3px gold pen.
func NewStar(outDir string) *Star {
	return &Star{OutDir: outDir, Side: 200, Pen: 3}
}

func (r *Star) Name() string { return "star" }

// StarPath walks a turtle forward side units and right 144 degrees five
// times from the origin, heading east. Coordinates are y-up.
func StarPath(side float64) [][2]float64 {
	pts := [][2]float64{{0, 0}}
	x, y, heading := 0.0, 0.0, 0.0
	for range 5 {
		x += side * math.Cos(heading)
		y += side * math.Sin(heading)
		pts = append(pts, [2]float64{x, y})
		heading -= gg.Radians(144)
	}
	return pts
}

func (r *Star) Render(ctx context.Context) (domain.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return domain.Artifact{}, err
	}
	pts := StarPath(r.Side)

	minX, minY, maxX, maxY := math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
		minY, maxY = math.Min(minY, p[1]), math.Max(maxY, p[1])
	}
	margin := r.Side / 4
	w := int(math.Ceil(maxX - minX + 2*margin))
	h := int(math.Ceil(maxY - minY + 2*margin))

	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	for i, p := range pts {
		x, y := p[0]-minX+margin, maxY-p[1]+margin
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.SetColor(domain.Named("gold"))
	dc.SetLineWidth(r.Pen)
	dc.SetLineJoin(gg.LineJoinRound)
	dc.Stroke()

	out := filepath.Join(r.OutDir, "star.png")
	img := dc.Image()
	if err := dataset.WriteFileAtomic(out, func(w io.Writer) error { return png.Encode(w, img) }); err != nil {
		return domain.Artifact{}, fmt.Errorf("save %s: %w", out, err)
	}
	return domain.Artifact{Name: r.Name(), Path: out}, nil
}
