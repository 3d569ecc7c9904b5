// Package chart renders the static PNG charts with gonum/plot and the
// labor spreadsheet report.
package chart

import (
	"context"
	"fmt"
	"io"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/couchcryptid/hk-data-viz/internal/dataset"
)

// savePNG draws onto a w×h canvas at dpi and writes it to path as a PNG.
func savePNG(ctx context.Context, path string, w, h vg.Length, dpi int, fn func(dc draw.Canvas) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi))
	if err := fn(draw.New(c)); err != nil {
		return err
	}
	return dataset.WriteFileAtomic(path, func(out io.Writer) error {
		if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(out); err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		return nil
	})
}
