// Package anim renders the GIF and PNG animations. Frames are drawn with gg
// and quantized to the Plan9 palette before GIF encoding.
package anim

import (
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"math"
	"path/filepath"

	"github.com/couchcryptid/hk-data-viz/internal/dataset"
)

// Encoder accumulates frames for a looping GIF. Each frame is quantized
// as it is added so full-color frames are not retained.
type Encoder struct {
	delay  int
	frames []*image.Paletted
}

// NewEncoder returns an encoder whose frames last delay hundredths of a
// second.
func NewEncoder(delay int) *Encoder {
	return &Encoder{delay: max(delay, 1)}
}

// DelayForFPS converts a frame rate to a GIF delay in 1/100s.
func DelayForFPS(fps float64) int {
	if fps <= 0 {
		return 10
	}
	return max(1, int(math.Round(100/fps)))
}

// Add quantizes img with Floyd-Steinberg dithering and appends it.
func (e *Encoder) Add(img image.Image) {
	b := img.Bounds()
	p := image.NewPaletted(b, palette.Plan9)
	draw.FloydSteinberg.Draw(p, b, img, b.Min)
	e.frames = append(e.frames, p)
}

// Len returns the number of frames added so far.
func (e *Encoder) Len() int { return len(e.frames) }

// Encode writes the animation to w, looping forever.
func (e *Encoder) Encode(w io.Writer) error {
	if len(e.frames) == 0 {
		return errors.New("gif has no frames")
	}
	delays := make([]int, len(e.frames))
	for i := range delays {
		delays[i] = e.delay
	}
	return gif.EncodeAll(w, &gif.GIF{Image: e.frames, Delay: delays, LoopCount: 0})
}

// Save writes the animation to path through a temporary file.
func (e *Encoder) Save(path string) error {
	return dataset.WriteFileAtomic(path, func(w io.Writer) error {
		if err := e.Encode(w); err != nil {
			return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
		}
		return nil
	})
}
