package domain

import (
	"image/color"
	"math"
)

var blueWhiteStops = [...]color.RGBA{
	{0x00, 0x3f, 0x5c, 0xff},
	{0x2f, 0x4b, 0x7c, 0xff},
	{0xff, 0xff, 0xff, 0xff},
}

// BlueWhite samples the deep-blue to white gradient used by the cyclone
// renders. t is clamped to [0,1].
func BlueWhite(t float64) color.RGBA {
	return gradient(blueWhiteStops[:], t)
}

// Nine anchor points of the ColorBrewer "Blues" sequential scheme.
var bluesStops = [...]color.RGBA{
	{0xf7, 0xfb, 0xff, 0xff},
	{0xde, 0xeb, 0xf7, 0xff},
	{0xc6, 0xdb, 0xef, 0xff},
	{0x9e, 0xca, 0xe1, 0xff},
	{0x6b, 0xae, 0xd6, 0xff},
	{0x42, 0x92, 0xc6, 0xff},
	{0x21, 0x71, 0xb5, 0xff},
	{0x08, 0x51, 0x9c, 0xff},
	{0x08, 0x30, 0x6b, 0xff},
}

// Blues interpolates the ColorBrewer "Blues" scheme.
func Blues(t float64) color.RGBA {
	return gradient(bluesStops[:], t)
}

func gradient(stops []color.RGBA, t float64) color.RGBA {
	t = Clamp(t, 0, 1)
	if math.IsNaN(t) {
		t = 0
	}
	pos := t * float64(len(stops)-1)
	i := int(pos)
	if i >= len(stops)-1 {
		return stops[len(stops)-1]
	}
	frac := pos - float64(i)
	a, b := stops[i], stops[i+1]
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*frac))
	}
	return color.RGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), 0xff}
}

// HSV converts hue (degrees), saturation and value in [0,1] to RGB.
func HSV(h, s, v float64) color.RGBA {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	s = Clamp(s, 0, 1)
	v = Clamp(v, 0, 1)
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c
	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	to8 := func(f float64) uint8 { return uint8(math.Round((f + m) * 255)) }
	return color.RGBA{to8(r), to8(g), to8(b), 0xff}
}

var named = map[string]color.RGBA{
	"black":      {0, 0, 0, 0xff},
	"white":      {0xff, 0xff, 0xff, 0xff},
	"gray":       {0x80, 0x80, 0x80, 0xff},
	"yellow":     {0xff, 0xff, 0x00, 0xff},
	"gold":       {0xff, 0xd7, 0x00, 0xff},
	"orange":     {0xff, 0xa5, 0x00, 0xff},
	"darkorange": {0xff, 0x8c, 0x00, 0xff},
	"red":        {0xff, 0x00, 0x00, 0xff},
	"darkred":    {0x8b, 0x00, 0x00, 0xff},
	"crimson":    {0xdc, 0x14, 0x3c, 0xff},
	"cyan":       {0x00, 0xff, 0xff, 0xff},
	"teal":       {0x00, 0x80, 0x80, 0xff},
	"royalblue":  {0x41, 0x69, 0xe1, 0xff},
	"lightblue":  {0xad, 0xd8, 0xe6, 0xff},
	"navy":       {0x00, 0x00, 0x80, 0xff},
	"blue":       {0x1f, 0x77, 0xb4, 0xff},
	"green":      {0x2c, 0xa0, 0x2c, 0xff},
	"tabred":     {0xd6, 0x27, 0x28, 0xff},
	"taborange":  {0xff, 0x7f, 0x0e, 0xff},
}

// Named returns one of the renderer palette colors. Unknown names map to
// opaque black.
func Named(name string) color.RGBA {
	if c, ok := named[name]; ok {
		return c
	}
	return color.RGBA{A: 0xff}
}

// WithAlpha returns c with alpha a in [0,1], as a non-premultiplied color.
func WithAlpha(c color.RGBA, a float64) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(Clamp(a, 0, 1) * 255))}
}
