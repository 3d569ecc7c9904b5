// Package particle simulates the explosion bursts drawn over the
// unemployment curve animation.
package particle

import (
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/couchcryptid/hk-data-viz/internal/domain"
)

const (
	lifeDecay = 0.015
	gravity   = 0.008
	drag      = 0.99
	glowLife  = 0.3
)

var bands = [3][3]string{
	{"yellow", "gold", "orange"},
	{"orange", "darkorange", "red"},
	{"red", "darkred", "crimson"},
}

// Particle is one live fragment in data coordinates.
type Particle struct {
	X, Y   float64
	VX, VY float64
	Life   float64
	Size   float64
	Color  color.RGBA
	Born   int
}

// Sprite is a particle as it should be drawn this frame. Size is an area
// in points squared.
type Sprite struct {
	X, Y  float64
	Size  float64
	Color color.RGBA
	Alpha float64
	Glow  bool
}

// System owns the live particles and the RNG that drives them.
type System struct {
	particles []Particle
	rng       *rand.Rand
}

// NewSystem returns an empty system seeded with seed.
func NewSystem(seed int64) *System {
	return &System{rng: rand.New(rand.NewPCG(uint64(seed), 0x5851f42d4c957f2d))}
}

func (s *System) uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*s.rng.Float64()
}

// Intensity maps an unemployment rate onto [0.1, 1].
func Intensity(rate float64) float64 {
	return domain.Clamp((rate-3.0)/1.5, 0.1, 1.0)
}

// BandColor picks the color for the i-th of n particles at the given rate.
func BandColor(rate float64, i, n int) color.RGBA {
	band := bands[2]
	switch {
	case rate < 3.2:
		band = bands[0]
	case rate < 3.8:
		band = bands[1]
	}
	idx := min(3*i/n, 2)
	return domain.Named(band[idx])
}

// Spawn adds a radial burst centred on (x, y). Higher rates produce more,
// larger and faster particles.
func (s *System) Spawn(x, y, rate float64, frame int) {
	intensity := Intensity(rate)
	n := int(20 + 30*intensity)
	for i := range n {
		angle := 2 * math.Pi * float64(i) / float64(n)
		radius := s.uniform(0.5, 3.0) * intensity
		speed := s.uniform(0.3, 1.5) * intensity
		cos, sin := math.Cos(angle), math.Sin(angle)
		s.particles = append(s.particles, Particle{
			X:     x + 0.5*radius*cos,
			Y:     y + 0.2*radius*sin,
			VX:    speed * cos,
			VY:    speed * sin,
			Life:  1,
			Size:  s.uniform(20, 60) * intensity,
			Color: BandColor(rate, i, n),
			Born:  frame,
		})
	}
}

// Step advances every particle one frame, drops the dead ones and returns
// the sprites to draw. Glow sprites precede the particle they belong to.
func (s *System) Step() []Sprite {
	sprites := make([]Sprite, 0, len(s.particles))
	alive := s.particles[:0]
	for _, p := range s.particles {
		p.X += p.VX
		p.Y += p.VY
		p.Life -= lifeDecay
		p.VY -= gravity
		p.VX *= drag
		p.VY *= drag
		if p.Life <= 0 {
			continue
		}

		alpha := 0.8 * p.Life * s.uniform(0.8, 1.0)
		size := p.Size * (0.5 + 0.5*p.Life)
		if p.Life < glowLife {
			sprites = append(sprites, Sprite{
				X: p.X, Y: p.Y,
				Size:  2 * size,
				Color: domain.Named("white"),
				Alpha: 0.3 * alpha,
				Glow:  true,
			})
		}
		sprites = append(sprites, Sprite{X: p.X, Y: p.Y, Size: size, Color: p.Color, Alpha: alpha})
		alive = append(alive, p)
	}
	clear(s.particles[len(alive):])
	s.particles = alive
	return sprites
}

// Len reports the number of live particles.
func (s *System) Len() int { return len(s.particles) }

// Particles returns a copy of the live particles.
func (s *System) Particles() []Particle {
	return append([]Particle(nil), s.particles...)
}
