package particle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/hk-data-viz/internal/domain"
)

func TestIntensity(t *testing.T) {
	assert.InDelta(t, 0.1, Intensity(2.5), 1e-12)
	assert.InDelta(t, 0.5, Intensity(3.75), 1e-12)
	assert.InDelta(t, 1.0, Intensity(9), 1e-12)
}

func TestSpawn_CountScalesWithRate(t *testing.T) {
	low := NewSystem(1)
	low.Spawn(0, 0, 3.0, 0)
	assert.Equal(t, 23, low.Len(), "intensity floor 0.1 gives 20 + 3")

	high := NewSystem(1)
	high.Spawn(0, 0, 5.0, 0)
	assert.Equal(t, 50, high.Len())
}

func TestSpawn_Geometry(t *testing.T) {
	s := NewSystem(7)
	s.Spawn(10, 4, 4.5, 3)

	for i, p := range s.Particles() {
		assert.InDelta(t, 1.0, p.Life, 0)
		assert.Equal(t, 3, p.Born)
		assert.LessOrEqual(t, p.X-10, 1.5+1e-9, "x offset is at most 0.5 * 3 * intensity")
		assert.LessOrEqual(t, p.Y-4, 0.6+1e-9, "y offset is at most 0.2 * 3 * intensity")
		assert.GreaterOrEqual(t, p.Size, 20.0)
		assert.LessOrEqual(t, p.Size, 60.0)
		if i == 0 {
			assert.InDelta(t, 0, p.VY, 1e-12, "first particle points along +x")
			assert.Greater(t, p.VX, 0.0)
		}
	}
}

func TestBandColor(t *testing.T) {
	assert.Equal(t, domain.Named("yellow"), BandColor(3.0, 0, 30))
	assert.Equal(t, domain.Named("gold"), BandColor(3.0, 10, 30))
	assert.Equal(t, domain.Named("orange"), BandColor(3.0, 29, 30))
	assert.Equal(t, domain.Named("darkorange"), BandColor(3.5, 15, 30))
	assert.Equal(t, domain.Named("crimson"), BandColor(4.0, 25, 30))
}

func TestStep_Physics(t *testing.T) {
	s := NewSystem(1)
	s.particles = []Particle{{X: 0, Y: 0, VX: 1, VY: 1, Life: 1, Size: 40, Color: domain.Named("red")}}

	sprites := s.Step()
	require.Len(t, sprites, 1)
	p := s.Particles()[0]
	assert.InDelta(t, 1, p.X, 1e-12)
	assert.InDelta(t, 1, p.Y, 1e-12)
	assert.InDelta(t, 0.985, p.Life, 1e-12)
	assert.InDelta(t, 0.99, p.VX, 1e-12)
	assert.InDelta(t, (1-0.008)*0.99, p.VY, 1e-12)

	sp := sprites[0]
	assert.False(t, sp.Glow)
	assert.InDelta(t, 40*(0.5+0.5*0.985), sp.Size, 1e-9)
	assert.True(t, sp.Alpha >= 0.8*0.985*0.8 && sp.Alpha <= 0.8*0.985)
}

func TestStep_GlowAndDeath(t *testing.T) {
	s := NewSystem(1)
	s.particles = []Particle{
		{Life: 0.2, Size: 10, Color: domain.Named("gold")},
		{Life: 0.01, Size: 10},
	}

	sprites := s.Step()
	assert.Equal(t, 1, s.Len(), "particle whose life hits zero is removed")
	require.Len(t, sprites, 2)
	assert.True(t, sprites[0].Glow)
	assert.Equal(t, domain.Named("white"), sprites[0].Color)
	assert.InDelta(t, 2*sprites[1].Size, sprites[0].Size, 1e-12)
	assert.InDelta(t, 0.3*sprites[1].Alpha, sprites[0].Alpha, 1e-12)
}

func TestStep_Drains(t *testing.T) {
	s := NewSystem(3)
	s.Spawn(0, 0, 4.2, 0)
	for range 67 {
		s.Step()
	}
	assert.Equal(t, 0, s.Len(), "life decays to zero within 67 steps")
}
