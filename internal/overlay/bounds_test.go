package overlay

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"geooverlay/internal/geo"
)

func TestComputeBoundsPadded(t *testing.T) {
	center := geo.Pt(400, 300)
	b := ComputeBounds(geo.Pt(800, 600), center, 0.1)
	assert.Equal(t, geo.Pt(960, 720), b.Size())
	assert.Equal(t, geo.Pt(-80, -60), b.Min)
	assert.Equal(t, center, b.Center())
}

func TestComputeBoundsRoundsOnlyFinalRect(t *testing.T) {
	b := ComputeBounds(geo.Pt(800, 600), geo.Pt(400.4, 299.6), 0.1)
	assert.Equal(t, geo.Pt(-80, -60), b.Min)
	assert.Equal(t, geo.Pt(880, 660), b.Max)
}

func TestComputeBoundsNegativePadding(t *testing.T) {
	b := ComputeBounds(geo.Pt(640, 480), geo.Pt(0, 0), -0.3)
	assert.Equal(t, geo.Pt(640, 480), b.Size())
}

func TestComputeBoundsCoverMap(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		size := geo.Pt(float64(1+rng.Intn(4000)), float64(1+rng.Intn(4000)))
		center := geo.Pt(rng.Float64()*1e6-5e5, rng.Float64()*1e6-5e5)
		pad := rng.Float64() - 0.2
		b := ComputeBounds(size, center, pad)
		s := b.Size()
		assert.GreaterOrEqual(t, s.X, size.X)
		assert.GreaterOrEqual(t, s.Y, size.Y)
	}
}
