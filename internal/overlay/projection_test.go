package overlay

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geooverlay/internal/geo"
)

func TestScaleFactorTransitive(t *testing.T) {
	p := NewProjection(newFakeHost())
	zooms := []float64{0, 1.5, 3, 7.25, 12, 18}
	for _, z1 := range zooms {
		assert.Equal(t, 1.0, p.ScaleFactor(z1, z1))
		for _, z2 := range zooms {
			for _, z3 := range zooms {
				want := p.ScaleFactor(z1, z3)
				got := p.ScaleFactor(z1, z2) * p.ScaleFactor(z2, z3)
				assert.InDelta(t, 1, got/want, 1e-12, "z1=%v z2=%v z3=%v", z1, z2, z3)
			}
		}
	}
}

func TestScaleFactorMonotonic(t *testing.T) {
	p := NewProjection(newFakeHost())
	prev := 0.0
	for z := 0.0; z <= 20; z += 0.5 {
		s := p.ScaleFactor(z, 9)
		assert.Greater(t, s, prev)
		prev = s
	}
}

func TestProjectionRoundTrip(t *testing.T) {
	p := NewProjection(newFakeHost())
	for _, z := range []float64{0, 4.5, 9, 16} {
		for _, ll := range []geo.LatLng{{}, {Lat: 51.5, Lng: -0.12}, {Lat: -22.9, Lng: -43.2}, {Lat: 35.68, Lng: 139.69}} {
			px, err := p.ToPixel(ll, z, geo.RoundNone)
			require.NoError(t, err)
			back, err := p.ToGeo(px, z)
			require.NoError(t, err)
			assert.InDelta(t, ll.Lat, back.Lat, 1e-9)
			assert.InDelta(t, ll.Lng, back.Lng, 1e-9)
		}
	}
}

func TestProjectionRoundingIsExplicit(t *testing.T) {
	p := NewProjection(newFakeHost())
	ll := geo.LatLng{Lat: 10.123456, Lng: 20.654321}
	raw, err := p.ToPixel(ll, 7, geo.RoundNone)
	require.NoError(t, err)
	rounded, err := p.ToPixel(ll, 7, geo.RoundNearest)
	require.NoError(t, err)
	assert.Equal(t, math.Round(raw.X), rounded.X)
	assert.Equal(t, math.Round(raw.Y), rounded.Y)
	again, _ := p.ToPixel(ll, 7, geo.RoundNone)
	assert.Equal(t, raw, again)
}

func TestProjectionInvalidZoom(t *testing.T) {
	p := NewProjection(newFakeHost())
	_, err := p.ToPixel(geo.LatLng{}, math.NaN(), geo.RoundNone)
	assert.ErrorIs(t, err, geo.ErrInvalidZoom)
}

func TestDefaultProjectionZoom(t *testing.T) {
	assert.Equal(t, 9.0, DefaultProjectionZoom(0, 18))
	assert.Equal(t, 11.0, DefaultProjectionZoom(3, math.Inf(1)))
	assert.Equal(t, 5.0, DefaultProjectionZoom(2, 8))
}
