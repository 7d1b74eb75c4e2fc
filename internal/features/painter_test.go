package features

import (
	"context"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geooverlay/internal/geo"
	"geooverlay/internal/overlay"
	"geooverlay/internal/render"
	"geooverlay/internal/slippy"
)

func newView(t *testing.T, d *Data) (*slippy.Map, *overlay.Overlay, *Painter) {
	t.Helper()
	opts := slippy.DefaultOptions()
	opts.Size = geo.Pt(200, 120)
	opts.Center = geo.LatLng{Lat: 10, Lng: 10}
	opts.Zoom = 5
	opts.ZoomAnimation = false
	m := slippy.New(opts)

	p := NewPainter(d)
	ov := overlay.New(render.NewFactory(render.Options{}), p.Draw, nil)
	m.On(ov.OnHostEvent)
	_, err := ov.Attach(context.Background(), m).Await(context.Background())
	require.NoError(t, err)
	return m, ov, p
}

func alphaAt(t *testing.T, ov *overlay.Overlay, x, y int) float64 {
	t.Helper()
	s, ok := render.AsSurface(ov.VisibleSurface().Renderer())
	require.True(t, ok)
	return s.Context().ResizeTarget().GetPixel(x, y).A
}

func TestPainterDrawsAtFeaturePosition(t *testing.T) {
	d := &Data{}
	d.Add(orb.Point{10, 10})
	m, ov, p := newView(t, d)

	assert.Equal(t, 1, p.Draws())
	st, ok := ov.State()
	require.True(t, ok)
	assert.Equal(t, geo.Pt(-20, -12), st.Bounds.Min)

	// the map center sits at container (100, 60), i.e. surface (120, 72)
	assert.Greater(t, alphaAt(t, ov, 120, 72), 0.0)
	assert.Zero(t, alphaAt(t, ov, 5, 5))

	m.PanBy(geo.Pt(30, 0))
	assert.Equal(t, 2, p.Draws())
	assert.Greater(t, alphaAt(t, ov, 90, 72), 0.0)
	assert.Zero(t, alphaAt(t, ov, 120, 72))
}

func TestPainterRedrawSwapsData(t *testing.T) {
	d := &Data{}
	d.Add(orb.Point{10, 10})
	m, ov, p := newView(t, d)

	ll, err := m.ContainerToLatLng(geo.Pt(50, 60))
	require.NoError(t, err)
	next := &Data{}
	next.Add(orb.Point{ll.Lng, ll.Lat})

	require.NoError(t, ov.Redraw(next))
	assert.Same(t, next, p.Data())
	assert.Equal(t, 2, p.Draws())
	assert.Greater(t, alphaAt(t, ov, 70, 72), 0.0)
	assert.Zero(t, alphaAt(t, ov, 120, 72))
}

func TestPainterLayers(t *testing.T) {
	d := &Data{}
	d.Add(orb.Point{10, 10})
	_, ov, p := newView(t, d)

	p.Layers.Points = false
	require.NoError(t, ov.Redraw(nil))
	assert.Zero(t, alphaAt(t, ov, 120, 72))
	assert.Same(t, d, p.Data())
}

func TestPainterFillsPolygon(t *testing.T) {
	d := &Data{}
	d.Add(orb.Polygon{{{5, 5}, {15, 5}, {15, 15}, {5, 15}, {5, 5}}})
	_, ov, _ := newView(t, d)

	assert.Greater(t, alphaAt(t, ov, 120, 72), 0.0)
	assert.Zero(t, alphaAt(t, ov, 2, 2))
}
