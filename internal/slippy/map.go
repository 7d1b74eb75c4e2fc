// Package slippy is a minimal slippy map host: a spherical mercator view
// with panning, zooming, zoom animation frames, a task queue for work that
// finishes off the loop, and a frame queue driven by the caller's ticker.
package slippy

import (
	"fmt"
	"math"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"

	"geooverlay/internal/geo"
	"geooverlay/internal/overlay"
)

// Options configure a Map.
type Options struct {
	Size    geo.Point
	Center  geo.LatLng
	Zoom    float64
	MinZoom float64
	// MaxZoom of +Inf leaves the zoom unbounded above.
	MaxZoom float64
	// ZoomAnimation interpolates zoom changes over AnimationFrames ticks.
	ZoomAnimation   bool
	AnimationFrames int
}

func DefaultOptions() Options {
	return Options{
		Center:          geo.LatLng{Lat: 48.8566, Lng: 2.3522},
		Zoom:            4,
		MinZoom:         0,
		MaxZoom:         18,
		ZoomAnimation:   true,
		AnimationFrames: 6,
	}
}

// Map implements overlay.Host. Every method except Post must be called from
// the loop that owns the map.
type Map struct {
	crs  geo.Mercator
	opts Options

	size   geo.Point
	center geo.LatLng
	zoom   float64
	// origin is the projected top-left of the view at the last reset.
	origin geo.Point
	// pane is the offset panning has applied since the last reset.
	pane geo.Point
	anim *zoomAnim

	listeners []func(overlay.Event)

	mu     sync.Mutex
	tasks  []func()
	notify chan struct{}

	frames []func()
}

func New(opts Options) *Map {
	if opts.AnimationFrames <= 0 {
		opts.AnimationFrames = 1
	}
	if opts.MaxZoom < opts.MinZoom {
		opts.MaxZoom = opts.MinZoom
	}
	m := &Map{
		opts:   opts,
		size:   opts.Size,
		center: opts.Center,
		notify: make(chan struct{}, 1),
	}
	m.zoom = m.clampZoom(opts.Zoom)
	m.resetView()
	return m
}

func (m *Map) clampZoom(z float64) float64 {
	return math.Max(m.opts.MinZoom, math.Min(m.opts.MaxZoom, z))
}

func (m *Map) resetView() {
	p, err := m.crs.Project(m.center, m.zoom)
	if err != nil {
		overlay.Logger().Warn("slippy: reset view", "err", err)
		return
	}
	m.pane = geo.Point{}
	m.origin = p.Sub(m.size.Mul(0.5)).Round(geo.RoundNearest)
}

// On registers a listener for map events. Listeners run synchronously.
func (m *Map) On(fn func(overlay.Event)) { m.listeners = append(m.listeners, fn) }

func (m *Map) fire(kinds ...overlay.EventKind) {
	for _, k := range kinds {
		m.emit(overlay.Event{Kind: k, Center: m.center, Zoom: m.zoom})
	}
}

func (m *Map) emit(ev overlay.Event) {
	for _, fn := range m.listeners {
		fn(ev)
	}
}

func (m *Map) Size() geo.Point    { return m.size }
func (m *Map) Center() geo.LatLng { return m.center }
func (m *Map) Zoom() float64      { return m.zoom }
func (m *Map) MinZoom() float64   { return m.opts.MinZoom }
func (m *Map) MaxZoom() float64   { return m.opts.MaxZoom }

func (m *Map) Project(ll geo.LatLng, zoom float64) (geo.Point, error) {
	return m.crs.Project(ll, zoom)
}

func (m *Map) Unproject(p geo.Point, zoom float64) (geo.LatLng, error) {
	return m.crs.Unproject(p, zoom)
}

func (m *Map) ZoomScale(to, from float64) float64 { return m.crs.ZoomScale(to, from) }
func (m *Map) PixelOrigin() geo.Point             { return m.origin }

func (m *Map) PixelOriginFor(center geo.LatLng, zoom float64) geo.Point {
	p, err := m.crs.Project(center, zoom)
	if err != nil {
		return m.origin
	}
	return p.Sub(m.size.Mul(0.5)).Add(m.pane).Round(geo.RoundNearest)
}

func (m *Map) ContainerToLayer(p geo.Point) geo.Point { return p.Sub(m.pane) }
func (m *Map) LayerToContainer(p geo.Point) geo.Point { return p.Add(m.pane) }

// Pane is the current pan offset applied to the layer.
func (m *Map) Pane() geo.Point { return m.pane }

func (m *Map) AnimatingZoom() bool { return m.anim != nil }
func (m *Map) ZoomAnimated() bool  { return m.opts.ZoomAnimation }

// LatLngToContainer projects ll into view pixels.
func (m *Map) LatLngToContainer(ll geo.LatLng) (geo.Point, error) {
	p, err := m.crs.Project(ll, m.zoom)
	if err != nil {
		return geo.Point{}, err
	}
	return m.LayerToContainer(p.Sub(m.origin)), nil
}

// ContainerToLatLng is the inverse of LatLngToContainer.
func (m *Map) ContainerToLatLng(p geo.Point) (geo.LatLng, error) {
	return m.crs.Unproject(m.ContainerToLayer(p).Add(m.origin), m.zoom)
}

// Tile returns the tile under the view center at the current integer zoom.
func (m *Map) Tile() maptile.Tile {
	z := maptile.Zoom(math.Max(0, math.Floor(m.zoom)))
	return maptile.At(orb.Point{m.center.Lng, m.center.Lat}, z)
}

func (m *Map) String() string {
	t := m.Tile()
	return fmt.Sprintf("z=%.2f center=%.5f,%.5f tile=%d/%d/%d", m.zoom, m.center.Lat, m.center.Lng, t.Z, t.X, t.Y)
}

// SetSize changes the view size around the same center.
func (m *Map) SetSize(size geo.Point) {
	if size.Eq(m.size) {
		return
	}
	m.size = size
	m.resetView()
	m.fire(overlay.EventMoveStart, overlay.EventMove, overlay.EventMoveEnd)
}

// PanBy moves the view by d pixels.
func (m *Map) PanBy(d geo.Point) {
	if m.anim != nil || d.Eq(geo.Point{}) {
		return
	}
	m.pane = m.pane.Sub(d)
	c := m.origin.Add(m.ContainerToLayer(m.size.Mul(0.5)))
	ll, err := m.crs.Unproject(c, m.zoom)
	if err != nil {
		overlay.Logger().Warn("slippy: pan", "err", err)
		return
	}
	m.center = ll
	m.fire(overlay.EventMoveStart, overlay.EventMove, overlay.EventMoveEnd)
}

// SetView moves to center and zoom. Zoom changes animate when enabled; the
// final view is applied on the last animation frame.
func (m *Map) SetView(center geo.LatLng, zoom float64) {
	zoom = m.clampZoom(zoom)
	if m.anim != nil {
		m.anim.retarget(center, zoom)
		return
	}
	if zoom == m.zoom || !m.opts.ZoomAnimation {
		m.jump(center, zoom)
		return
	}
	m.anim = newZoomAnim(m.center, m.zoom, center, zoom, m.opts.AnimationFrames)
	m.fire(overlay.EventMoveStart)
}

func (m *Map) jump(center geo.LatLng, zoom float64) {
	zoomChanged := zoom != m.zoom
	m.center, m.zoom = center, zoom
	m.resetView()
	m.fire(overlay.EventMoveStart)
	if zoomChanged {
		m.fire(overlay.EventZoom)
	}
	m.fire(overlay.EventMove, overlay.EventMoveEnd)
}

// ZoomBy changes the zoom around the current center.
func (m *Map) ZoomBy(delta float64) {
	m.SetView(m.targetCenter(), m.TargetZoom()+delta)
}

// TargetZoom is the zoom a running animation heads for, or the current zoom.
func (m *Map) TargetZoom() float64 {
	if m.anim != nil {
		return m.anim.toZoom
	}
	return m.zoom
}

func (m *Map) targetCenter() geo.LatLng {
	if m.anim != nil {
		return m.anim.toCenter
	}
	return m.center
}

// FitBounds shows b as large as the view allows.
func (m *Map) FitBounds(b geo.BBox) {
	if !b.Valid() {
		m.SetView(b.Center(), m.zoom)
		return
	}
	nw, err1 := m.crs.Project(geo.LatLng{Lat: b.MaxY, Lng: b.MinX}, 0)
	se, err2 := m.crs.Project(geo.LatLng{Lat: b.MinY, Lng: b.MaxX}, 0)
	if err1 != nil || err2 != nil || m.size.X <= 0 || m.size.Y <= 0 {
		m.SetView(b.Center(), m.zoom)
		return
	}
	span := se.Sub(nw)
	z := math.Min(math.Log2(m.size.X/span.X), math.Log2(m.size.Y/span.Y))
	m.SetView(b.Center(), math.Floor(z*4)/4)
}
