package slippy

import (
	"geooverlay/internal/geo"
	"geooverlay/internal/overlay"
)

// Post queues fn for the map loop. Safe from any goroutine.
func (m *Map) Post(fn func()) {
	m.mu.Lock()
	m.tasks = append(m.tasks, fn)
	m.mu.Unlock()
	select {
	case m.notify <- struct{}{}:
	default:
	}
}

// Tasks signals that Drain has work. Wait on it from outside the loop.
func (m *Map) Tasks() <-chan struct{} { return m.notify }

// Drain runs every queued task on the calling goroutine and reports how
// many ran. Tasks posted while draining run too.
func (m *Map) Drain() int {
	n := 0
	for {
		m.mu.Lock()
		q := m.tasks
		m.tasks = nil
		m.mu.Unlock()
		if len(q) == 0 {
			return n
		}
		for _, fn := range q {
			fn()
		}
		n += len(q)
	}
}

func (m *Map) RequestFrame(fn func()) { m.frames = append(m.frames, fn) }

// Busy reports whether Tick has work: an animation or a requested frame.
func (m *Map) Busy() bool { return m.anim != nil || len(m.frames) > 0 }

// Tick advances a zoom animation by one frame, then runs the frame
// callbacks requested before this tick. Callbacks requested from inside a
// callback wait for the next tick.
func (m *Map) Tick() {
	if m.anim != nil {
		m.step()
	}
	q := m.frames
	m.frames = nil
	for _, fn := range q {
		fn()
	}
}

type zoomAnim struct {
	fromCenter geo.LatLng
	fromZoom   float64
	toCenter   geo.LatLng
	toZoom     float64
	frame      int
	frames     int
}

func newZoomAnim(fc geo.LatLng, fz float64, tc geo.LatLng, tz float64, frames int) *zoomAnim {
	return &zoomAnim{fromCenter: fc, fromZoom: fz, toCenter: tc, toZoom: tz, frames: frames}
}

// retarget keeps the elapsed frames and heads for a new view.
func (a *zoomAnim) retarget(c geo.LatLng, z float64) {
	a.toCenter, a.toZoom = c, z
}

func (a *zoomAnim) at(t float64) (geo.LatLng, float64) {
	// ease-out cubic
	e := 1 - (1-t)*(1-t)*(1-t)
	c := geo.LatLng{
		Lat: a.fromCenter.Lat + (a.toCenter.Lat-a.fromCenter.Lat)*e,
		Lng: a.fromCenter.Lng + (a.toCenter.Lng-a.fromCenter.Lng)*e,
	}
	return c, a.fromZoom + (a.toZoom-a.fromZoom)*e
}

// step emits one ZoomAnim frame and finishes the animation on the last one.
func (m *Map) step() {
	a := m.anim
	a.frame++
	if a.frame < a.frames {
		c, z := a.at(float64(a.frame) / float64(a.frames))
		m.emit(overlay.Event{Kind: overlay.EventZoomAnim, Center: c, Zoom: z})
		return
	}
	m.emit(overlay.Event{Kind: overlay.EventZoomAnim, Center: a.toCenter, Zoom: a.toZoom})
	m.anim = nil
	m.center, m.zoom = a.toCenter, a.toZoom
	m.resetView()
	m.fire(overlay.EventZoom, overlay.EventMove, overlay.EventMoveEnd)
}
