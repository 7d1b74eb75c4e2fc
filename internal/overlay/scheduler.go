package overlay

import (
	"geooverlay/internal/geo"
)

// redrawJob is one committed redraw: the bounds it was computed for and the
// event that triggered it.
type redrawJob struct {
	bounds geo.Bounds
	ev     Event
}

// Update is the movement entry point. It reads the current map state from
// the host, never from ev, commits new bounds and redraws.
//
// Before the renderer is ready the event is kept as the single catch-up
// update replayed on readiness, and nothing is drawn.
func (o *Overlay) Update(ev Event) {
	if o.host == nil {
		return
	}
	if !o.lc.ready() {
		if o.lc.state == Initializing || o.lc.state == Failed {
			o.deferred = &ev
			Logger().Debug("overlay: update deferred", "event", ev.Kind)
		}
		return
	}
	h := o.host
	if h.AnimatingZoom() && o.hasState {
		return
	}

	size := h.Size()
	center := h.ContainerToLayer(size.Mul(0.5))
	b := ComputeBounds(size, center, o.opts.Padding)
	o.state = State{Center: h.Center(), Zoom: h.Zoom(), Bounds: b}
	o.hasState = true

	job := redrawJob{bounds: b, ev: ev}
	if o.doubleBuffering {
		o.scheduleSwap(job)
		return
	}
	if err := o.resizeFront(b); err != nil {
		Logger().Error("overlay: resize failed", "err", err)
		return
	}
	o.present(job)
}

func (o *Overlay) resizeFront(b geo.Bounds) error {
	sz := b.Size()
	return o.lc.resize(o.lc.frontSurface(), int(sz.X), int(sz.Y))
}

// present redraws into the front surface and moves the container onto the
// job's bounds.
func (o *Overlay) present(job redrawJob) {
	o.redraw(job)
	o.transform = ContainerTransform{Offset: job.bounds.Min, Scale: 1}
}

// redraw sets the scene root transform and invokes the draw callback. All
// pixel math here is unrounded.
func (o *Overlay) redraw(job redrawJob) {
	scale := o.proj.ScaleFactor(o.state.Zoom, o.pctx.ReferenceZoom)
	origin, err := o.proj.ToLayer(o.pctx.OriginGeo, o.state.Zoom, geo.RoundNone)
	if err != nil {
		Logger().Error("overlay: projecting origin", "err", err)
		return
	}
	shift := origin.Sub(o.pctx.OriginPixel.Mul(scale)).Sub(job.bounds.Min)
	o.root.Scale = scale
	o.root.Position = shift
	if o.draw != nil {
		o.draw(o.utils, job.ev)
	}
}

// Redraw calls the draw callback again with data, without recomputing bounds
// or moving the container. Use it when scene content changes while the map
// stands still.
func (o *Overlay) Redraw(data any) error {
	if o.host == nil || !o.lc.ready() || !o.hasState {
		return ErrStateNotReady
	}
	if o.draw != nil {
		o.draw(o.utils, Event{Kind: EventRedraw, Data: data})
	}
	return nil
}
