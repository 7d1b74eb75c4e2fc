// Package overlay keeps a renderer surface pinned to a slippy map.
//
// Content is drawn in renderer-local coordinates: map pixels at a reference
// zoom fixed when the renderer becomes ready. On every qualifying map
// movement the overlay recomputes the padded pixel bounds the surface must
// cover, resizes the surface, sets a scale+translate transform on the scene
// root and calls the caller's draw function. While the map animates a zoom
// only the outer container transform is updated.
//
// An Overlay is not safe for concurrent use. Every method must run on the
// host loop; asynchronous renderer construction reports back through
// Host.Post.
package overlay

import (
	"context"
	"fmt"
)

// DrawFunc is called on every committed redraw. It must not keep the
// renderer returned by Utils.Renderer beyond the call.
type DrawFunc func(u *Utils, ev Event)

// Overlay synchronizes one or two renderer surfaces with a Host.
type Overlay struct {
	opts    Options
	factory Factory
	draw    DrawFunc
	root    *Container

	host     Host
	proj     Projection
	attached *Future[*Overlay]
	// gen invalidates in-flight renderer constructions on detach.
	gen int

	lc              lifecycle
	doubleBuffering bool
	swap            swapper

	pctx      ProjectionContext
	state     State
	hasState  bool
	transform ContainerTransform
	deferred  *Event
	utils     *Utils
}

// New returns an overlay that draws through draw into root using renderers
// built by factory. root may be nil.
func New(factory Factory, draw DrawFunc, root *Container, opts ...Option) *Overlay {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.normalize()
	if root == nil {
		root = &Container{Scale: 1}
	}
	return &Overlay{
		opts:    o,
		factory: factory,
		draw:    draw,
		root:    root,
		lc:      lifecycle{opts: o.rendererOptions()},
	}
}

// Options returns the effective options.
func (o *Overlay) Options() Options { return o.opts }

// State returns the last committed view and whether there is one.
func (o *Overlay) State() (State, bool) { return o.state, o.hasState }

// LifecycleState returns the renderer lifecycle state.
func (o *Overlay) LifecycleState() LifecycleState { return o.lc.state }

// ProjectionContext returns the reference zoom context. Zero before ready.
func (o *Overlay) ProjectionContext() ProjectionContext { return o.pctx }

// ContainerTransform returns where the outer container sits in layer pixels.
func (o *Overlay) ContainerTransform() ContainerTransform { return o.transform }

// DoubleBuffering reports whether two surfaces are alternated.
func (o *Overlay) DoubleBuffering() bool { return o.doubleBuffering }

// VisibleSurface returns the surface currently shown, or nil.
func (o *Overlay) VisibleSurface() *Surface { return o.lc.visibleSurface() }

// Root returns the scene root.
func (o *Overlay) Root() *Container { return o.root }

// Attach binds the overlay to host and starts building renderers. The
// returned Future settles once the overlay is ready, or rejects with
// ErrUnsupportedBackend or ErrRendererInitFailed.
func (o *Overlay) Attach(ctx context.Context, host Host) *Future[*Overlay] {
	if o.lc.state == Destroyed {
		return Rejected[*Overlay](ErrDestroyed)
	}
	if o.host != nil {
		return o.attached
	}
	if o.lc.hasPrimary() {
		// surfaces survived a Detach
		o.host = host
		o.proj = NewProjection(host)
		if err := o.complete(); err != nil {
			o.host = nil
			return Rejected[*Overlay](err)
		}
		return o.attached
	}

	caps := o.factory.Capabilities()
	if !caps.Available {
		return Rejected[*Overlay](ErrUnsupportedBackend)
	}
	o.host = host
	o.proj = NewProjection(host)
	o.doubleBuffering = o.opts.DoubleBuffering && !o.opts.ForceSoftware && caps.Accelerated
	o.attached = NewFuture[*Overlay]()
	o.gen++

	gen := o.gen
	o.await(ctx, o.lc.create(ctx, o.factory), func(r Renderer, err error) {
		o.onPrimary(ctx, gen, r, err)
	})
	return o.attached
}

// await calls next with the result of f: immediately when f is already
// settled, otherwise on the host loop once it settles.
func (o *Overlay) await(ctx context.Context, f *Future[Renderer], next func(Renderer, error)) {
	if f.Settled() {
		next(f.Await(ctx))
		return
	}
	host := o.host
	go func() {
		r, err := f.Await(ctx)
		if err != nil && f.Settled() {
			// a renderer built as ctx ended still goes through next, which
			// destroys it when the overlay moved on
			r, err = f.Await(ctx)
		}
		host.Post(func() { next(r, err) })
	}()
}

// stale reports whether a construction started under gen lost its overlay.
// A renderer that arrives late is destroyed.
func (o *Overlay) stale(gen int, r Renderer) bool {
	if gen == o.gen && o.host != nil && o.lc.state != Destroyed {
		return false
	}
	destroyRenderer(r)
	return true
}

func (o *Overlay) onPrimary(ctx context.Context, gen int, r Renderer, err error) {
	if o.stale(gen, r) {
		return
	}
	if err != nil {
		o.lc.state = Failed
		Logger().Error("overlay: renderer initialization failed", "err", err)
		o.attached.Reject(fmt.Errorf("%w: %w", ErrRendererInitFailed, err))
		o.fallback(ctx, gen)
		return
	}
	o.lc.install(r, true)
	if !o.doubleBuffering {
		o.finish()
		return
	}
	o.await(ctx, o.lc.create(ctx, o.factory), func(aux Renderer, err error) {
		if o.stale(gen, aux) {
			return
		}
		if err != nil {
			Logger().Error("overlay: auxiliary renderer initialization failed", "err", err)
			o.doubleBuffering = false
		} else {
			o.lc.install(aux, false)
		}
		o.finish()
	})
}

// fallback walks Failed -> Initializing with the fallback factory.
func (o *Overlay) fallback(ctx context.Context, gen int) {
	f := o.opts.Fallback
	if f == nil || !f.Capabilities().Available {
		return
	}
	Logger().Warn("overlay: trying fallback renderer")
	o.doubleBuffering = false
	o.await(ctx, o.lc.create(ctx, f), func(r Renderer, err error) {
		if o.stale(gen, r) {
			return
		}
		if err != nil {
			o.lc.state = Failed
			Logger().Error("overlay: fallback renderer initialization failed", "err", err)
			return
		}
		o.lc.install(r, true)
		o.finish()
	})
}

func (o *Overlay) finish() {
	if err := o.complete(); err != nil {
		o.lc.state = Failed
		Logger().Error("overlay: initialization failed", "err", err)
		o.attached.Reject(fmt.Errorf("%w: %w", ErrRendererInitFailed, err))
	}
}

// complete fixes the reference zoom, marks the overlay ready and replays a
// single update: the one deferred while initializing, or an add.
func (o *Overlay) complete() error {
	h := o.host
	pctx, err := newProjectionContext(o.proj, o.opts.ProjectionZoom(h.MinZoom(), h.MaxZoom()))
	if err != nil {
		return fmt.Errorf("reference zoom: %w", err)
	}
	o.pctx = pctx
	if o.lc.n < 2 {
		o.doubleBuffering = false
	}
	o.lc.state = Ready
	o.utils = &Utils{o: o, host: h}
	if o.attached == nil || o.attached.Settled() {
		o.attached = NewFuture[*Overlay]()
	}
	o.attached.Resolve(o)
	Logger().Info("overlay: ready",
		"referenceZoom", pctx.ReferenceZoom, "doubleBuffering", o.doubleBuffering)

	ev := Event{Kind: EventAdd}
	if o.deferred != nil {
		ev = *o.deferred
		o.deferred = nil
	}
	o.Update(ev)
	return nil
}

// Detach unbinds the overlay from its host. Surfaces are kept so a later
// Attach can reuse them.
func (o *Overlay) Detach() {
	if o.host == nil {
		return
	}
	o.dropPendingSwap()
	if !o.lc.ready() && o.lc.state != Destroyed {
		o.lc.state = Uninitialized
		if o.attached != nil {
			o.attached.Reject(ErrDetached)
		}
	}
	o.host = nil
	o.deferred = nil
	o.hasState = false
	o.gen++
}

// Destroy detaches and releases every renderer. It is safe to call more than
// once and while a renderer is still being built.
func (o *Overlay) Destroy() {
	if o.lc.state == Destroyed {
		return
	}
	o.Detach()
	o.lc.destroyAll()
	o.utils = nil
	o.draw = nil
	Logger().Info("overlay: destroyed")
}

// OnHostEvent routes a map notification.
func (o *Overlay) OnHostEvent(ev Event) {
	switch ev.Kind {
	case EventMove:
		if o.opts.ShouldRedrawOnMove(ev) {
			o.Update(ev)
		}
	case EventMoveEnd, EventAdd:
		o.Update(ev)
	case EventZoom:
		if o.host != nil {
			o.syncTransform(o.host.Center(), o.host.Zoom())
		}
	case EventZoomAnim:
		if o.host != nil && o.host.ZoomAnimated() {
			o.syncTransform(ev.Center, ev.Zoom)
		}
	}
}
