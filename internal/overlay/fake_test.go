package overlay

import (
	"context"
	"errors"
	"math"
	"sync"

	"geooverlay/internal/geo"
)

type fakeHost struct {
	crs          geo.Mercator
	size         geo.Point
	center       geo.LatLng
	zoom         float64
	minZoom      float64
	maxZoom      float64
	origin       geo.Point
	pane         geo.Point
	animating    bool
	zoomAnimated bool

	mu     sync.Mutex
	posted []func()
	frames []func()
}

func newFakeHost() *fakeHost {
	h := &fakeHost{
		size:         geo.Pt(800, 600),
		center:       geo.LatLng{Lat: 48.8566, Lng: 2.3522},
		zoom:         12,
		minZoom:      0,
		maxZoom:      18,
		zoomAnimated: true,
	}
	h.resetView()
	return h
}

func (h *fakeHost) resetView() {
	p, _ := h.crs.Project(h.center, h.zoom)
	h.pane = geo.Point{}
	h.origin = p.Sub(h.size.Mul(0.5)).Round(geo.RoundNearest)
}

func (h *fakeHost) setView(center geo.LatLng, zoom float64) {
	h.center, h.zoom = center, zoom
	h.resetView()
}

// panBy moves the view the way a dragged map pane does.
func (h *fakeHost) panBy(d geo.Point) {
	h.pane = h.pane.Sub(d)
	c := h.origin.Add(h.ContainerToLayer(h.size.Mul(0.5)))
	h.center, _ = h.crs.Unproject(c, h.zoom)
}

func (h *fakeHost) Size() geo.Point    { return h.size }
func (h *fakeHost) Center() geo.LatLng { return h.center }
func (h *fakeHost) Zoom() float64      { return h.zoom }
func (h *fakeHost) MinZoom() float64   { return h.minZoom }
func (h *fakeHost) MaxZoom() float64   { return h.maxZoom }

func (h *fakeHost) Project(ll geo.LatLng, zoom float64) (geo.Point, error) {
	return h.crs.Project(ll, zoom)
}

func (h *fakeHost) Unproject(p geo.Point, zoom float64) (geo.LatLng, error) {
	return h.crs.Unproject(p, zoom)
}

func (h *fakeHost) ZoomScale(to, from float64) float64 { return h.crs.ZoomScale(to, from) }
func (h *fakeHost) PixelOrigin() geo.Point             { return h.origin }

func (h *fakeHost) PixelOriginFor(center geo.LatLng, zoom float64) geo.Point {
	p, _ := h.crs.Project(center, zoom)
	return p.Sub(h.size.Mul(0.5)).Add(h.pane).Round(geo.RoundNearest)
}

func (h *fakeHost) ContainerToLayer(p geo.Point) geo.Point { return p.Sub(h.pane) }
func (h *fakeHost) AnimatingZoom() bool                    { return h.animating }
func (h *fakeHost) ZoomAnimated() bool                     { return h.zoomAnimated }

func (h *fakeHost) Post(fn func()) {
	h.mu.Lock()
	h.posted = append(h.posted, fn)
	h.mu.Unlock()
}

func (h *fakeHost) RequestFrame(fn func()) {
	h.mu.Lock()
	h.frames = append(h.frames, fn)
	h.mu.Unlock()
}

func (h *fakeHost) pendingPosts() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.posted)
}

func (h *fakeHost) pendingFrames() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.frames)
}

func (h *fakeHost) runPosted() {
	h.mu.Lock()
	q := h.posted
	h.posted = nil
	h.mu.Unlock()
	for _, fn := range q {
		fn()
	}
}

func (h *fakeHost) runFrames() {
	h.mu.Lock()
	q := h.frames
	h.frames = nil
	h.mu.Unlock()
	for _, fn := range q {
		fn()
	}
}

type fakeRenderer struct {
	accelerated bool
	resolution  float64
	width       int
	height      int
	// maxBuffer caps the drawing buffer width like a device limit would.
	maxBuffer int

	resizes   int
	flushes   int
	destroyed int
	resetErr  error
	resets    int
}

func (r *fakeRenderer) Resize(w, h int) error {
	r.resizes++
	r.width, r.height = w, h
	return nil
}

func (r *fakeRenderer) Resolution() float64     { return r.resolution }
func (r *fakeRenderer) SetResolution(v float64) { r.resolution = v }
func (r *fakeRenderer) Accelerated() bool       { return r.accelerated }

func (r *fakeRenderer) BufferWidth() int {
	return int(math.Ceil(float64(r.width) * r.resolution))
}

func (r *fakeRenderer) DrawingBufferWidth() int {
	w := r.BufferWidth()
	if r.maxBuffer > 0 && w > r.maxBuffer {
		return r.maxBuffer
	}
	return w
}

func (r *fakeRenderer) Destroy(bool) error {
	r.destroyed++
	return nil
}

func (r *fakeRenderer) ResetState() error {
	r.resets++
	return r.resetErr
}

// flushRenderer adds an explicit flush signal.
type flushRenderer struct {
	fakeRenderer
}

func (r *flushRenderer) Flush() error {
	r.flushes++
	return nil
}

var errNoDevice = errors.New("no device")

type fakeFactory struct {
	caps  Capabilities
	async bool
	fail  error
	flush bool
	// maxBuffer is handed to every renderer built.
	maxBuffer int
	// hold delays async settlement until closed.
	hold chan struct{}

	built   []*fakeRenderer
	pending []*Future[Renderer]
}

func (f *fakeFactory) Capabilities() Capabilities { return f.caps }

func (f *fakeFactory) NewRenderer(_ context.Context, opts RendererOptions) *Future[Renderer] {
	if f.fail != nil && !f.async {
		return Rejected[Renderer](f.fail)
	}
	var r Renderer
	if f.flush {
		fr := &flushRenderer{fakeRenderer{accelerated: f.caps.Accelerated, resolution: opts.Resolution, maxBuffer: f.maxBuffer}}
		f.built = append(f.built, &fr.fakeRenderer)
		r = fr
	} else {
		fr := &fakeRenderer{accelerated: f.caps.Accelerated, resolution: opts.Resolution, maxBuffer: f.maxBuffer}
		f.built = append(f.built, fr)
		r = fr
	}
	if !f.async {
		return Resolved(r)
	}
	fut := NewFuture[Renderer]()
	f.pending = append(f.pending, fut)
	hold, fail := f.hold, f.fail
	go func() {
		if hold != nil {
			<-hold
		}
		if fail != nil {
			fut.Reject(fail)
			return
		}
		fut.Resolve(r)
	}()
	return fut
}

// bareRenderer hides the optional hooks of the renderer it wraps.
type bareRenderer struct {
	Renderer
}

// bareFactory builds renderers without flush or reset hooks.
type bareFactory struct {
	fakeFactory
}

func (f *bareFactory) NewRenderer(ctx context.Context, opts RendererOptions) *Future[Renderer] {
	r, err := f.fakeFactory.NewRenderer(ctx, opts).Await(ctx)
	if err != nil {
		return Rejected[Renderer](err)
	}
	return Resolved[Renderer](bareRenderer{r})
}

func syncFactory() *fakeFactory {
	return &fakeFactory{caps: Capabilities{Available: true}}
}

type drawRecorder struct {
	events []Event
	utils  []*Utils
	frames []Container
}

func (d *drawRecorder) draw(u *Utils, ev Event) {
	d.events = append(d.events, ev)
	d.utils = append(d.utils, u)
	d.frames = append(d.frames, *u.Container())
}
