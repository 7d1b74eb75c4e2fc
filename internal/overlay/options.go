package overlay

import "math"

// Options configures an Overlay. Use DefaultOptions and the With* helpers.
type Options struct {
	// Padding extends the renderer surface around the map view, as a fraction
	// of the view size on every side.
	Padding float64
	// ForceSoftware disables accelerated renderers.
	ForceSoftware bool
	// DoubleBuffering alternates two surfaces. Ignored unless accelerated.
	DoubleBuffering bool
	// Resolution is the surface device pixel ratio.
	Resolution         float64
	PreserveDrawBuffer bool
	ClearBeforeRender  bool
	// ProjectionZoom picks the reference zoom once the renderer is ready.
	ProjectionZoom func(minZoom, maxZoom float64) float64
	// ShouldRedrawOnMove filters plain pan events.
	ShouldRedrawOnMove func(Event) bool
	// Fallback is tried once, synchronously, after the primary factory fails.
	Fallback Factory
}

type Option func(*Options)

func DefaultOptions() Options {
	return Options{
		Padding:            0.1,
		Resolution:         1,
		ClearBeforeRender:  true,
		ProjectionZoom:     DefaultProjectionZoom,
		ShouldRedrawOnMove: func(Event) bool { return false },
	}
}

// DefaultProjectionZoom is the zoom midpoint, or minZoom+8 when the map has
// no upper bound.
func DefaultProjectionZoom(minZoom, maxZoom float64) float64 {
	if math.IsInf(maxZoom, 1) {
		return minZoom + 8
	}
	return (maxZoom + minZoom) / 2
}

func WithPadding(p float64) Option { return func(o *Options) { o.Padding = p } }

func WithForceSoftware(v bool) Option { return func(o *Options) { o.ForceSoftware = v } }

func WithDoubleBuffering(v bool) Option { return func(o *Options) { o.DoubleBuffering = v } }

func WithResolution(r float64) Option { return func(o *Options) { o.Resolution = r } }

func WithPreserveDrawBuffer(v bool) Option { return func(o *Options) { o.PreserveDrawBuffer = v } }

func WithClearBeforeRender(v bool) Option { return func(o *Options) { o.ClearBeforeRender = v } }

func WithProjectionZoom(fn func(minZoom, maxZoom float64) float64) Option {
	return func(o *Options) { o.ProjectionZoom = fn }
}

func WithShouldRedrawOnMove(fn func(Event) bool) Option {
	return func(o *Options) { o.ShouldRedrawOnMove = fn }
}

func WithFallback(f Factory) Option { return func(o *Options) { o.Fallback = f } }

func (o Options) rendererOptions() RendererOptions {
	return RendererOptions{
		Resolution:         o.Resolution,
		Antialias:          true,
		ForceSoftware:      o.ForceSoftware,
		PreserveDrawBuffer: o.PreserveDrawBuffer,
		ClearBeforeRender:  o.ClearBeforeRender,
		BackgroundAlpha:    0,
	}
}

func (o *Options) normalize() {
	if o.Padding < 0 || math.IsNaN(o.Padding) {
		o.Padding = 0
	}
	if o.Resolution <= 0 || math.IsNaN(o.Resolution) {
		o.Resolution = 1
	}
	if o.ProjectionZoom == nil {
		o.ProjectionZoom = DefaultProjectionZoom
	}
	if o.ShouldRedrawOnMove == nil {
		o.ShouldRedrawOnMove = func(Event) bool { return false }
	}
}
