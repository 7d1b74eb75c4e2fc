package overlay

import (
	"context"

	"geooverlay/internal/geo"
)

// Renderer is one drawing surface of a graphics backend.
type Renderer interface {
	// Resize sets the logical surface size in CSS-like pixels.
	Resize(width, height int) error
	Resolution() float64
	SetResolution(r float64)
	// BufferWidth is the pixel width the renderer asked the device for.
	BufferWidth() int
	// DrawingBufferWidth is the pixel width the device actually allocated.
	DrawingBufferWidth() int
	Accelerated() bool
	Destroy(releaseTextures bool) error
}

// Flusher is implemented by renderers that can block until their queued
// commands reach the surface.
type Flusher interface {
	Flush() error
}

// StateResetter is implemented by renderers that need their device state
// reset between external and internal draw calls.
type StateResetter interface {
	ResetState() error
}

// RendererOptions are handed to a Factory for every surface it builds.
type RendererOptions struct {
	Resolution         float64
	Antialias          bool
	ForceSoftware      bool
	PreserveDrawBuffer bool
	ClearBeforeRender  bool
	BackgroundAlpha    float64
}

// Capabilities describe what a Factory can build on this device.
type Capabilities struct {
	// Available is false when no drawing surface can be made at all.
	Available   bool
	Accelerated bool
}

// Factory builds renderers. Synchronous factories return a settled Future.
type Factory interface {
	Capabilities() Capabilities
	NewRenderer(ctx context.Context, opts RendererOptions) *Future[Renderer]
}

// Container is the scene root. The overlay sets its transform before every
// draw callback; renderers apply it when the caller renders the scene.
type Container struct {
	Scale    float64
	Position geo.Point
}

// Apply maps a renderer-local point into surface pixels.
func (c *Container) Apply(p geo.Point) geo.Point {
	return p.Mul(c.Scale).Add(c.Position)
}

// ContainerTransform places the outer container in layer pixels.
type ContainerTransform struct {
	Offset geo.Point
	Scale  float64
}
