// Package render provides overlay renderers backed by gogpu/gg contexts.
package render

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"

	"geooverlay/internal/overlay"
)

var ErrClosed = errors.New("render: surface closed")

// Surface is a gg context sized in logical pixels times its resolution.
// The device cap (maxBuffer) may leave the drawing buffer narrower than
// asked for; the overlay reconciles the resolution when that happens.
type Surface struct {
	dc          *gg.Context
	opts        overlay.RendererOptions
	resolution  float64
	width       int
	height      int
	maxBuffer   int
	accelerated bool
	closed      bool
}

func newSurface(opts overlay.RendererOptions, maxBuffer int, accelerated bool) *Surface {
	res := opts.Resolution
	if res <= 0 {
		res = 1
	}
	return &Surface{
		dc:          gg.NewContext(1, 1),
		opts:        opts,
		resolution:  res,
		maxBuffer:   maxBuffer,
		accelerated: accelerated,
	}
}

func (s *Surface) Resolution() float64     { return s.resolution }
func (s *Surface) SetResolution(r float64) { s.resolution = r }
func (s *Surface) Accelerated() bool       { return s.accelerated }

// Size is the logical size last passed to Resize.
func (s *Surface) Size() (int, int) { return s.width, s.height }

func (s *Surface) BufferWidth() int { return scaled(s.width, s.resolution) }

func (s *Surface) DrawingBufferWidth() int { return s.dc.Width() }

func (s *Surface) DrawingBufferHeight() int { return s.dc.Height() }

func scaled(n int, res float64) int { return int(math.Ceil(float64(n) * res)) }

func (s *Surface) capped(n int) int {
	if s.maxBuffer > 0 && n > s.maxBuffer {
		return s.maxBuffer
	}
	return max(n, 1)
}

// Resize reallocates the drawing buffer. Content is dropped unless the
// surface was built with PreserveDrawBuffer.
func (s *Surface) Resize(width, height int) error {
	if s.closed {
		return ErrClosed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("render: invalid size %dx%d", width, height)
	}
	var old image.Image
	if s.opts.PreserveDrawBuffer {
		old = s.dc.Image()
	}
	bw := s.capped(scaled(width, s.resolution))
	bh := s.capped(scaled(height, s.resolution))
	if err := s.dc.Resize(bw, bh); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	s.width, s.height = width, height
	if old != nil {
		xdraw.Copy(s.pixels(), image.Point{}, old, old.Bounds(), xdraw.Src, nil)
	}
	return nil
}

// pixels wraps the drawing buffer without copying it.
func (s *Surface) pixels() *image.RGBA {
	pm := s.dc.ResizeTarget()
	return &image.RGBA{
		Pix:    pm.Data(),
		Stride: pm.Width() * 4,
		Rect:   image.Rect(0, 0, pm.Width(), pm.Height()),
	}
}

// pixelRatio is the real buffer-to-logical ratio after any device cap.
func (s *Surface) pixelRatio() float64 {
	if s.width == 0 {
		return s.resolution
	}
	return float64(s.dc.Width()) / float64(s.width)
}

// Begin prepares the context for one draw callback: it clears when
// ClearBeforeRender is set and installs root's transform, so callers draw
// in renderer-local coordinates.
func (s *Surface) Begin(root *overlay.Container) *gg.Context {
	if s.opts.ClearBeforeRender {
		s.dc.ClearWithColor(gg.RGBA2(0, 0, 0, s.opts.BackgroundAlpha))
	}
	r := s.pixelRatio()
	m := gg.Scale(r, r)
	if root != nil {
		m = m.Multiply(gg.Translate(root.Position.X, root.Position.Y)).
			Multiply(gg.Scale(root.Scale, root.Scale))
	}
	s.dc.SetTransform(m)
	return s.dc
}

// Context returns the underlying gg context.
func (s *Surface) Context() *gg.Context { return s.dc }

// Flush waits for queued accelerator work to land in the buffer.
func (s *Surface) Flush() error {
	if s.closed {
		return ErrClosed
	}
	return s.dc.FlushGPU()
}

// ResetState drops path, clip and transform state left by foreign drawing.
func (s *Surface) ResetState() error {
	if s.closed {
		return ErrClosed
	}
	s.dc.ClearPath()
	s.dc.ResetClip()
	s.dc.Identity()
	return nil
}

// Image returns a copy of the buffer.
func (s *Surface) Image() image.Image {
	_ = s.dc.FlushGPU()
	return s.dc.Image()
}

// View returns the live buffer. It is only valid until the next Resize.
func (s *Surface) View() *image.RGBA { return s.pixels() }

func (s *Surface) SavePNG(path string) error {
	if s.closed {
		return ErrClosed
	}
	return s.dc.SavePNG(path)
}

// Destroy closes the context. Textures are owned by the context, so
// releaseTextures only affects logging.
func (s *Surface) Destroy(releaseTextures bool) error {
	if s.closed {
		return nil
	}
	s.closed = true
	overlay.Logger().Debug("render: surface destroyed", "releaseTextures", releaseTextures)
	return s.dc.Close()
}

var (
	_ overlay.Renderer      = (*Surface)(nil)
	_ overlay.Flusher       = (*Surface)(nil)
	_ overlay.StateResetter = (*Surface)(nil)
)
