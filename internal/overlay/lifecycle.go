package overlay

import (
	"context"
	"fmt"
)

// LifecycleState is the state of the renderer lifecycle manager.
type LifecycleState int

const (
	Uninitialized LifecycleState = iota
	Initializing
	Ready
	Failed
	Destroyed
)

func (s LifecycleState) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initializing:
		return "initializing"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	case Destroyed:
		return "destroyed"
	}
	return fmt.Sprintf("LifecycleState(%d)", int(s))
}

// Surface is a renderer owned by the overlay together with the size it was
// last committed to and its visibility inside the container.
type Surface struct {
	r       Renderer
	width   int
	height  int
	visible bool
}

func (s *Surface) Renderer() Renderer { return s.r }
func (s *Surface) Size() (int, int)   { return s.width, s.height }
func (s *Surface) Visible() bool      { return s.visible }

// lifecycle owns at most two surfaces in a fixed array. front indexes the
// surface that gets drawn into next.
type lifecycle struct {
	state    LifecycleState
	opts     RendererOptions
	surfaces [2]*Surface
	n        int
	front    int
}

func (l *lifecycle) create(ctx context.Context, f Factory) *Future[Renderer] {
	l.state = Initializing
	return f.NewRenderer(ctx, l.opts)
}

func (l *lifecycle) install(r Renderer, visible bool) *Surface {
	s := &Surface{r: r, visible: visible}
	l.surfaces[l.n] = s
	l.n++
	return s
}

func (l *lifecycle) hasPrimary() bool { return l.n > 0 }

func (l *lifecycle) ready() bool { return l.state == Ready && l.n > 0 }

func (l *lifecycle) frontSurface() *Surface { return l.surfaces[l.front] }

func (l *lifecycle) backSurface() *Surface {
	if l.n < 2 {
		return nil
	}
	return l.surfaces[1-l.front]
}

func (l *lifecycle) flip() {
	if l.n == 2 {
		l.front = 1 - l.front
	}
}

func (l *lifecycle) visibleSurface() *Surface {
	for i := 0; i < l.n; i++ {
		if l.surfaces[i].visible {
			return l.surfaces[i]
		}
	}
	return nil
}

// resize commits a new logical size. Equal sizes are a no-op. Accelerated
// renderers get their resolution reconciled against the buffer the device
// really allocated, with at most one corrective resize.
func (l *lifecycle) resize(s *Surface, width, height int) error {
	if s.width == width && s.height == height {
		return nil
	}
	r := s.r
	accel := r.Accelerated()
	if accel {
		r.SetResolution(l.opts.Resolution)
	}
	if err := r.Resize(width, height); err != nil {
		return fmt.Errorf("resize %dx%d: %w", width, height, err)
	}
	if accel {
		actual, want := r.DrawingBufferWidth(), r.BufferWidth()
		if want > 0 && actual != want {
			res := l.opts.Resolution * float64(actual) / float64(want)
			Logger().Warn("overlay: reconciling resolution",
				"err", ErrResizeInconsistency, "want", want, "actual", actual, "resolution", res)
			if res != r.Resolution() {
				r.SetResolution(res)
				if err := r.Resize(width, height); err != nil {
					return fmt.Errorf("resize %dx%d at resolution %g: %w", width, height, res, err)
				}
			}
		}
	}
	s.width, s.height = width, height
	Logger().Debug("overlay: surface resized", "width", width, "height", height)
	return nil
}

// destroyAll releases every surface. Safe to call repeatedly.
func (l *lifecycle) destroyAll() {
	for i := 0; i < l.n; i++ {
		destroyRenderer(l.surfaces[i].r)
		l.surfaces[i] = nil
	}
	l.n, l.front = 0, 0
	l.state = Destroyed
}

func destroyRenderer(r Renderer) {
	if r == nil {
		return
	}
	if err := r.Destroy(true); err != nil {
		Logger().Warn("overlay: renderer destroy failed", "err", err)
	}
}
