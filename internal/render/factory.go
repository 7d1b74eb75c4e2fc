package render

import (
	"context"
	"sync"
	"time"

	"github.com/gogpu/gg"

	"geooverlay/internal/overlay"
)

// Options control how a Factory builds surfaces.
type Options struct {
	// Async builds surfaces on a goroutine and settles the future later.
	Async bool
	// AsyncDelay simulates device acquisition time in async mode.
	AsyncDelay time.Duration
	// MaxBufferSize caps either buffer dimension, like a device texture limit.
	MaxBufferSize int
	// Accelerated marks surfaces accelerated even without a registered gg
	// accelerator. Resolution reconciliation and double buffering key off it.
	Accelerated bool
	// Disabled makes the factory report no usable backend.
	Disabled bool
}

// Factory builds gg surfaces for the overlay.
type Factory struct {
	opts Options

	mu    sync.Mutex
	built []*Surface
}

func NewFactory(opts Options) *Factory {
	return &Factory{opts: opts}
}

func (f *Factory) Capabilities() overlay.Capabilities {
	if f.opts.Disabled {
		return overlay.Capabilities{}
	}
	return overlay.Capabilities{
		Available:   true,
		Accelerated: f.opts.Accelerated || gg.Accelerator() != nil,
	}
}

func (f *Factory) NewRenderer(ctx context.Context, opts overlay.RendererOptions) *overlay.Future[overlay.Renderer] {
	accel := !opts.ForceSoftware && f.Capabilities().Accelerated
	if !f.opts.Async {
		return overlay.Resolved[overlay.Renderer](f.build(opts, accel))
	}
	fut := overlay.NewFuture[overlay.Renderer]()
	go func() {
		t := time.NewTimer(f.opts.AsyncDelay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			fut.Reject(ctx.Err())
		case <-t.C:
			fut.Resolve(f.build(opts, accel))
		}
	}()
	return fut
}

func (f *Factory) build(opts overlay.RendererOptions, accel bool) *Surface {
	s := newSurface(opts, f.opts.MaxBufferSize, accel)
	f.mu.Lock()
	f.built = append(f.built, s)
	f.mu.Unlock()
	overlay.Logger().Debug("render: surface created", "accelerated", accel, "resolution", s.resolution)
	return s
}

// Built returns every surface this factory has produced.
func (f *Factory) Built() []*Surface {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*Surface(nil), f.built...)
}

// AsSurface returns r as a *Surface when it came from this package.
func AsSurface(r overlay.Renderer) (*Surface, bool) {
	s, ok := r.(*Surface)
	return s, ok
}
