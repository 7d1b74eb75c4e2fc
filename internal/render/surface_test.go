package render

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geooverlay/internal/geo"
	"geooverlay/internal/overlay"
)

func rendererOpts() overlay.RendererOptions {
	return overlay.RendererOptions{Resolution: 1, Antialias: true, ClearBeforeRender: true}
}

func TestSurfaceResizeUsesResolution(t *testing.T) {
	s := newSurface(overlay.RendererOptions{Resolution: 2}, 0, false)
	require.NoError(t, s.Resize(100, 50))

	w, h := s.Size()
	assert.Equal(t, 100, w)
	assert.Equal(t, 50, h)
	assert.Equal(t, 200, s.BufferWidth())
	assert.Equal(t, 200, s.DrawingBufferWidth())
	assert.Equal(t, 100, s.DrawingBufferHeight())
}

func TestSurfaceBufferCap(t *testing.T) {
	s := newSurface(overlay.RendererOptions{Resolution: 2}, 150, true)
	require.NoError(t, s.Resize(100, 50))
	assert.Equal(t, 200, s.BufferWidth())
	assert.Equal(t, 150, s.DrawingBufferWidth())
	assert.InDelta(t, 1.5, s.pixelRatio(), 1e-12)
}

func TestSurfaceResizeRejectsEmpty(t *testing.T) {
	s := newSurface(rendererOpts(), 0, false)
	assert.Error(t, s.Resize(0, 10))
}

func TestSurfaceBeginAppliesRootTransform(t *testing.T) {
	s := newSurface(rendererOpts(), 0, false)
	require.NoError(t, s.Resize(64, 64))

	dc := s.Begin(&overlay.Container{Scale: 2, Position: geo.Pt(10, 6)})
	dc.SetRGBA(1, 0, 0, 1)
	dc.DrawRectangle(0, 0, 5, 5)
	require.NoError(t, dc.Fill())

	pm := dc.ResizeTarget()
	assert.InDelta(t, 1, pm.GetPixel(15, 11).A, 0.01)
	assert.Zero(t, pm.GetPixel(4, 4).A)
	assert.Zero(t, pm.GetPixel(25, 20).A)
}

func TestSurfaceClearBeforeRender(t *testing.T) {
	s := newSurface(rendererOpts(), 0, false)
	require.NoError(t, s.Resize(32, 32))
	dc := s.Begin(nil)
	dc.SetRGBA(0, 0, 1, 1)
	dc.DrawRectangle(0, 0, 32, 32)
	require.NoError(t, dc.Fill())

	dc = s.Begin(nil)
	assert.Zero(t, dc.ResizeTarget().GetPixel(16, 16).A)
}

func TestSurfacePreserveDrawBuffer(t *testing.T) {
	opts := rendererOpts()
	opts.PreserveDrawBuffer = true
	s := newSurface(opts, 0, false)
	require.NoError(t, s.Resize(20, 20))
	dc := s.Begin(nil)
	dc.SetRGBA(0, 1, 0, 1)
	dc.DrawRectangle(0, 0, 10, 10)
	require.NoError(t, dc.Fill())

	require.NoError(t, s.Resize(40, 40))
	assert.InDelta(t, 1, s.Context().ResizeTarget().GetPixel(5, 5).A, 0.01)
	assert.Equal(t, 40, s.View().Bounds().Dx())
}

func TestSurfaceResetStateAndDestroy(t *testing.T) {
	s := newSurface(rendererOpts(), 0, false)
	require.NoError(t, s.Resize(10, 10))
	s.Begin(&overlay.Container{Scale: 3})
	require.NoError(t, s.ResetState())
	assert.Equal(t, gg.Identity(), s.Context().GetTransform())

	path := filepath.Join(t.TempDir(), "surface.png")
	require.NoError(t, s.SavePNG(path))

	require.NoError(t, s.Destroy(true))
	require.NoError(t, s.Destroy(true))
	assert.ErrorIs(t, s.Resize(5, 5), ErrClosed)
	assert.ErrorIs(t, s.Flush(), ErrClosed)
}

func TestFactorySync(t *testing.T) {
	f := NewFactory(Options{Accelerated: true})
	caps := f.Capabilities()
	assert.True(t, caps.Available)
	assert.True(t, caps.Accelerated)

	fut := f.NewRenderer(context.Background(), rendererOpts())
	require.True(t, fut.Settled())
	r, err := fut.Await(context.Background())
	require.NoError(t, err)
	assert.True(t, r.Accelerated())

	opts := rendererOpts()
	opts.ForceSoftware = true
	r, err = f.NewRenderer(context.Background(), opts).Await(context.Background())
	require.NoError(t, err)
	assert.False(t, r.Accelerated())
	assert.Len(t, f.Built(), 2)
}

func TestFactoryAsync(t *testing.T) {
	f := NewFactory(Options{Async: true, AsyncDelay: time.Millisecond})
	fut := f.NewRenderer(context.Background(), rendererOpts())
	r, err := fut.Await(context.Background())
	require.NoError(t, err)
	_, ok := AsSurface(r)
	assert.True(t, ok)
}

func TestFactoryAsyncCancelled(t *testing.T) {
	f := NewFactory(Options{Async: true, AsyncDelay: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	fut := f.NewRenderer(ctx, rendererOpts())
	cancel()
	_, err := fut.Await(context.Background())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.Built())
}

func TestFactoryDisabled(t *testing.T) {
	assert.False(t, NewFactory(Options{Disabled: true}).Capabilities().Available)
}
