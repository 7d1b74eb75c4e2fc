package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geooverlay/internal/geo"
)

func doubleBuffered(flush bool) *fakeFactory {
	return &fakeFactory{caps: Capabilities{Available: true, Accelerated: true}, flush: flush}
}

func visibleCount(o *Overlay) int {
	n := 0
	for i := 0; i < o.lc.n; i++ {
		if o.lc.surfaces[i].Visible() {
			n++
		}
	}
	return n
}

func TestDoubleBufferSwapsOnFrame(t *testing.T) {
	f := doubleBuffered(true)
	o, h, d := attach(t, f, WithDoubleBuffering(true))
	require.True(t, o.DoubleBuffering())
	require.Len(t, f.built, 2)

	first := o.VisibleSurface()
	assert.Same(t, f.built[0], &first.Renderer().(*flushRenderer).fakeRenderer)
	assert.Empty(t, d.events)
	assert.Equal(t, 1, h.pendingFrames())
	assert.Equal(t, 1, visibleCount(o))

	h.runFrames()
	require.Len(t, d.events, 1)
	assert.Equal(t, 1, visibleCount(o))
	assert.NotSame(t, first, o.VisibleSurface())
	assert.Equal(t, 1, f.built[1].flushes)
	assert.Equal(t, 0, f.built[0].flushes)

	st, _ := o.State()
	assert.Equal(t, ContainerTransform{Offset: st.Bounds.Min, Scale: 1}, o.ContainerTransform())
}

func TestDoubleBufferSupersedesPendingSwap(t *testing.T) {
	f := doubleBuffered(true)
	o, h, d := attach(t, f, WithDoubleBuffering(true))
	h.runFrames()
	shown := o.VisibleSurface()

	h.panBy(geo.Pt(10, 0))
	o.OnHostEvent(Event{Kind: EventMoveEnd, Data: 1})
	h.panBy(geo.Pt(10, 0))
	o.OnHostEvent(Event{Kind: EventMoveEnd, Data: 2})

	assert.Equal(t, 1, h.pendingFrames())
	assert.Same(t, shown, o.VisibleSurface())
	assert.Len(t, d.events, 1)

	h.runFrames()
	require.Len(t, d.events, 2)
	assert.Equal(t, 2, d.events[1].Data)
	assert.Equal(t, 1, visibleCount(o))
	assert.NotSame(t, shown, o.VisibleSurface())

	st, _ := o.State()
	assert.Equal(t, geo.Pt(-60, -60), st.Bounds.Min)
	w, _ := o.VisibleSurface().Size()
	assert.Equal(t, 960, w)
}

func TestDoubleBufferWithoutFlushSwapsImmediately(t *testing.T) {
	f := doubleBuffered(false)
	o, h, d := attach(t, f, WithDoubleBuffering(true))

	assert.Equal(t, 0, h.pendingFrames())
	assert.Len(t, d.events, 1)
	assert.Equal(t, 1, visibleCount(o))
	assert.Same(t, o.lc.surfaces[1], o.VisibleSurface())

	o.OnHostEvent(Event{Kind: EventMoveEnd})
	assert.Len(t, d.events, 2)
	assert.Same(t, o.lc.surfaces[0], o.VisibleSurface())
}

func TestDoubleBufferNeedsAcceleration(t *testing.T) {
	f := &fakeFactory{caps: Capabilities{Available: true}, flush: true}
	o, _, _ := attach(t, f, WithDoubleBuffering(true))
	assert.False(t, o.DoubleBuffering())
	assert.Len(t, f.built, 1)

	f = doubleBuffered(true)
	o, _, _ = attach(t, f, WithDoubleBuffering(true), WithForceSoftware(true))
	assert.False(t, o.DoubleBuffering())
	assert.Len(t, f.built, 1)
}

func TestDetachDropsPendingSwap(t *testing.T) {
	f := doubleBuffered(true)
	o, h, d := attach(t, f, WithDoubleBuffering(true))
	h.runFrames()
	shown := o.VisibleSurface()

	o.OnHostEvent(Event{Kind: EventMoveEnd})
	o.Detach()
	h.runFrames()
	assert.Len(t, d.events, 1)
	assert.Same(t, shown, o.VisibleSurface())
	assert.Same(t, o.lc.frontSurface(), shown)
}
