package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geooverlay/internal/geo"
	"geooverlay/internal/overlay"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "geooverlay.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

// noCellSize makes the resolution default independent of the terminal.
func noCellSize(t *testing.T) {
	t.Helper()
	old := cellSize
	cellSize = func() (float64, float64, bool) { return 0, 0, false }
	t.Cleanup(func() { cellSize = old })
}

func TestDefaults(t *testing.T) {
	noCellSize(t)
	c, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, 0.1, c.Padding)
	assert.Equal(t, 1.0, c.Resolution)
	assert.True(t, c.ClearBeforeRender)
	assert.Equal(t, 18.0, c.MaxZoom)
	assert.Empty(t, c.Files)

	ll, err := c.CenterLatLng()
	require.NoError(t, err)
	assert.Equal(t, geo.LatLng{Lat: 48.8566, Lng: 2.3522}, ll)
}

func TestFileThenFlags(t *testing.T) {
	path := writeConfig(t, `
padding: 0.25
resolution: 2
async_init: true
async_delay: 40ms
max_zoom: .inf
center: "10, 20"
zoom: 3
`)
	c, err := Parse([]string{"--config", path, "--zoom=6", "--padding", "0.5", "a.geojson", "b.csv"})
	require.NoError(t, err)

	assert.Equal(t, 0.5, c.Padding)
	assert.Equal(t, 2.0, c.Resolution)
	assert.True(t, c.AsyncInit)
	assert.Equal(t, 40*time.Millisecond, c.AsyncDelay)
	assert.True(t, math.IsInf(c.MaxZoom, 1))
	assert.Equal(t, 6.0, c.Zoom)
	assert.Equal(t, []string{"a.geojson", "b.csv"}, c.Files)

	m := c.MapOptions(geo.Pt(100, 50))
	assert.Equal(t, geo.LatLng{Lat: 10, Lng: 20}, m.Center)
	assert.Equal(t, geo.Pt(100, 50), m.Size)
	assert.True(t, math.IsInf(m.MaxZoom, 1))
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)

	_, err = Parse([]string{"--config", writeConfig(t, "padding: [1")})
	assert.Error(t, err)

	_, err = Parse([]string{"--resolution", "0"})
	assert.ErrorContains(t, err, "resolution")

	_, err = Parse([]string{"--min-zoom", "10", "--max-zoom", "4"})
	assert.ErrorContains(t, err, "zoom range")

	_, err = Parse([]string{"--center", "91,0"})
	assert.ErrorContains(t, err, "out of range")

	_, err = Parse([]string{"--help"})
	assert.ErrorIs(t, err, pflag.ErrHelp)
}

func TestParseLatLng(t *testing.T) {
	ll, err := ParseLatLng(" -33.9 , 151.2 ")
	require.NoError(t, err)
	assert.Equal(t, geo.LatLng{Lat: -33.9, Lng: 151.2}, ll)

	for _, s := range []string{"", "1", "a,b", "1,2,3"} {
		_, err := ParseLatLng(s)
		assert.Error(t, err, s)
	}
}

func TestOverlayOptions(t *testing.T) {
	c := Default()
	c.Padding = 0.3
	c.RedrawOnMove = true
	c.AsyncInit = true

	o := overlay.DefaultOptions()
	for _, opt := range c.OverlayOptions() {
		opt(&o)
	}
	assert.Equal(t, 0.3, o.Padding)
	assert.True(t, o.DoubleBuffering)
	assert.True(t, o.ShouldRedrawOnMove(overlay.Event{Kind: overlay.EventMove}))
	require.NotNil(t, o.Fallback)
	assert.True(t, o.Fallback.Capabilities().Available)

	ro := c.RenderOptions()
	assert.True(t, ro.Async)
	assert.Equal(t, c.AsyncDelay, ro.AsyncDelay)
}

func TestResolutionFromTerminalCells(t *testing.T) {
	tests := []struct {
		w, h float64
		want float64
	}{
		{w: 10, h: 20, want: 2},
		{w: 4, h: 8, want: 2},
		{w: 3, h: 8, want: 1},
		{w: 8, h: 7, want: 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, pixelRatio(tt.w, tt.h), "%vx%v", tt.w, tt.h)
	}

	old := cellSize
	t.Cleanup(func() { cellSize = old })
	cellSize = func() (float64, float64, bool) { return 9, 18, true }
	assert.Equal(t, 2.0, Default().Resolution)

	// an explicit flag still wins
	c, err := Parse([]string{"--resolution", "1"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, c.Resolution)

	cellSize = func() (float64, float64, bool) { return 0, 0, false }
	assert.Equal(t, 1.0, Default().Resolution)
}
