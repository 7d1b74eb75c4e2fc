package tui

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/paulmach/orb/maptile"
	xdraw "golang.org/x/image/draw"

	"geooverlay/internal/geo"
	"geooverlay/internal/render"
)

// alpha a surface pixel needs to light its braille dot
const dotThreshold = 0x40

var (
	gridColor  = color.RGBA{0x24, 0x31, 0x41, 0xFF}
	hoverColor = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
)

// renderMap draws the map area of w x h cells. The host map works in braille
// micro-pixels, so one cell is 2x4 host pixels.
func (m Model) renderMap(w, h int) string {
	br := newBrailleBuf(w, h)
	if m.showGrid {
		m.drawTileGrid(br)
	}
	if img := m.composite(w*2, h*4); img != nil {
		br.blit(img, dotThreshold)
	}
	if m.hovering && m.hoverHasVertex {
		br.setPixel(m.hoverMicX, m.hoverMicY, hoverColor)
	}
	return strings.Join(br.toLines(), "\n")
}

// composite places the visible overlay surface where its container sits:
// the container transform in layer pixels plus the map pane offset, scaled
// by the transform during zoom animations.
func (m Model) composite(w, h int) *image.RGBA {
	if m.ov == nil {
		return nil
	}
	vs := m.ov.VisibleSurface()
	if vs == nil {
		return nil
	}
	s, ok := render.AsSurface(vs.Renderer())
	if !ok {
		return nil
	}
	sw, sh := vs.Size()
	if sw == 0 || sh == 0 {
		return nil
	}
	ct := m.ov.ContainerTransform()
	pos := ct.Offset.Add(m.host.Pane())
	end := pos.Add(geo.Pt(float64(sw), float64(sh)).Mul(ct.Scale))
	dst := image.Rect(
		int(math.Round(pos.X)), int(math.Round(pos.Y)),
		int(math.Round(end.X)), int(math.Round(end.Y)),
	)
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	if !dst.Overlaps(canvas.Rect) {
		return canvas
	}
	src := s.View()
	xdraw.NearestNeighbor.Scale(canvas, dst, src, src.Bounds(), xdraw.Over, nil)
	return canvas
}

// drawTileGrid outlines the web map tiles around the view center at the
// current integer zoom.
func (m Model) drawTileGrid(br *brailleBuf) {
	c := m.host.Tile()
	n := int64(1) << uint(c.Z)
	for dy := int64(-2); dy <= 2; dy++ {
		for dx := int64(-2); dx <= 2; dx++ {
			x, y := int64(c.X)+dx, int64(c.Y)+dy
			if x < 0 || y < 0 || x >= n || y >= n {
				continue
			}
			b := maptile.New(uint32(x), uint32(y), c.Z).Bound()
			nw, err1 := m.host.LatLngToContainer(geo.LatLng{Lat: b.Max.Lat(), Lng: b.Min.Lon()})
			se, err2 := m.host.LatLngToContainer(geo.LatLng{Lat: b.Min.Lat(), Lng: b.Max.Lon()})
			if err1 != nil || err2 != nil {
				continue
			}
			x0, y0 := int(math.Round(nw.X)), int(math.Round(nw.Y))
			x1, y1 := int(math.Round(se.X)), int(math.Round(se.Y))
			br.drawLineMicro(x0, y0, x1, y0, gridColor)
			br.drawLineMicro(x0, y0, x0, y1, gridColor)
		}
	}
}
