package tui

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// brailleBuf packs 2x4 micro-pixels into each terminal cell and keeps one
// color per cell: the last one set wins.
type brailleBuf struct {
	w, h int            // in cells
	m    [][]uint8      // per-cell 8-bit mask
	c    [][]color.RGBA // per-cell color
}

func newBrailleBuf(w, h int) *brailleBuf {
	m := make([][]uint8, h)
	c := make([][]color.RGBA, h)
	for i := range m {
		m[i] = make([]uint8, w)
		c[i] = make([]color.RGBA, w)
	}
	return &brailleBuf{w: w, h: h, m: m, c: c}
}

var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// setPixel sets a micro-pixel at micro coords (2x4 per cell)
func (b *brailleBuf) setPixel(mx, my int, col color.RGBA) {
	if mx < 0 || my < 0 {
		return
	}
	cx, cy := mx/2, my/4
	if cy >= b.h || cx >= b.w {
		return
	}
	b.m[cy][cx] |= brailleBits[mx%2][my%4]
	b.c[cy][cx] = col
}

// drawLineMicro draws a line on the microgrid using Bresenham
func (b *brailleBuf) drawLineMicro(x0, y0, x1, y1 int, col color.RGBA) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.setPixel(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// blit sets every micro-pixel of img whose alpha reaches threshold, colored
// with the average of the cell's covered pixels.
func (b *brailleBuf) blit(img *image.RGBA, threshold uint8) {
	for cy := 0; cy < b.h; cy++ {
		for cx := 0; cx < b.w; cx++ {
			var r, g, bl, n uint32
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					mx, my := cx*2+dx, cy*4+dy
					if !(image.Point{mx, my}.In(img.Rect)) {
						continue
					}
					px := img.RGBAAt(mx, my)
					if px.A < threshold {
						continue
					}
					b.m[cy][cx] |= brailleBits[dx][dy]
					r += unpremul(px.R, px.A)
					g += unpremul(px.G, px.A)
					bl += unpremul(px.B, px.A)
					n++
				}
			}
			if n > 0 {
				b.c[cy][cx] = color.RGBA{uint8(r / n), uint8(g / n), uint8(bl / n), 255}
			}
		}
	}
}

func unpremul(v, a uint8) uint32 {
	return min(255, uint32(v)*255/uint32(a))
}

func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B))
}

// toLines renders each row, styling runs of cells that share a color.
func (b *brailleBuf) toLines() []string {
	out := make([]string, b.h)
	for y := 0; y < b.h; y++ {
		var sb strings.Builder
		run := make([]rune, 0, b.w)
		var runCol color.RGBA
		lit := false
		flush := func() {
			if len(run) == 0 {
				return
			}
			if lit {
				sb.WriteString(lipgloss.NewStyle().Foreground(hexColor(runCol)).Render(string(run)))
			} else {
				sb.WriteString(string(run))
			}
			run = run[:0]
		}
		for x := 0; x < b.w; x++ {
			mask := b.m[y][x]
			on := mask != 0
			if on != lit || (on && b.c[y][x] != runCol) {
				flush()
				lit, runCol = on, b.c[y][x]
			}
			if on {
				run = append(run, rune(0x2800+int(mask)))
			} else {
				run = append(run, ' ')
			}
		}
		flush()
		out[y] = sb.String()
	}
	return out
}
