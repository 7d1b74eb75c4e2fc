package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"geooverlay/internal/geo"
)

const (
	sidebarWidth = 28
	headerHeight = 1
	footerHeight = 2
)

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// layout returns the map area origin and size in cells.
func (m Model) layout() (x, y, w, h int) {
	sw := 0
	if m.showSidebar {
		sw = sidebarWidth + 1
	}
	contentHeight := max(4, m.height-headerHeight-footerHeight)
	contentWidth := max(10, m.width)
	w = max(10, contentWidth-sw-1)
	return sw, headerHeight, w, contentHeight
}

// hostSize is the map size in braille micro-pixels.
func (m Model) hostSize() geo.Point {
	_, _, w, h := m.layout()
	return geo.Pt(float64(w*2), float64(h*4))
}

// placeOver draws fg on top of bg with its top-left corner at cell (x, y).
func placeOver(bg, fg string, x, y int) string {
	rows := strings.Split(bg, "\n")
	for i, line := range strings.Split(fg, "\n") {
		r := y + i
		if r < 0 || r >= len(rows) {
			continue
		}
		left := ansi.Truncate(rows[r], x, "")
		if w := ansi.StringWidth(left); w < x {
			left += strings.Repeat(" ", x-w)
		}
		right := ansi.TruncateLeft(rows[r], x+ansi.StringWidth(line), "")
		rows[r] = left + line + right
	}
	return strings.Join(rows, "\n")
}
