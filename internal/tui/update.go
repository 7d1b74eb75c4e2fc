package tui

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"

	"geooverlay/internal/features"
	"geooverlay/internal/geo"
	"geooverlay/internal/overlay"
	"geooverlay/internal/render"
)

// pan step in micro-pixels: 4 cells across, 2 cells down
var panStep = geo.Pt(8, 8)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case taskMsg:
		return m, m.onTask()
	case frameMsg:
		return m, m.onFrame()
	case attachedMsg:
		m.noteOverlayState(msg.err)
		return m, m.schedule()
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		cmds = append(cmds, m.attach())
	case tea.KeyMsg:
		// If list is visible and filtering, send keys to list and ignore global commands
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.pasteMode {
			return m.updatePaste(msg)
		}
		if m.showAttrs {
			switch msg.String() {
			case "up", "down", "pgup", "pgdown", "home", "end":
				var cmd tea.Cmd
				m.tbl, cmd = m.tbl.Update(msg)
				return m, cmd
			}
		}
		if quit := m.updateKey(msg); quit {
			return m, tea.Quit
		}
	case tea.MouseMsg:
		m.updateMouse(msg)
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		cmds = append(cmds, cmd)
	}
	cmds = append(cmds, m.schedule())
	return m, tea.Batch(cmds...)
}

// resize fits the list and the map to the window.
func (m *Model) resize() {
	_, _, _, h := m.layout()
	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, h-2)
	}
	m.host.SetSize(m.hostSize())
}

func (m Model) updatePaste(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pasteMode = false
		m.ta.Blur()
		return m, nil
	case "enter":
		w := strings.TrimSpace(m.ta.Value())
		if w == "" {
			m.status = "paste: empty"
			return m, nil
		}
		d, err := features.ParseWKT(w)
		if err != nil {
			m.status = "wkt error: " + err.Error()
			return m, nil
		}
		m.selPath = ""
		m.setData(d)
		m.status = "rendered WKT  " + countsText(d)
		m.pasteMode = false
		m.ta.Blur()
		return m, m.schedule()
	}
	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd
}

// updateKey handles view mode keys and reports whether to quit.
func (m *Model) updateKey(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "ctrl+c", "q":
		m.Close()
		return true
	case "1":
		m.painter.Layers.Points = !m.painter.Layers.Points
		m.status = fmt.Sprintf("points: %v", m.painter.Layers.Points)
		m.redraw()
	case "2":
		m.painter.Layers.Lines = !m.painter.Layers.Lines
		m.status = fmt.Sprintf("lines: %v", m.painter.Layers.Lines)
		m.redraw()
	case "3":
		m.painter.Layers.Polygons = !m.painter.Layers.Polygons
		m.status = fmt.Sprintf("polys: %v", m.painter.Layers.Polygons)
		m.redraw()
	case "l":
		// toggle all layers
		ly := &m.painter.Layers
		all := ly.Points && ly.Lines && ly.Polygons
		ly.Points, ly.Lines, ly.Polygons = !all, !all, !all
		m.status = fmt.Sprintf("layers: pts=%v ls=%v poly=%v", ly.Points, ly.Lines, ly.Polygons)
		m.redraw()
	case "+", "=":
		m.host.ZoomBy(1)
		m.status = fmt.Sprintf("zoom: %g", m.host.TargetZoom())
	case "-", "_":
		m.host.ZoomBy(-1)
		m.status = fmt.Sprintf("zoom: %g", m.host.TargetZoom())
	case "tab":
		m.showSidebar = !m.showSidebar
		if m.showSidebar {
			m.refreshDir()
		}
		m.resize()
	case "p":
		m.pasteMode = true
		m.ta.SetValue("")
		m.status = "paste mode"
		m.ta.Focus()
	case "h":
		m.helpVisible = !m.helpVisible
	case "g":
		m.showGrid = !m.showGrid
	case "a":
		m.showAttrs = !m.showAttrs
		if m.showAttrs {
			m.refreshAttrsFromCurrent()
		}
	case "i":
		m.inspect()
	case "esc":
		m.inspectPopup = ""
	case "f":
		if m.data != nil {
			m.host.FitBounds(m.data.BBox)
		}
	case "s":
		m.snapshot()
	case "enter":
		if m.showSidebar {
			if it, ok := m.l.SelectedItem().(fileItem); ok {
				m.loadPath(it.path)
			}
		}
	case "up":
		if !m.showSidebar {
			m.host.PanBy(geo.Pt(0, -panStep.Y))
		}
	case "down":
		if !m.showSidebar {
			m.host.PanBy(geo.Pt(0, panStep.Y))
		}
	case "left":
		m.host.PanBy(geo.Pt(-panStep.X, 0))
	case "right":
		m.host.PanBy(geo.Pt(panStep.X, 0))
	}
	return false
}

func (m *Model) redraw() {
	if err := m.ov.Redraw(nil); err != nil && !errors.Is(err, overlay.ErrStateNotReady) {
		m.status = "redraw error: " + err.Error()
	}
}

func (m *Model) inspect() {
	if m.data == nil {
		m.inspectPopup = "no data loaded"
		m.status = m.inspectPopup
		return
	}
	at := m.host.Center()
	if m.hovering && m.hoverHasGeo {
		at = geo.LatLng{Lat: m.hoverLat, Lng: m.hoverLon}
	}
	p, dist, ok := m.data.Nearest(orb.Point{at.Lng, at.Lat})
	if !ok {
		m.inspectPopup = "no feature nearby"
		m.status = m.inspectPopup
		return
	}
	// build popup content
	name := filepath.Base(m.selPath)
	if m.selPath == "" {
		name = "<pasted>"
	}
	b := m.data.BBox
	t := m.host.Tile()
	meta := []string{
		fmt.Sprintf("name: %s", name),
		fmt.Sprintf("path: %s", m.selPath),
		fmt.Sprintf("bbox: [%.5f, %.5f, %.5f, %.5f]", b.MinX, b.MinY, b.MaxX, b.MaxY),
		countsText(m.data),
		fmt.Sprintf("nearest: lon=%.6f lat=%.6f", p.Lon(), p.Lat()),
		fmt.Sprintf("distance: %.0f m", dist),
		fmt.Sprintf("tile: %d/%d/%d", t.Z, t.X, t.Y),
		"crs: EPSG:4326 data, EPSG:3857 view",
	}
	m.inspectPopup = strings.Join(meta, "\n")
	m.status = "inspect popup"
}

func (m *Model) snapshot() {
	vs := m.ov.VisibleSurface()
	if vs == nil {
		m.status = "snapshot: overlay not ready"
		return
	}
	s, ok := render.AsSurface(vs.Renderer())
	if !ok {
		m.status = "snapshot: unsupported surface"
		return
	}
	name := filepath.Join(m.cwd, "geooverlay-"+time.Now().Format("20060102-150405")+".png")
	if err := s.SavePNG(name); err != nil {
		m.status = "snapshot error: " + err.Error()
		return
	}
	m.status = "saved " + filepath.Base(name)
}

func (m *Model) updateMouse(msg tea.MouseMsg) {
	// track hover over map area
	x0, y0, w, h := m.layout()
	cx, cy := msg.X-x0, msg.Y-y0
	inside := cx >= 0 && cx < w && cy >= 0 && cy < h

	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonWheelUp && inside:
		m.host.ZoomBy(1)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonWheelDown && inside:
		m.host.ZoomBy(-1)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && inside:
		m.dragging, m.dragX, m.dragY = true, msg.X, msg.Y
	case msg.Action == tea.MouseActionRelease:
		m.dragging = false
	case msg.Action == tea.MouseActionMotion && m.dragging:
		// the content follows the pointer
		m.host.PanBy(geo.Pt(float64(m.dragX-msg.X)*2, float64(m.dragY-msg.Y)*4))
		m.dragX, m.dragY = msg.X, msg.Y
	}

	m.hovering = inside
	if !inside {
		return
	}
	// center of the cell in micro-pixels
	ll, err := m.host.ContainerToLatLng(geo.Pt(float64(cx*2+1), float64(cy*4+2)))
	m.hoverHasGeo = err == nil
	if err != nil {
		return
	}
	m.hoverLon, m.hoverLat = ll.Lng, ll.Lat

	m.hoverHasVertex = false
	if m.data == nil {
		return
	}
	p, _, ok := m.data.Nearest(orb.Point{ll.Lng, ll.Lat})
	if !ok {
		return
	}
	c, err := m.host.LatLngToContainer(features.LatLng(p))
	if err != nil {
		return
	}
	m.hoverMicX, m.hoverMicY = int(math.Round(c.X)), int(math.Round(c.Y))
	m.hoverHasVertex = true
}
