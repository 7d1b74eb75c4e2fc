package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	_, _, mapWidth, mapHeight := m.layout()
	contentWidth := max(10, m.width)

	// Header
	header := titleStyle.Render(" geooverlay ─ terminal map overlay ")
	header = lipgloss.NewStyle().Width(contentWidth).Padding(0).Render(header)

	// Sidebar
	var sidebar string
	if m.showSidebar {
		sidebar = lipgloss.NewStyle().Width(sidebarWidth).Render(m.l.View())
	}

	var mapView string
	switch {
	case m.showAttrs:
		// Render attributes table centered in the map area
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		if colW == 0 {
			colW = min(60, contentWidth-6)
		}
		maxW := min(mapWidth, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(mapHeight-2, 20))
		attrsBox := boxStyle.Width(maxW).Render(m.tbl.View())
		mapView = lipgloss.Place(mapWidth, mapHeight, lipgloss.Center, lipgloss.Center, attrsBox)
	case m.pasteMode:
		// size textarea to map area
		m.ta.SetWidth(mapWidth)
		m.ta.SetHeight(min(mapHeight, 12))
		mapView = lipgloss.NewStyle().Width(mapWidth).Height(mapHeight).Render(m.ta.View())
	default:
		// plain map canvas: no border, no background highlight
		canvas := m.renderMap(mapWidth, mapHeight)
		if m.inspectPopup != "" {
			maxPopupW := max(20, min(48, mapWidth/2))
			box := popupStyle.MaxWidth(maxPopupW).Render(m.inspectPopup)
			canvas = placeOver(canvas, box, 1, max(0, (mapHeight-lipgloss.Height(box))/2))
		}
		mapView = lipgloss.NewStyle().Width(mapWidth).Height(mapHeight).Render(canvas)
	}

	// Body row
	body := mapView
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", mapView)
	}

	// Footer / help
	help := m.renderHelp()
	status := dimStyle.Render(" " + m.status + " ")
	// map readout and mouse coords at bottom-right
	st := m.ov.LifecycleState()
	coords := dimStyle.Render("  "+m.host.String()+"  ") + stateStyle(st).Render(st.String()) +
		"  " + layerBadges(m.painter.Layers) + " "
	if m.hoverHasGeo && m.hovering {
		coords = dimStyle.Render(fmt.Sprintf("  lon=%.5f lat=%.5f", m.hoverLon, m.hoverLat)) + coords
	}
	line1 := lipgloss.NewStyle().Width(contentWidth).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, status,
		lipgloss.PlaceHorizontal(max(0, contentWidth-lipgloss.Width(status)), lipgloss.Right, coords)))
	footer := lipgloss.JoinVertical(lipgloss.Left, line1, lipgloss.NewStyle().Width(contentWidth).Render(help))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(contentWidth).Height(m.height).Render(ui)
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"↑↓←→ pan",
		"+/- zoom",
		"Tab sidebar",
		"Enter open",
		"p paste",
		"a attrs",
		"i inspect",
		"1/2/3/l layers",
		"f fit",
		"g tiles",
		"s snapshot",
		"h help",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
