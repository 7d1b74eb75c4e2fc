package tui

import (
	"github.com/charmbracelet/lipgloss"

	"geooverlay/internal/features"
	"geooverlay/internal/overlay"
)

// Styles
var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	borderCol = lipgloss.Color("#243141")
	readyFg   = lipgloss.Color("#10B981")
	busyFg    = lipgloss.Color("#F59E0B")
	failedFg  = lipgloss.Color("#EF4444")

	appStyle   = lipgloss.NewStyle().Foreground(baseFg)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	popupStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accentFg).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(baseDimFg)
	layerOn    = lipgloss.NewStyle().Foreground(baseFg).Bold(true)
)

// stateStyle colors the overlay lifecycle state in the footer.
func stateStyle(s overlay.LifecycleState) lipgloss.Style {
	switch s {
	case overlay.Ready:
		return lipgloss.NewStyle().Foreground(readyFg)
	case overlay.Initializing:
		return lipgloss.NewStyle().Foreground(busyFg)
	case overlay.Failed:
		return lipgloss.NewStyle().Foreground(failedFg)
	}
	return dimStyle
}

// layerBadges shows the toggled layers as "pts ls poly", dimming the hidden ones.
func layerBadges(ly features.Layers) string {
	badge := func(label string, on bool) string {
		if on {
			return layerOn.Render(label)
		}
		return dimStyle.Render(label)
	}
	return badge("pts", ly.Points) + " " + badge("ls", ly.Lines) + " " + badge("poly", ly.Polygons)
}
