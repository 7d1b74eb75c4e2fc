package tui

import (
	"context"
	"os"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"geooverlay/internal/config"
	"geooverlay/internal/features"
	"geooverlay/internal/overlay"
	"geooverlay/internal/render"
	"geooverlay/internal/slippy"
)

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool
	showGrid    bool

	status string

	// map, overlay and what it draws
	ctx     context.Context
	cancel  context.CancelFunc
	host    *slippy.Map
	ov      *overlay.Overlay
	painter *features.Painter
	// attached is set once Attach has been called
	attached bool
	ticking  bool
	// ovState is the lifecycle state last shown in the status line
	ovState overlay.LifecycleState

	// File explorer
	cwd     string
	l       list.Model
	selPath string

	data *features.Data

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// inspect popup
	inspectPopup string

	// hover state
	hovering       bool
	hoverMicX      int
	hoverMicY      int
	hoverHasVertex bool
	hoverHasGeo    bool
	hoverLon       float64
	hoverLat       float64

	// drag panning
	dragging bool
	dragX    int
	dragY    int

	// attributes table
	showAttrs bool
	tbl       table.Model
}

func New(cfg config.Config) Model {
	m := Model{
		showSidebar: false,
		helpVisible: true,
		status:      "geooverlay ready",
	}
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.host = slippy.New(cfg.MapOptions(m.hostSize()))
	m.painter = features.NewPainter(nil)
	m.ov = overlay.New(render.NewFactory(cfg.RenderOptions()), m.painter.Draw, nil, cfg.OverlayOptions()...)
	m.host.On(m.ov.OnHostEvent)

	m.cwd, _ = os.Getwd()
	// list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// textarea setup
	m.ta = textarea.New()
	m.ta.Placeholder = "Paste WKT here, one geometry per line. Press Enter to render; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	// attributes table setup (columns will be inferred per dataset)
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()
	return m
}

// NewWithPath preloads a file's data at launch.
func NewWithPath(cfg config.Config, path string) Model {
	m := New(cfg)
	m.loadPath(path)
	return m
}

func (m Model) Init() tea.Cmd { return waitTasks(m.host) }

// Host returns the map the overlay is attached to.
func (m Model) Host() *slippy.Map { return m.host }

// Overlay returns the feature overlay.
func (m Model) Overlay() *overlay.Overlay { return m.ov }

// Close releases the overlay surfaces and stops pending surface builds.
func (m Model) Close() {
	m.ov.Destroy()
	m.cancel()
}
