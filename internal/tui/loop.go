package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"geooverlay/internal/overlay"
	"geooverlay/internal/slippy"
)

const frameInterval = time.Second / 30

// taskMsg means work was posted to the map from another goroutine.
type taskMsg struct{}

// frameMsg drives the map's animation and frame callbacks.
type frameMsg struct{}

type attachedMsg struct {
	err error
}

func waitTasks(h *slippy.Map) tea.Cmd {
	return func() tea.Msg {
		<-h.Tasks()
		return taskMsg{}
	}
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

// attach binds the overlay once the map has a real size. The result arrives
// as an attachedMsg; background surface builds finish through the task queue.
func (m *Model) attach() tea.Cmd {
	if m.attached {
		return nil
	}
	m.attached = true
	fut := m.ov.Attach(m.ctx, m.host)
	ctx := m.ctx
	return func() tea.Msg {
		_, err := fut.Await(ctx)
		return attachedMsg{err: err}
	}
}

// schedule starts the frame ticker when the map has animation or frame work
// and no tick is already pending.
func (m *Model) schedule() tea.Cmd {
	if m.ticking || !m.host.Busy() {
		return nil
	}
	m.ticking = true
	return frameTick()
}

func (m *Model) onFrame() tea.Cmd {
	m.ticking = false
	m.host.Tick()
	return m.schedule()
}

func (m *Model) onTask() tea.Cmd {
	if n := m.host.Drain(); n > 0 {
		overlay.Logger().Debug("tui: drained map tasks", "n", n)
	}
	m.noteOverlayState(nil)
	return tea.Batch(waitTasks(m.host), m.schedule())
}

// noteOverlayState puts the overlay lifecycle into the status line. The
// attach result can be a failure that a fallback renderer later recovers
// from, so the live state wins over err.
func (m *Model) noteOverlayState(err error) {
	st := m.ov.LifecycleState()
	switch {
	case st == overlay.Ready && (m.ovState != overlay.Ready || err != nil):
		m.status = fmt.Sprintf("overlay ready  reference zoom %g", m.ov.ProjectionContext().ReferenceZoom)
	case err != nil:
		m.status = "overlay: " + err.Error()
	}
	m.ovState = st
}
