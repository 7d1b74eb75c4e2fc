package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"

	"geooverlay/internal/features"
	"geooverlay/internal/overlay"
)

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	var items []list.Item
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !features.Supported(name) {
			continue
		}
		items = append(items, fileItem{title: name, desc: strings.ToLower(filepath.Ext(name)), path: filepath.Join(m.cwd, name)})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.l.SetItems(items)
	if len(items) == 0 {
		m.status = "no supported files in current directory"
	}
}

// loadPath loads a supported file and shows it.
func (m *Model) loadPath(p string) {
	d, err := features.Load(p)
	if err != nil {
		m.status = "load error: " + err.Error()
		return
	}
	m.selPath = p
	m.setData(d)
	m.status = "loaded: " + filepath.Base(p) + "  " + countsText(d)
}

func countsText(d *features.Data) string {
	pts, ls, polys := d.Counts()
	return fmt.Sprintf("counts: pts=%d ls=%d poly=%d", pts, ls, polys)
}

// setData hands d to the painter through the overlay and fits the view to
// it. Before the overlay is ready the painter takes d directly.
func (m *Model) setData(d *features.Data) {
	m.data = d
	m.inspectPopup = ""
	if err := m.ov.Redraw(d); err != nil {
		if !errors.Is(err, overlay.ErrStateNotReady) {
			m.status = "redraw error: " + err.Error()
		}
		m.painter.SetData(d)
	}
	m.host.FitBounds(d.BBox)

	// If attributes are currently shown, verify availability for the new dataset
	if m.showAttrs {
		m.refreshAttrsFromCurrent()
	}
}
