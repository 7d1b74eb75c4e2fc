package tui

import (
	"fmt"
	"path/filepath"

	table "github.com/charmbracelet/bubbles/table"
)

// refreshAttrsFromCurrent rebuilds the table columns/rows from the current dataset
func (m *Model) refreshAttrsFromCurrent() {
	cols, rows := m.buildAttributes()
	// If there are no columns or rows, disable attributes view to avoid rendering panics
	if len(cols) == 0 || len(rows) == 0 {
		// Do not touch table internals here to avoid re-render during SetColumns
		m.showAttrs = false
		m.status = "no attributes for current dataset"
		return
	}
	// map to bubbles table columns/rows
	tcols := make([]table.Column, 0, len(cols)+1)
	tcols = append(tcols, table.Column{Title: "#", Width: 4})
	maxColW := 24
	for _, c := range cols {
		tcols = append(tcols, table.Column{Title: c, Width: min(len(c)+2, maxColW)})
	}
	colCount := len(tcols)
	trows := make([]table.Row, 0, len(rows))
	for i, r := range rows {
		cells := make([]string, 0, colCount)
		cells = append(cells, fmt.Sprintf("%d", i+1))
		cells = append(cells, r...)
		// Normalize each row to match the number of table columns
		if len(cells) < colCount {
			cells = append(cells, make([]string, colCount-len(cells))...)
		}
		trows = append(trows, table.Row(cells[:colCount]))
	}
	// Avoid transient mismatch: clear rows, set columns, then set rows
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
}

// buildAttributes returns the dataset's attribute table, or a one-row
// summary when the source format carries none.
func (m *Model) buildAttributes() ([]string, [][]string) {
	d := m.data
	if d == nil {
		return nil, nil
	}
	if len(d.Columns) > 0 && len(d.Rows) > 0 {
		return d.Columns, d.Rows
	}
	name := "<pasted>"
	if m.selPath != "" {
		name = filepath.Base(m.selPath)
	}
	pts, ls, polys := d.Counts()
	cols := []string{"name", "bbox", "points", "lines", "polygons"}
	vals := []string{
		name,
		fmt.Sprintf("[%.5f,%.5f,%.5f,%.5f]", d.BBox.MinX, d.BBox.MinY, d.BBox.MaxX, d.BBox.MaxY),
		fmt.Sprintf("%d", pts), fmt.Sprintf("%d", ls), fmt.Sprintf("%d", polys),
	}
	return cols, [][]string{vals}
}
