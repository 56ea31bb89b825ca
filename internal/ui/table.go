package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Table renders rows aligned in columns without borders.
type Table struct {
	headers []string
	rows    [][]string
	width   int
}

// NewTable creates a table with the given column headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers}
}

// SetWidth caps the rendered width. Zero means unlimited.
func (t *Table) SetWidth(width int) {
	t.width = width
}

// AddRow adds a row; missing cells render empty.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// String renders the table.
func (t *Table) String() string {
	if len(t.rows) == 0 {
		return ""
	}
	cell := lipgloss.NewStyle().PaddingRight(2)
	tbl := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderHeader(false).
		Headers(t.headers...).
		Rows(t.rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return cell.Inherit(Muted)
			}
			return cell
		})
	if t.width > 0 {
		tbl = tbl.Width(t.width)
	}
	return tbl.Render() + "\n"
}
