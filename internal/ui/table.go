package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// columnGap separates borderless table columns.
const columnGap = "  "

// Table lays out rows in left-aligned columns without borders, measuring
// cells by visible width so styled text lines up.
type Table struct {
	rows   [][]string
	widths []int
	styles map[int]lipgloss.Style
}

// NewTable returns an empty table of cols columns.
func NewTable(cols int) *Table {
	return &Table{widths: make([]int, cols), styles: map[int]lipgloss.Style{}}
}

// StyleColumn renders every cell of column col with style, after padding.
func (t *Table) StyleColumn(col int, style lipgloss.Style) {
	t.styles[col] = style
}

// AddRow appends a row. Extra cells are dropped and missing ones are blank.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.widths))
	copy(row, cells)
	for i, cell := range row {
		t.widths[i] = max(t.widths[i], lipgloss.Width(cell))
	}
	t.rows = append(t.rows, row)
}

func (t *Table) String() string {
	var sb strings.Builder
	last := len(t.widths) - 1
	for _, row := range t.rows {
		for i, cell := range row {
			if i > 0 {
				sb.WriteString(columnGap)
			}
			if i < last {
				cell += strings.Repeat(" ", t.widths[i]-lipgloss.Width(cell))
			}
			if style, ok := t.styles[i]; ok {
				cell = style.Render(cell)
			}
			sb.WriteString(cell)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
