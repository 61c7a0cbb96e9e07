package ui

import (
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// CardRow is one line of a card list.
type CardRow struct {
	Site     string
	Username string
	Updated  time.Time

	// Current marks the card on display in a browse session.
	Current bool
}

// listColumn sizes one column of a card list. Columns with a zero share
// are fixed at min; the rest split what remains by share.
type listColumn struct {
	share    float64
	min, max int
	align    lipgloss.Position
	style    lipgloss.Style
}

const (
	colNum = iota
	colSite
	colUsername
	colUpdated
)

const (
	listIndent        = 2
	listColumnPad     = 2
	dateLayout        = "2006-01-02"
	noSitePlaceholder = "(no site)"
)

func listColumns() []listColumn {
	return []listColumn{
		colNum:      {min: 5, max: 7, align: lipgloss.Right, style: Muted},
		colSite:     {share: 0.55, min: 16, max: 60, align: lipgloss.Left, style: lipgloss.NewStyle()},
		colUsername: {share: 0.45, min: 10, max: 40, align: lipgloss.Left, style: Muted},
		colUpdated:  {min: len(dateLayout), max: len(dateLayout), align: lipgloss.Left, style: Muted},
	}
}

// columnWidths fits cols into width.
func columnWidths(width int, cols []listColumn) []int {
	widths := make([]int, len(cols))
	flexible := width - listIndent - (len(cols)-1)*listColumnPad
	var shares float64
	for i, c := range cols {
		if c.share == 0 {
			widths[i] = c.min
			flexible -= c.min
		} else {
			shares += c.share
		}
	}
	flexible = max(flexible, 0)
	for i, c := range cols {
		if c.share == 0 {
			continue
		}
		w := int(float64(flexible) * c.share / shares)
		widths[i] = min(max(w, c.min), c.max)
	}
	return widths
}

// RenderCardList renders rows as a numbered list sized to the display. The
// current row is marked with "›".
func RenderCardList(display *DisplayContext, rows []CardRow) string {
	if len(rows) == 0 {
		return ""
	}
	cols := listColumns()
	widths := columnWidths(display.TermWidth, cols)

	cells := make([][]string, len(rows))
	for i, r := range rows {
		num := RowNumber(i+1, len(rows))
		if r.Current {
			num = "›" + num
		}
		site := r.Site
		if site == "" {
			site = noSitePlaceholder
		}
		updated := ""
		if !r.Updated.IsZero() {
			updated = r.Updated.Local().Format(dateLayout)
		}
		cells[i] = []string{
			colNum:      num,
			colSite:     Truncate(site, widths[colSite]),
			colUsername: Truncate(r.Username, widths[colUsername]),
			colUpdated:  updated,
		}
	}

	return table.New().
		Border(lipgloss.Border{Middle: "─", Top: "─", Bottom: "─"}).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderRow(true).
		BorderStyle(Muted).
		StyleFunc(func(_, col int) lipgloss.Style {
			c := cols[col]
			style := c.style.Width(widths[col]).Align(c.align)
			if col < len(cols)-1 {
				style = style.PaddingRight(listColumnPad)
			}
			return style
		}).
		Rows(cells...).
		Render()
}

// Truncate shortens s to at most n runes, ending in "…" when cut.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 1 {
		return string(runes[:max(n, 0)])
	}
	return string(runes[:n-1]) + "…"
}

// RowNumber right-aligns num to the width of count, at least two digits.
func RowNumber(num, count int) string {
	s := strconv.Itoa(num)
	width := max(len(strconv.Itoa(count)), 2)
	for len(s) < width {
		s = " " + s
	}
	return s
}
