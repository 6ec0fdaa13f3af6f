package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Align controls cell padding within a column
type Align int

const (
	AlignLeft Align = iota
	AlignRight
	AlignCenter
)

// TableColumn represents a column in the table
type TableColumn struct {
	Header string
	Width  int // minimum width
	Align  Align
}

// Table renders rows of plain cells with a styled header.
// Cells may contain styled text; widths are measured with lipgloss.Width.
type Table struct {
	Columns []TableColumn
	Rows    [][]string
}

// NewTable creates a new table with specified columns
func NewTable(columns ...TableColumn) *Table {
	return &Table{Columns: columns}
}

// AddRow adds a row to the table. Missing cells render empty.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

func (t *Table) widths() []int {
	widths := make([]int, len(t.Columns))
	for i, col := range t.Columns {
		widths[i] = max(col.Width, lipgloss.Width(col.Header))
	}
	for _, row := range t.Rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}
	return widths
}

// Render renders the table as a string
func (t *Table) Render() string {
	if len(t.Columns) == 0 {
		return ""
	}

	widths := t.widths()
	var b strings.Builder

	header := make([]string, len(t.Columns))
	rule := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = pad(col.Header, widths[i], AlignLeft)
		rule[i] = strings.Repeat("─", widths[i])
	}
	b.WriteString(StyleTableHeader.Render(strings.Join(header, "  ")) + "\n")
	b.WriteString(StyleTableBorder.Render(strings.Join(rule, "  ")) + "\n")

	for idx, row := range t.Rows {
		cells := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			cells[i] = pad(cell, widths[i], col.Align)
		}

		// Alternate row styles
		style := StyleTableRow
		if idx%2 == 1 {
			style = StyleTableRowAlt
		}
		b.WriteString(style.Render(strings.Join(cells, "  ")) + "\n")
	}

	return b.String()
}

// pad pads s to width display cells
func pad(s string, width int, align Align) string {
	padding := width - lipgloss.Width(s)
	if padding <= 0 {
		return s
	}

	switch align {
	case AlignRight:
		return strings.Repeat(" ", padding) + s
	case AlignCenter:
		left := padding / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", padding-left)
	default:
		return s + strings.Repeat(" ", padding)
	}
}

// RenderSimpleList renders a simple bulleted list
func RenderSimpleList(items []string) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString(StyleInfo.Render("  • "))
		b.WriteString(item)
		b.WriteString("\n")
	}
	return b.String()
}

// RenderKeyValue renders a key-value pair
func RenderKeyValue(key, value string) string {
	return fmt.Sprintf("%s: %s", StyleAccent.Render(key), value)
}

// Plural picks the singular or plural noun for n ("time" / "times").
// Only counts above one are plural, so 0 reads "0 time".
func Plural(n int, singular, plural string) string {
	if n > 1 {
		return plural
	}
	return singular
}
