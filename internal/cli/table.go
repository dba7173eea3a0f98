package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/aneurisk/internal/table"
)

// FloatPrecision is the number of decimals shown for float cells.
const FloatPrecision = 3

// Cell formats one value for display. Missing values render as "-".
func Cell(v table.Value) string {
	if v.IsMissing() {
		return "-"
	}
	if f, ok := v.AsFloat(); ok && v.Kind() == table.KindFloat {
		return strconv.FormatFloat(f, 'f', FloatPrecision, 64)
	}
	return v.Text()
}

// RenderTable lays out t as aligned columns. A positive limit caps the
// number of rows shown and notes how many were left out.
func RenderTable(t *table.Table, limit int) string {
	names := t.Names()
	rows := t.Len()
	if limit > 0 && rows > limit {
		rows = limit
	}

	widths := make([]int, len(names))
	cells := make([][]string, rows)
	for j, name := range names {
		widths[j] = lipgloss.Width(name)
	}
	for i := 0; i < rows; i++ {
		r := t.Row(i)
		cells[i] = make([]string, len(names))
		for j, name := range names {
			cells[i][j] = Cell(r.Value(name))
			widths[j] = max(widths[j], lipgloss.Width(cells[i][j]))
		}
	}

	var b strings.Builder
	header := make([]string, len(names))
	for j, name := range names {
		header[j] = TableCellStyle.Width(widths[j] + 2).Render(name)
	}
	b.WriteString(TableHeaderStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, header...)))
	b.WriteString("\n")

	for _, row := range cells {
		line := make([]string, len(row))
		for j, c := range row {
			line[j] = TableCellStyle.Width(widths[j] + 2).Render(c)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, line...))
		b.WriteString("\n")
	}

	if hidden := t.Len() - rows; hidden > 0 {
		b.WriteString(SubtleStyle.Render(fmt.Sprintf("… %d more row(s)", hidden)))
		b.WriteString("\n")
	}
	return b.String()
}
