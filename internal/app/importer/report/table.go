package report

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// table renders static rows with aligned columns.
type table struct {
	headers []string
	rows    [][]string
}

func newTable(headers ...string) *table {
	return &table{headers: headers}
}

func (t *table) addRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) view(s Styles) string {
	if len(t.rows) == 0 {
		return ""
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}
	// Width includes the one-cell padding on each side.
	for i := range widths {
		widths[i] += 2
	}

	sep := s.Muted.Render("|")
	var sb strings.Builder

	for i, h := range t.headers {
		sb.WriteString(s.Header.Width(widths[i]).Render(h))
		if i < len(t.headers)-1 {
			sb.WriteString(sep)
		}
	}
	sb.WriteString("\n")

	total := len(widths) - 1
	for _, w := range widths {
		total += w
	}
	sb.WriteString(s.Muted.Render(strings.Repeat("-", total)))
	sb.WriteString("\n")

	for _, row := range t.rows {
		for i := range widths {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			sb.WriteString(s.Cell.Width(widths[i]).Render(cell))
			if i < len(widths)-1 {
				sb.WriteString(sep)
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
