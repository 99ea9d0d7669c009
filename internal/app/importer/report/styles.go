package report

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent  = lipgloss.Color("#8BC34A")
	colorWarning = lipgloss.Color("#FFC107")
	colorDanger  = lipgloss.Color("#e53935")
	colorMuted   = lipgloss.Color("#6b7280")
)

// Styles holds the lipgloss styles used by the reporter.
type Styles struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Header lipgloss.Style
	Cell   lipgloss.Style
	Muted  lipgloss.Style
	Warn   lipgloss.Style
	Error  lipgloss.Style
}

// newStyles builds styles bound to r, so color output follows the
// capabilities of the writer r was created for.
func newStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Title:  r.NewStyle().Bold(true).Foreground(colorAccent),
		Label:  r.NewStyle().Bold(true),
		Header: r.NewStyle().Bold(true).Padding(0, 1),
		Cell:   r.NewStyle().Padding(0, 1),
		Muted:  r.NewStyle().Foreground(colorMuted),
		Warn:   r.NewStyle().Foreground(colorWarning),
		Error:  r.NewStyle().Foreground(colorDanger),
	}
}
