package output

import "github.com/charmbracelet/lipgloss"

// Status icons.
const (
	IconSuccess = "✓"
	IconFailed  = "✗"
	IconPending = "○"
)

// Styles holds the lipgloss styles used for terminal output.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	System  lipgloss.Style

	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style
	StatusPending lipgloss.Style
}

// DefaultStyles returns colored styles for terminals.
func DefaultStyles() *Styles {
	return &Styles{
		Header1: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).MarginBottom(1),
		Header2: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Bold:    lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		System:  lipgloss.NewStyle().Foreground(lipgloss.Color("13")),

		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).SetString(IconSuccess),
		StatusFailed:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")).SetString(IconFailed),
		StatusPending: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).SetString(IconPending),
	}
}

// PlainStyles returns styles that leave text unchanged.
func PlainStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Header1: plain,
		Header2: plain,
		Bold:    plain,
		Muted:   plain,
		Success: plain,
		Warning: plain,
		Error:   plain,
		System:  plain,

		StatusSuccess: plain.SetString(IconSuccess),
		StatusFailed:  plain.SetString(IconFailed),
		StatusPending: plain.SetString(IconPending),
	}
}

// StatusIcon returns the rendered icon for a status name.
func (s *Styles) StatusIcon(status string) string {
	switch status {
	case "success", "recorded", "ok":
		return s.StatusSuccess.String()
	case "failed", "error", "missing":
		return s.StatusFailed.String()
	default:
		return s.StatusPending.String()
	}
}
