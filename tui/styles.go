package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used by the product form. Obtain a
// baseline via DefaultStyles and adjust fields as needed.
type Styles struct {
	// Title styles the form heading.
	Title lipgloss.Style
	// FieldLabel styles the label above each input.
	FieldLabel lipgloss.Style
	// Error styles validation messages.
	Error lipgloss.Style
	// Help styles the keyboard-shortcut hints at the bottom.
	Help lipgloss.Style
	// Tag styles a confirmed color tag chip.
	Tag lipgloss.Style
	// FocusedControl styles the box around the focused input.
	FocusedControl lipgloss.Style
	// Control styles the box around unfocused inputs.
	Control lipgloss.Style
}

// DefaultStyles returns the built-in style set.
func DefaultStyles() Styles {
	return Styles{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62")),
		FieldLabel: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Error:      lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Help:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Tag: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1),
		FocusedControl: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1),
		Control: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1),
	}
}
