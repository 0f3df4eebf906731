package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used by the form.
type Styles struct {
	Title   lipgloss.Style
	Intro   lipgloss.Style
	Label   lipgloss.Style
	Focused lipgloss.Style
	Error   lipgloss.Style
	Help    lipgloss.Style
	Button  lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4")).
			MarginBottom(1),
		Intro: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8A8A8")),
		Label: lipgloss.NewStyle().
			Width(22),
		Focused: lipgloss.NewStyle().
			Width(22).
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4")),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F")),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			MarginTop(1),
		Button: lipgloss.NewStyle().
			Padding(0, 2).
			Background(lipgloss.Color("#7D56F4")).
			Foreground(lipgloss.Color("#FFFFFF")),
	}
}
