package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles for the TUI chrome. Link, tag and
// header fragments are styled by view.TermTemplates.
type Styles struct {
	App        lipgloss.Style
	Pane       lipgloss.Style
	PaneActive lipgloss.Style
	Modal      lipgloss.Style
	Title      lipgloss.Style
	Label      lipgloss.Style
	Route      lipgloss.Style
	Help       lipgloss.Style
	Empty      lipgloss.Style
	HintKey    lipgloss.Style // Key portion of hints (e.g., "Enter", "j/k")
	HintDesc   lipgloss.Style // Description portion of hints (e.g., "confirm", "move")
	Message    lipgloss.Style
}

// DefaultStyles returns the default style configuration.
// Industrial design: grayscale with single desaturated teal accent.
func DefaultStyles() Styles {
	primary := lipgloss.AdaptiveColor{Light: "#505050", Dark: "#A0A0A0"} // main text
	subtle := lipgloss.AdaptiveColor{Light: "#888888", Dark: "#606060"}  // secondary text
	accent := lipgloss.AdaptiveColor{Light: "#4A7070", Dark: "#5F8787"}  // desaturated teal
	border := lipgloss.AdaptiveColor{Light: "#888888", Dark: "#505050"}  // inactive borders

	return Styles{
		App: lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(2).
			PaddingRight(2),

		Pane: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(border).
			Padding(0, 1),

		PaneActive: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(accent).
			Padding(0, 1),

		Modal: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(accent).
			Padding(1, 2),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),

		Label: lipgloss.NewStyle().
			Foreground(primary),

		Route: lipgloss.NewStyle().
			Foreground(subtle).
			PaddingLeft(1),

		Help: lipgloss.NewStyle().
			Foreground(subtle),

		Empty: lipgloss.NewStyle().
			Foreground(subtle),

		HintKey: lipgloss.NewStyle().
			Foreground(accent),

		HintDesc: lipgloss.NewStyle().
			Foreground(subtle),

		Message: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),
	}
}
