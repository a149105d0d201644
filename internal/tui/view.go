package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nikbrunner/linkshelf/internal/layout"
	"github.com/nikbrunner/linkshelf/internal/router"
)

// Positions of the router's page elements.
const (
	pageHeader = iota
	pageList
	pageTags
	pageForm
	pageBack
)

// renderView shows the page: count header, link list beside the tag
// index, the back link on tag routes, then the help bar.
func (a App) renderView() string {
	if a.mode != ModeBrowse {
		return a.renderModal()
	}

	page := a.router.Page().Fragments()
	paneHeight := layout.CalculatePaneHeight(a.height, a.layout.Pane)
	widths := layout.CalculatePaneWidths(a.width, a.layout.Pane)

	var header, columns, back string
	if len(page) <= pageForm {
		// Nothing rendered before the first navigation completes.
		header = a.styles.Title.Render("linkshelf")
		columns = a.styles.Pane.
			Width(a.width - a.layout.Pane.AppPadding - 2).
			Height(paneHeight).
			Render(a.styles.Empty.Render("loading..."))
	} else {
		header = string(page[pageHeader]) + a.styles.Route.Render(a.routeLabel())
		columns = lipgloss.JoinHorizontal(
			lipgloss.Top,
			a.renderListPane(string(page[pageList]), widths.ListWidth, paneHeight),
			a.renderTagPane(string(page[pageTags]), widths.TagWidth, paneHeight),
		)
		if len(page) > pageBack {
			back = " " + string(page[pageBack])
		}
	}

	content := a.styles.App.Render(
		lipgloss.JoinVertical(lipgloss.Left, header, columns, back, a.renderHelpBar()),
	)

	// Use Place to ensure exact terminal dimensions and prevent overflow
	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top, content)
}

func (a App) routeLabel() string {
	route := a.router.Route()
	if route.Kind == router.FilteredByTag {
		return "#" + route.Tag
	}
	return "all links"
}

// renderListPane shows the window of the list fragment that holds the
// selected item.
func (a App) renderListPane(list string, width, height int) string {
	lines := strings.Split(list, "\n")
	start := a.listOffset
	if start > len(lines) {
		start = len(lines)
	}
	end := start + height
	if end > len(lines) {
		end = len(lines)
	}

	return a.paneStyle(FocusList).
		Width(width - 2).
		Height(height).
		Render(strings.Join(lines[start:end], "\n"))
}

// renderTagPane wraps the tag index to the pane and cuts it at height.
func (a App) renderTagPane(tags string, width, height int) string {
	inner := layout.CalculateItemWidth(width, a.layout.Pane)
	wrapped := strings.Split(lipgloss.NewStyle().Width(inner).Render(tags), "\n")
	if len(wrapped) > height {
		wrapped = wrapped[:height]
	}

	return a.paneStyle(FocusTags).
		Width(width - 2).
		Height(height).
		Render(strings.Join(wrapped, "\n"))
}

// paneStyle highlights the border of the focused pane.
func (a App) paneStyle(pane Focus) lipgloss.Style {
	if a.focus == pane {
		return a.styles.PaneActive
	}
	return a.styles.Pane
}

// renderModal renders the add form or the delete confirmation centered
// on screen.
func (a App) renderModal() string {
	var content strings.Builder

	switch a.mode {
	case ModeAdd:
		content.WriteString(a.styles.Title.Render("Add Link") + "\n\n")
		labels := [fieldCount]string{
			fieldTitle:       "Title:",
			fieldURL:         "URL:",
			fieldDescription: "Description:",
			fieldTags:        "Tags (space-separated):",
		}
		for i, label := range labels {
			if i > 0 {
				content.WriteString("\n\n")
			}
			content.WriteString(a.styles.Label.Render(label) + "\n")
			content.WriteString(a.form.Inputs[i].View())
		}
		content.WriteString("\n\n")
		content.WriteString(a.renderHintsInline([]Hint{
			{Key: "Tab", Desc: "next"},
			{Key: "Enter", Desc: "save"},
			{Key: "Esc", Desc: "cancel"},
		}))

	case ModeConfirmDelete:
		link := a.pendingDelete
		maxWidth := layout.CalculateModalWidth(a.width, a.layout.Modal) - 6
		title, _ := layout.TruncateText(link.Title, maxWidth, a.layout.Text)
		url, _ := layout.TruncateText(link.URL, maxWidth, a.layout.Text)

		content.WriteString(a.styles.Title.Render("Delete link?") + "\n\n")
		content.WriteString(title + "\n")
		content.WriteString(a.styles.Help.Render(url) + "\n\n")
		content.WriteString(a.renderHintsInline([]Hint{
			{Key: "y/Enter", Desc: "confirm"},
			{Key: "n/Esc", Desc: "cancel"},
		}))
	}

	modal := a.styles.Modal.
		Width(layout.CalculateModalWidth(a.width, a.layout.Modal)).
		Render(content.String())

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, modal)
}

// renderHelpBar renders a spacer, the message line and the key hints.
func (a App) renderHelpBar() string {
	message := a.message
	if a.loading {
		message = "loading..."
	}

	lines := []string{
		"",
		a.styles.Message.Render(message),
		a.renderHints(a.contextualHints()),
	}
	return strings.Join(lines, "\n")
}
