package view

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/nikbrunner/linkshelf/internal/layout"
	"github.com/nikbrunner/linkshelf/internal/model"
)

// TermStyles holds the lipgloss styles for terminal fragments.
type TermStyles struct {
	Header       lipgloss.Style
	Item         lipgloss.Style
	ItemSelected lipgloss.Style
	URL          lipgloss.Style
	Description  lipgloss.Style
	Tag          lipgloss.Style
	TagSelected  lipgloss.Style
	Section      lipgloss.Style
	Empty        lipgloss.Style
	FormLabel    lipgloss.Style
	Back         lipgloss.Style
}

// DefaultTermStyles returns the default terminal palette:
// grayscale with a single desaturated teal accent.
func DefaultTermStyles() TermStyles {
	primary := lipgloss.AdaptiveColor{Light: "#505050", Dark: "#A0A0A0"}
	subtle := lipgloss.AdaptiveColor{Light: "#888888", Dark: "#606060"}
	accent := lipgloss.AdaptiveColor{Light: "#4A7070", Dark: "#5F8787"}

	return TermStyles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),

		Item: lipgloss.NewStyle().
			Foreground(primary).
			PaddingLeft(1),

		ItemSelected: lipgloss.NewStyle().
			PaddingLeft(1).
			Background(accent).
			Foreground(lipgloss.Color("#1A1A1A")),

		URL: lipgloss.NewStyle().
			Foreground(subtle).
			PaddingLeft(3),

		Description: lipgloss.NewStyle().
			Foreground(subtle).
			Italic(true).
			PaddingLeft(3),

		Tag: lipgloss.NewStyle().
			Foreground(subtle),

		TagSelected: lipgloss.NewStyle().
			Background(accent).
			Foreground(lipgloss.Color("#1A1A1A")),

		Section: lipgloss.NewStyle().
			Foreground(subtle),

		Empty: lipgloss.NewStyle().
			Foreground(subtle).
			PaddingLeft(1),

		FormLabel: lipgloss.NewStyle().
			Foreground(subtle),

		Back: lipgloss.NewStyle().
			Foreground(accent).
			Underline(true),
	}
}

// TermTemplates renders fragments for a terminal. Views may render from
// any goroutine, so the hooks must be safe for concurrent use.
type TermTemplates struct {
	Styles TermStyles
	Text   layout.TextConfig

	// Optional hooks used by an interactive front end to mark its cursor.
	SelectedLink func(model.Link) bool
	SelectedTag  func(string) bool

	mu    sync.RWMutex
	width int
}

// NewTermTemplates creates terminal templates with default styles.
func NewTermTemplates() *TermTemplates {
	return &TermTemplates{
		Styles: DefaultTermStyles(),
		Text:   layout.DefaultConfig().Text,
	}
}

func (t *TermTemplates) CountHeader(count int) Fragment {
	noun := "links"
	if count == 1 {
		noun = "link"
	}
	return Fragment(t.Styles.Header.Render(fmt.Sprintf("%d %s", count, noun)))
}

func (t *TermTemplates) LinkItem(link model.Link) Fragment {
	style := t.Styles.Item
	cursor := "  "
	if t.SelectedLink != nil && t.SelectedLink(link) {
		style = t.Styles.ItemSelected
		cursor = "> "
	}

	lines := []string{style.Render(cursor + t.truncate(link.Title, 3))}
	lines = append(lines, t.Styles.URL.Render(t.truncate(link.URL, 3)))
	if link.Description != "" {
		lines = append(lines, t.Styles.Description.Render(t.truncate(link.Description, 3)))
	}
	if len(link.Tags) > 0 {
		tags := make([]string, len(link.Tags))
		for i, tag := range link.Tags {
			tags[i] = "#" + tag
		}
		lines = append(lines, t.Styles.URL.Render(t.Styles.Tag.Render(t.truncate(strings.Join(tags, " "), 3))))
	}
	return Fragment(strings.Join(lines, "\n"))
}

func (t *TermTemplates) LinkList(items []Fragment) Fragment {
	if len(items) == 0 {
		return Fragment(t.Styles.Empty.Render("(no links)"))
	}
	return joinFragments(items, "\n")
}

func (t *TermTemplates) TagEntry(tag string) Fragment {
	style := t.Styles.Tag
	if t.SelectedTag != nil && t.SelectedTag(tag) {
		style = t.Styles.TagSelected
	}
	return Fragment(style.Render("#" + tag))
}

func (t *TermTemplates) TagIndex(entries []Fragment) Fragment {
	heading := t.Styles.Section.Render("── Tags ──")
	if len(entries) == 0 {
		return Fragment(heading + "\n" + t.Styles.Empty.Render("(no tags)"))
	}
	return Fragment(heading + "\n" + string(joinFragments(entries, " ")))
}

func (t *TermTemplates) NewLinkForm(values FormValues) Fragment {
	rows := []struct{ label, value string }{
		{"Title", values.Title},
		{"URL", values.URL},
		{"Description", values.Description},
		{"Tags", values.Tags},
	}
	lines := []string{t.Styles.Section.Render("── New link ──")}
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%s %s", t.Styles.FormLabel.Render(fmt.Sprintf("%-12s", r.label+":")), r.value))
	}
	return Fragment(strings.Join(lines, "\n"))
}

func (t *TermTemplates) BackLink() Fragment {
	return Fragment(t.Styles.Back.Render("BACK"))
}

// SetWidth sets the max visible width of a line; 0 means unlimited.
func (t *TermTemplates) SetWidth(width int) {
	t.mu.Lock()
	t.width = width
	t.mu.Unlock()
}

// truncate shortens text to the configured width minus indent.
func (t *TermTemplates) truncate(text string, indent int) string {
	t.mu.RLock()
	width := t.width
	t.mu.RUnlock()

	if width <= 0 {
		return text
	}
	truncated, _ := layout.TruncateText(text, width-indent, t.Text)
	return truncated
}

func joinFragments(fragments []Fragment, sep string) Fragment {
	parts := make([]string, len(fragments))
	for i, f := range fragments {
		parts[i] = string(f)
	}
	return Fragment(strings.Join(parts, sep))
}
