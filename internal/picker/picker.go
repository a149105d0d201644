package picker

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nikbrunner/linkshelf/internal/layout"
	"github.com/nikbrunner/linkshelf/internal/model"
	"github.com/nikbrunner/linkshelf/internal/search"
)

var (
	accent = lipgloss.AdaptiveColor{Light: "#4A7070", Dark: "#5F8787"}
	subtle = lipgloss.AdaptiveColor{Light: "#888888", Dark: "#606060"}

	selectedStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#505050", Dark: "#A0A0A0"})

	matchStyle = lipgloss.NewStyle().
			Foreground(accent).
			Underline(true)

	urlStyle = lipgloss.NewStyle().
			Foreground(subtle).
			Italic(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true).
			MarginBottom(1)
)

// Action is what the user chose to do with the selected result.
type Action int

const (
	ActionNone Action = iota
	ActionOpen
	ActionYank
)

// Picker is a simple TUI for selecting from search results.
type Picker struct {
	results []search.SearchResult
	query   string
	cursor  int
	action  Action
	layout  layout.LayoutConfig
	width   int
	height  int
}

// New creates a new Picker with the given search results.
func New(results []search.SearchResult, query string) Picker {
	return Picker{
		results: results,
		query:   query,
		layout:  layout.DefaultConfig(),
		width:   80,
		height:  24,
	}
}

// Init implements tea.Model.
func (p Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		return p, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			p.action = ActionNone
			return p, tea.Quit

		case tea.KeyEnter:
			if len(p.results) > 0 {
				p.action = ActionOpen
			}
			return p, tea.Quit

		case tea.KeyDown:
			p.moveDown()
			return p, nil

		case tea.KeyUp:
			p.moveUp()
			return p, nil
		}

		// Handle vim keys
		if msg.Type == tea.KeyRunes {
			switch string(msg.Runes) {
			case "j":
				p.moveDown()
				return p, nil
			case "k":
				p.moveUp()
				return p, nil
			case "Y":
				if len(p.results) > 0 {
					p.action = ActionYank
				}
				return p, tea.Quit
			case "q":
				p.action = ActionNone
				return p, tea.Quit
			}
		}
	}

	return p, nil
}

func (p *Picker) moveDown() {
	if p.cursor < len(p.results)-1 {
		p.cursor++
	}
}

func (p *Picker) moveUp() {
	if p.cursor > 0 {
		p.cursor--
	}
}

// View implements tea.Model.
func (p Picker) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("Search: %s (%d results)", p.query, len(p.results))))
	b.WriteString("\n")

	maxWidth := p.width - 4
	visible := layout.CalculatePickerVisible(p.height, p.layout.Picker)
	start, end := layout.CalculateVisibleListItems(visible, p.cursor, len(p.results))

	for i := start; i < end; i++ {
		result := p.results[i]
		cursor := "  "
		style := normalStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedStyle
		}

		title := highlight(result.Link.Title, result.MatchedIndexes, style)
		title = layout.TruncateANSIAware(title, maxWidth, p.layout.Text)

		url, _ := layout.TruncateText(result.Link.URL, maxWidth-1, p.layout.Text)
		if tags := formatTags(result.Link.Tags); tags != "" {
			url += "  " + tags
		}

		b.WriteString(fmt.Sprintf("%s%s\n", cursor, title))
		b.WriteString(fmt.Sprintf("   %s\n", urlStyle.Render(url)))
	}

	b.WriteString("\n")
	b.WriteString(urlStyle.Render("j/k: move  Enter: open  Y: copy URL  q/Esc: cancel"))

	return b.String()
}

// highlight renders title in style with the matched bytes emphasised.
func highlight(title string, matched []int, style lipgloss.Style) string {
	if len(matched) == 0 {
		return style.Render(title)
	}

	isMatch := make(map[int]bool, len(matched))
	for _, idx := range matched {
		isMatch[idx] = true
	}

	var b strings.Builder
	for i, r := range title {
		if isMatch[i] {
			b.WriteString(matchStyle.Render(string(r)))
		} else {
			b.WriteString(style.Render(string(r)))
		}
	}
	return b.String()
}

func formatTags(tags []string) string {
	parts := make([]string, 0, len(tags))
	for _, t := range tags {
		if t != "" {
			parts = append(parts, "#"+t)
		}
	}
	return strings.Join(parts, " ")
}

// Selected returns the chosen link and action. ok is false if the user
// cancelled or there were no results.
func (p Picker) Selected() (link model.Link, action Action, ok bool) {
	if p.action == ActionNone || p.cursor >= len(p.results) {
		return model.Link{}, ActionNone, false
	}
	return p.results[p.cursor].Link, p.action, true
}

// Cancelled returns true if the user left without choosing.
func (p Picker) Cancelled() bool {
	return p.action == ActionNone
}
