package tui

import (
	"strings"

	"github.com/nikbrunner/linkshelf/internal/router"
)

// Hint represents a single keybind hint for display.
type Hint struct {
	Key  string // Display key (e.g., "j/k", "Enter")
	Desc string // Short description (e.g., "move", "open")
}

// HintSet is an ordered collection of hints by group.
type HintSet struct {
	Nav    []Hint
	Action []Hint
	Edit   []Hint
	System []Hint
}

// All returns all hints flattened in display order: Nav + Action + Edit + System.
func (h HintSet) All() []Hint {
	result := make([]Hint, 0, len(h.Nav)+len(h.Action)+len(h.Edit)+len(h.System))
	result = append(result, h.Nav...)
	result = append(result, h.Action...)
	result = append(result, h.Edit...)
	result = append(result, h.System...)
	return result
}

// renderHint renders a single hint as "key:desc" with styling.
func (a App) renderHint(h Hint) string {
	return a.styles.HintKey.Render(h.Key) + ":" + a.styles.HintDesc.Render(h.Desc)
}

// renderHints renders hints in horizontal format for the bottom bar.
func (a App) renderHints(hints HintSet) string {
	all := hints.All()
	if len(all) == 0 {
		return ""
	}

	parts := make([]string, len(all))
	for i, h := range all {
		parts[i] = a.renderHint(h)
	}
	return strings.Join(parts, " ")
}

// renderHintsInline renders hints for modals: "Enter confirm  Esc cancel"
func (a App) renderHintsInline(hints []Hint) string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.styles.HintKey.Render(h.Key) + " " + a.styles.HintDesc.Render(h.Desc)
	}
	return strings.Join(parts, "  ")
}

// contextualHints returns the hints for the current mode and focus.
func (a App) contextualHints() HintSet {
	switch a.mode {
	case ModeAdd:
		return HintSet{
			Nav:    []Hint{{Key: "Tab", Desc: "next"}},
			Action: []Hint{{Key: "Enter", Desc: "save"}},
			System: []Hint{{Key: "Esc", Desc: "cancel"}},
		}
	case ModeConfirmDelete:
		// Shown inside the modal.
		return HintSet{}
	}

	hints := HintSet{
		Nav: []Hint{
			{Key: "j/k", Desc: "move"},
			{Key: "Tab", Desc: "pane"},
		},
		System: []Hint{
			{Key: "r", Desc: "reload"},
			{Key: "q", Desc: "quit"},
		},
	}

	if a.focus == FocusTags {
		hints.Action = []Hint{{Key: "l", Desc: "show tag"}}
	} else {
		hints.Action = []Hint{
			{Key: "l", Desc: "open"},
			{Key: "Y", Desc: "yank"},
		}
		hints.Edit = []Hint{
			{Key: "a", Desc: "add"},
			{Key: "d", Desc: "del"},
		}
	}
	if a.router.Route().Kind == router.FilteredByTag {
		hints.Nav = append(hints.Nav, Hint{Key: "h", Desc: "back"})
	}
	return hints
}
