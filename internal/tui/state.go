package tui

import (
	"sync"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/nikbrunner/linkshelf/internal/layout"
	"github.com/nikbrunner/linkshelf/internal/model"
	"github.com/nikbrunner/linkshelf/internal/view"
)

// Mode is the current interaction mode.
type Mode int

const (
	ModeBrowse Mode = iota
	ModeAdd
	ModeConfirmDelete
)

// Focus is the pane that receives navigation keys.
type Focus int

const (
	FocusList Focus = iota
	FocusTags
)

// selection is what the terminal templates highlight. Views render from
// command goroutines as well as the update loop, so it is shared by
// pointer and guarded by a mutex.
type selection struct {
	mu     sync.RWMutex
	linkID string
	tag    string
}

func (s *selection) set(linkID, tag string) {
	s.mu.Lock()
	s.linkID = linkID
	s.tag = tag
	s.mu.Unlock()
}

func (s *selection) isLink(l model.Link) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.linkID != "" && l.ID == s.linkID
}

func (s *selection) isTag(tag string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tag != "" && tag == s.tag
}

// Form field order in the add modal.
const (
	fieldTitle = iota
	fieldURL
	fieldDescription
	fieldTags
	fieldCount
)

// FormState holds the inputs of the add modal.
type FormState struct {
	Inputs [fieldCount]textinput.Model
	Focus  int
}

// NewFormState creates the add modal inputs.
func NewFormState(cfg layout.LayoutConfig) FormState {
	specs := [fieldCount]struct {
		placeholder string
		limit       int
	}{
		fieldTitle:       {"Title", cfg.Input.TitleCharLimit},
		fieldURL:         {"https://...", cfg.Input.URLCharLimit},
		fieldDescription: {"Description", cfg.Input.DescriptionCharLimit},
		fieldTags:        {"tag1 tag2 tag3", cfg.Input.TagsCharLimit},
	}

	var f FormState
	for i, s := range specs {
		input := textinput.New()
		input.Placeholder = s.placeholder
		input.CharLimit = s.limit
		input.Width = cfg.Input.Width
		input.Cursor.SetMode(cursor.CursorStatic)
		f.Inputs[i] = input
	}
	return f
}

// Reset clears every input and focuses the first.
func (f *FormState) Reset() {
	for i := range f.Inputs {
		f.Inputs[i].Reset()
		f.Inputs[i].Blur()
	}
	f.Focus = fieldTitle
	f.Inputs[fieldTitle].Focus()
}

// Move shifts focus by delta, wrapping around.
func (f *FormState) Move(delta int) {
	f.Inputs[f.Focus].Blur()
	f.Focus = (f.Focus + delta + fieldCount) % fieldCount
	f.Inputs[f.Focus].Focus()
}

// Values returns the raw input values.
func (f FormState) Values() view.FormValues {
	return view.FormValues{
		Title:       f.Inputs[fieldTitle].Value(),
		URL:         f.Inputs[fieldURL].Value(),
		Description: f.Inputs[fieldDescription].Value(),
		Tags:        f.Inputs[fieldTags].Value(),
	}
}
