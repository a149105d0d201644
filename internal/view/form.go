package view

import (
	"context"
	"sync"

	"github.com/nikbrunner/linkshelf/internal/collection"
	"github.com/nikbrunner/linkshelf/internal/model"
)

// CreateForm collects input for a new link. It does not subscribe to the
// collection.
type CreateForm struct {
	links     *collection.Collection
	templates Templates
	out       output

	mu     sync.Mutex
	values FormValues
}

// NewCreateForm creates an empty form that creates links in links.
func NewCreateForm(links *collection.Collection, t Templates) *CreateForm {
	return &CreateForm{links: links, templates: t}
}

func (f *CreateForm) Render() Fragment {
	return f.out.set(f.templates.NewLinkForm(f.Values()))
}

func (f *CreateForm) Output() Fragment { return f.out.get() }

// Values returns the current input values.
func (f *CreateForm) Values() FormValues {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// SetValues replaces the input values, as typing into the inputs would.
func (f *CreateForm) SetValues(v FormValues) {
	f.mu.Lock()
	f.values = v
	f.mu.Unlock()
}

// Submit creates a link from the current values and clears the inputs,
// whether or not the create succeeded. The create error is returned
// unchanged; the form itself shows no failure.
func (f *CreateForm) Submit(ctx context.Context) (model.Link, error) {
	fields := ParseForm(f.Values())

	link, err := f.links.Create(ctx, fields)

	f.SetValues(FormValues{})
	f.Render()
	return link, err
}

// ParseForm turns raw input values into link fields. Every field is
// present; tags are split on single spaces.
func ParseForm(v FormValues) model.LinkFields {
	return model.LinkFields{
		Title:       model.String(v.Title),
		URL:         model.String(v.URL),
		Description: model.String(v.Description),
		Tags:        model.ParseTags(v.Tags),
	}
}
