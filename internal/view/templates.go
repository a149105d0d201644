package view

import "github.com/nikbrunner/linkshelf/internal/model"

// Fragment is a piece of rendered markup.
type Fragment string

// FormValues are the raw input values of the create form.
type FormValues struct {
	Title       string
	URL         string
	Description string
	Tags        string // space-delimited
}

// Templates renders each kind of fragment the views produce.
// Implementations must be pure: equal input gives equal output.
type Templates interface {
	CountHeader(count int) Fragment
	LinkItem(link model.Link) Fragment
	LinkList(items []Fragment) Fragment
	TagEntry(tag string) Fragment
	TagIndex(entries []Fragment) Fragment
	NewLinkForm(values FormValues) Fragment
	BackLink() Fragment
}
