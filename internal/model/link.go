package model

import "time"

// Default field values for a Link whose fields were not supplied.
const (
	DefaultTitle       = "default"
	DefaultURL         = "default"
	DefaultDescription = "default"
	DefaultTag         = "default"
)

// Link represents a saved URL with metadata.
type Link struct {
	ID          string    `json:"objectId,omitempty"` // empty until persisted
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero"`
}

// LinkFields holds caller-supplied fields for a new Link.
// A nil field is absent and falls back to its default.
type LinkFields struct {
	Title       *string
	URL         *string
	Description *string
	Tags        []string // nil = absent, empty = no tags
}

// NewLink creates an unsaved Link, merging fields over fresh defaults.
func NewLink(fields LinkFields) Link {
	link := defaultLink()

	if fields.Title != nil {
		link.Title = *fields.Title
	}
	if fields.URL != nil {
		link.URL = *fields.URL
	}
	if fields.Description != nil {
		link.Description = *fields.Description
	}
	if fields.Tags != nil {
		link.Tags = append([]string{}, fields.Tags...)
	}

	return link
}

// defaultLink returns a new default value on every call so that no
// caller ever shares the default tags slice.
func defaultLink() Link {
	return Link{
		Title:       DefaultTitle,
		URL:         DefaultURL,
		Description: DefaultDescription,
		Tags:        []string{DefaultTag},
	}
}

// Clone returns a copy of the link that shares no slices with it.
func (l Link) Clone() Link {
	c := l
	if l.Tags != nil {
		c.Tags = append([]string{}, l.Tags...)
	}
	return c
}

// IsNew reports whether the link has not been persisted yet.
func (l Link) IsNew() bool {
	return l.ID == ""
}

// HasTag reports whether the link carries the given tag.
func (l Link) HasTag(tag string) bool {
	for _, t := range l.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// String returns a pointer to s, for building LinkFields.
func String(s string) *string {
	return &s
}
