package router

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrUnknownRoute is returned for paths that match neither route.
var ErrUnknownRoute = errors.New("unknown route")

// Kind identifies which of the two page states a route selects.
type Kind int

const (
	AllLinks Kind = iota
	FilteredByTag
)

func (k Kind) String() string {
	switch k {
	case AllLinks:
		return "all"
	case FilteredByTag:
		return "tag"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Route is a parsed navigation target. Tag is only set for FilteredByTag.
type Route struct {
	Kind Kind
	Tag  string
}

// Index is the all-links route.
func Index() Route { return Route{Kind: AllLinks} }

// Tag is the route filtering by tag.
func Tag(tag string) Route { return Route{Kind: FilteredByTag, Tag: tag} }

// ParseRoute maps a URL path or fragment to a Route. Leading "#" and "/"
// are ignored, so "", "/", "#", "#/" all select AllLinks and
// "tags/go", "/tags/go", "#/tags/go" select FilteredByTag("go").
func ParseRoute(path string) (Route, error) {
	p := strings.TrimPrefix(path, "#")
	p = strings.TrimPrefix(p, "/")
	p = strings.TrimSuffix(p, "/")

	if p == "" {
		return Index(), nil
	}

	raw, ok := strings.CutPrefix(p, "tags/")
	if !ok || raw == "" {
		return Route{}, fmt.Errorf("%w: %q", ErrUnknownRoute, path)
	}

	tag, err := url.PathUnescape(raw)
	if err != nil {
		return Route{}, fmt.Errorf("%w: %q: %v", ErrUnknownRoute, path, err)
	}
	return Tag(tag), nil
}

// Path returns the URL path for the route; ParseRoute(r.Path()) == r.
func (r Route) Path() string {
	if r.Kind == FilteredByTag {
		return "/tags/" + url.PathEscape(r.Tag)
	}
	return "/"
}

func (r Route) String() string {
	if r.Kind == FilteredByTag {
		return "tags/" + r.Tag
	}
	return "all"
}
