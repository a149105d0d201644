// Package router maps navigation to one of two page states, all links or
// links filtered by a tag, and composes the views into a page.
package router

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/nikbrunner/linkshelf/internal/collection"
	"github.com/nikbrunner/linkshelf/internal/view"
)

// Params holds the router's dependencies.
type Params struct {
	Links     *collection.Collection
	Templates view.Templates
}

// Page is the container the views are appended to. It holds the views
// themselves, so its output follows collection changes between renders.
type Page struct {
	elements []view.View
}

// Fragments returns each element's latest output, in page order.
func (p Page) Fragments() []view.Fragment {
	out := make([]view.Fragment, len(p.elements))
	for i, e := range p.elements {
		out[i] = e.Output()
	}
	return out
}

// Len returns the number of elements on the page.
func (p Page) Len() int { return len(p.elements) }

func (p Page) String() string {
	parts := make([]string, len(p.elements))
	for i, f := range p.Fragments() {
		parts[i] = string(f)
	}
	return strings.Join(parts, "\n")
}

// Router drives fetches and re-renders for the current route.
type Router struct {
	links     *collection.Collection
	templates view.Templates

	header *view.Header
	list   *view.List
	tags   *view.TagIndex
	form   *view.CreateForm

	mu    sync.Mutex
	route Route
	page  Page
}

// New creates the views over p.Links and returns a router on the index
// route. Nothing is fetched until the first navigation.
func New(p Params) *Router {
	return &Router{
		links:     p.Links,
		templates: p.Templates,
		header:    view.NewHeader(p.Links, p.Templates),
		list:      view.NewList(p.Links, p.Templates),
		tags:      view.NewTagIndex(p.Links, p.Templates),
		form:      view.NewCreateForm(p.Links, p.Templates),
		route:     Index(),
	}
}

// Navigate parses path and goes to the resulting route.
func (r *Router) Navigate(ctx context.Context, path string) error {
	route, err := ParseRoute(path)
	if err != nil {
		return err
	}
	return r.Go(ctx, route)
}

// Go enters route. Remote failures are returned unchanged and leave the
// page as it was.
func (r *Router) Go(ctx context.Context, route Route) error {
	switch route.Kind {
	case AllLinks:
		return r.Index(ctx)
	case FilteredByTag:
		return r.ShowTag(ctx, route.Tag)
	default:
		return fmt.Errorf("%w: %v", ErrUnknownRoute, route.Kind)
	}
}

// Index fetches every link and renders the full page.
func (r *Router) Index(ctx context.Context) error {
	r.setRoute(Index())

	if _, err := r.links.Fetch(ctx); err != nil {
		return err
	}
	r.RenderAll()
	return nil
}

// ShowTag fetches every link, narrows the collection to those tagged tag
// and renders the page followed by a link back to the index.
func (r *Router) ShowTag(ctx context.Context, tag string) error {
	r.setRoute(Tag(tag))

	if _, err := r.links.Fetch(ctx); err != nil {
		return err
	}
	r.links.Reset(collection.FilterByTag(r.links.Links(), tag))
	r.RenderAll()

	r.mu.Lock()
	r.page.elements = append(r.page.elements, view.Static(r.templates.BackLink()))
	r.mu.Unlock()
	return nil
}

// RenderAll clears the page, renders every view and appends them as
// header, list, tag index, form.
func (r *Router) RenderAll() {
	views := []view.View{r.header, r.list, r.tags, r.form}
	for _, v := range views {
		v.Render()
	}

	r.mu.Lock()
	r.page = Page{elements: views}
	r.mu.Unlock()
}

// Refresh re-renders the views already on the page without changing its
// composition. Front ends call it when template state such as a cursor
// changes.
func (r *Router) Refresh() {
	for _, e := range r.Page().elements {
		e.Render()
	}
}

// Page returns the current page.
func (r *Router) Page() Page {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Page{elements: append([]view.View(nil), r.page.elements...)}
}

// Route returns the route most recently navigated to.
func (r *Router) Route() Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.route
}

// Form returns the create form shown on every page.
func (r *Router) Form() *view.CreateForm { return r.form }

// Close unsubscribes the views from the collection.
func (r *Router) Close() {
	r.header.Close()
	r.list.Close()
	r.tags.Close()
}

func (r *Router) setRoute(route Route) {
	r.mu.Lock()
	r.route = route
	r.mu.Unlock()
}
