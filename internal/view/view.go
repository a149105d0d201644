// Package view renders the link collection. Header, List and TagIndex
// subscribe to the collection and re-render on every change; CreateForm
// only renders on request.
package view

import (
	"sync"

	"github.com/nikbrunner/linkshelf/internal/collection"
	"github.com/nikbrunner/linkshelf/internal/model"
)

// View produces a fragment from the collection's current state.
type View interface {
	// Render renders a fresh fragment and stores it as the output.
	Render() Fragment
	// Output returns the most recent render.
	Output() Fragment
}

// output holds a view's latest fragment.
type output struct {
	mu   sync.Mutex
	frag Fragment
}

func (o *output) set(f Fragment) Fragment {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.frag = f
	return f
}

func (o *output) get() Fragment {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.frag
}

// bind subscribes render to every collection event.
func bind(links *collection.Collection, render func() Fragment) *collection.Subscription {
	return links.Subscribe(collection.AllEvents, func(collection.Event) {
		render()
	})
}

// Header shows the number of links.
type Header struct {
	links     *collection.Collection
	templates Templates
	out       output
	sub       *collection.Subscription
}

// NewHeader creates a Header subscribed to links.
func NewHeader(links *collection.Collection, t Templates) *Header {
	h := &Header{links: links, templates: t}
	h.sub = bind(links, h.Render)
	return h
}

func (h *Header) Render() Fragment {
	return h.out.set(h.templates.CountHeader(h.links.Len()))
}

func (h *Header) Output() Fragment { return h.out.get() }

// Close stops re-rendering on collection changes.
func (h *Header) Close() { h.sub.Unsubscribe() }

// List shows one item per link, in collection order.
type List struct {
	links     *collection.Collection
	templates Templates
	out       output
	sub       *collection.Subscription
}

// NewList creates a List subscribed to links.
func NewList(links *collection.Collection, t Templates) *List {
	l := &List{links: links, templates: t}
	l.sub = bind(links, l.Render)
	return l
}

func (l *List) Render() Fragment {
	snapshot := l.links.Links()
	items := make([]Fragment, 0, len(snapshot))
	for _, link := range snapshot {
		items = append(items, RenderItem(l.templates, link))
	}
	return l.out.set(l.templates.LinkList(items))
}

func (l *List) Output() Fragment { return l.out.get() }

// Close stops re-rendering on collection changes.
func (l *List) Close() { l.sub.Unsubscribe() }

// RenderItem renders a single link.
func RenderItem(t Templates, link model.Link) Fragment {
	return t.LinkItem(link)
}

// TagIndex shows one entry per distinct tag.
type TagIndex struct {
	links     *collection.Collection
	templates Templates
	out       output
	sub       *collection.Subscription
}

// NewTagIndex creates a TagIndex subscribed to links.
func NewTagIndex(links *collection.Collection, t Templates) *TagIndex {
	ti := &TagIndex{links: links, templates: t}
	ti.sub = bind(links, ti.Render)
	return ti
}

func (ti *TagIndex) Render() Fragment {
	tags := ti.links.Tags()
	entries := make([]Fragment, 0, len(tags))
	for _, tag := range tags {
		entries = append(entries, ti.templates.TagEntry(tag))
	}
	return ti.out.set(ti.templates.TagIndex(entries))
}

func (ti *TagIndex) Output() Fragment { return ti.out.get() }

// Close stops re-rendering on collection changes.
func (ti *TagIndex) Close() { ti.sub.Unsubscribe() }

// Static is a fixed fragment that never re-renders.
type Static Fragment

func (s Static) Render() Fragment { return Fragment(s) }
func (s Static) Output() Fragment { return Fragment(s) }
