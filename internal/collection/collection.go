// Package collection holds the in-memory, ordered set of links that every
// view reads from. All mutation goes through Fetch, Create, Destroy and Reset;
// each one notifies subscribers once the new sequence is in place.
package collection

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/nikbrunner/linkshelf/internal/model"
	"github.com/nikbrunner/linkshelf/internal/remote"
)

// Remote is the record store the collection synchronizes with.
type Remote interface {
	List(ctx context.Context) ([]model.Link, error)
	Create(ctx context.Context, link model.Link) (model.Link, error)
	Delete(ctx context.Context, id string) error
}

// Collection is an ordered sequence of links backed by a Remote.
type Collection struct {
	remote Remote

	mu     sync.Mutex
	links  []model.Link
	subs   map[uint64]*Subscription
	nextID uint64
}

// New creates an empty Collection. Nothing is fetched until Fetch is called.
func New(r Remote) *Collection {
	return &Collection{
		remote: r,
		links:  []model.Link{},
		subs:   make(map[uint64]*Subscription),
	}
}

// Subscribe registers h for the given event kinds.
func (c *Collection) Subscribe(kinds []EventKind, h Handler) *Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	sub := &Subscription{
		c:     c,
		id:    c.nextID,
		kinds: make(map[EventKind]bool, len(kinds)),
		fn:    h,
	}
	for _, k := range kinds {
		sub.kinds[k] = true
	}
	c.subs[sub.id] = sub
	return sub
}

// Fetch replaces the sequence with the remote result set.
func (c *Collection) Fetch(ctx context.Context) ([]model.Link, error) {
	links, err := c.remote.List(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.links = cloneLinks(links)
	result := cloneLinks(c.links)
	c.mu.Unlock()

	c.emit(Event{Kind: EventSynced})
	return result, nil
}

// Create builds a link from fields merged over defaults, persists it and
// appends it to the sequence.
func (c *Collection) Create(ctx context.Context, fields model.LinkFields) (model.Link, error) {
	link := model.NewLink(fields)

	saved, err := c.remote.Create(ctx, link)
	if err != nil {
		return model.Link{}, err
	}

	c.mu.Lock()
	c.links = append(c.links, saved.Clone())
	c.mu.Unlock()

	added := saved.Clone()
	c.emit(Event{Kind: EventAdded, Link: &added})
	return saved, nil
}

// Destroy deletes link remotely, then removes it from the sequence.
func (c *Collection) Destroy(ctx context.Context, link model.Link) error {
	if link.IsNew() {
		return fmt.Errorf("%w: link was never saved", remote.ErrNotFound)
	}

	if err := c.remote.Delete(ctx, link.ID); err != nil {
		return err
	}

	c.mu.Lock()
	removed := false
	for i := range c.links {
		if c.links[i].ID == link.ID {
			c.links = append(c.links[:i], c.links[i+1:]...)
			removed = true
			break
		}
	}
	c.mu.Unlock()

	if removed {
		destroyed := link.Clone()
		c.emit(Event{Kind: EventDestroyed, Link: &destroyed})
	}
	return nil
}

// Reset replaces the sequence wholesale without touching the remote store.
func (c *Collection) Reset(links []model.Link) {
	c.mu.Lock()
	c.links = cloneLinks(links)
	c.mu.Unlock()

	c.emit(Event{Kind: EventSynced})
}

// Links returns a copy of the sequence in iteration order.
func (c *Collection) Links() []model.Link {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneLinks(c.links)
}

// Len returns the number of links in the sequence.
func (c *Collection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.links)
}

// Get finds a link by ID.
func (c *Collection) Get(id string) (model.Link, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, l := range c.links {
		if l.ID == id {
			return l.Clone(), true
		}
	}
	return model.Link{}, false
}

// HasURL reports whether any link in the sequence points at url.
func (c *Collection) HasURL(url string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, l := range c.links {
		if l.URL == url {
			return true
		}
	}
	return false
}

// Tags returns the deduplicated tags of the current sequence, recomputed on
// every call. Empty if nothing has been fetched.
func (c *Collection) Tags() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.UniqueTags(c.links)
}

// emit delivers e to matching subscribers in subscription order.
// Called without c.mu held so handlers can read the collection.
func (c *Collection) emit(e Event) {
	c.mu.Lock()
	subs := make([]*Subscription, 0, len(c.subs))
	for _, s := range c.subs {
		if s.wants(e.Kind) {
			subs = append(subs, s)
		}
	}
	c.mu.Unlock()

	sort.Slice(subs, func(i, j int) bool { return subs[i].id < subs[j].id })
	for _, s := range subs {
		s.fn(e)
	}
}

// FilterByTag returns the links carrying tag, preserving order.
func FilterByTag(links []model.Link, tag string) []model.Link {
	result := []model.Link{}
	for _, l := range links {
		if l.HasTag(tag) {
			result = append(result, l)
		}
	}
	return result
}

func cloneLinks(links []model.Link) []model.Link {
	out := make([]model.Link, len(links))
	for i, l := range links {
		out[i] = l.Clone()
	}
	return out
}
