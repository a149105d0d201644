package collection

import "github.com/nikbrunner/linkshelf/internal/model"

// EventKind identifies a change notification.
type EventKind int

const (
	EventAdded     EventKind = iota // a link was created and appended
	EventSynced                     // the sequence was fetched or reset
	EventDestroyed                  // a link was deleted
)

// AllEvents is every event kind, for views that re-render on any change.
var AllEvents = []EventKind{EventAdded, EventSynced, EventDestroyed}

func (k EventKind) String() string {
	switch k {
	case EventAdded:
		return "added"
	case EventSynced:
		return "synced"
	case EventDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribers after a mutation completes.
type Event struct {
	Kind EventKind
	Link *model.Link // the added or destroyed link; nil for EventSynced
}

// Handler receives events it subscribed to.
type Handler func(Event)

// Subscription is a registered handler.
type Subscription struct {
	c     *Collection
	id    uint64
	kinds map[EventKind]bool
	fn    Handler
}

// Unsubscribe removes the handler. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()
	delete(s.c.subs, s.id)
}

func (s *Subscription) wants(kind EventKind) bool {
	return s.kinds[kind]
}
