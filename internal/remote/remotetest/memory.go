// Package remotetest provides an in-memory record store for tests.
package remotetest

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/nikbrunner/linkshelf/internal/model"
	"github.com/nikbrunner/linkshelf/internal/remote"
)

// Memory is an in-memory record store with injectable failures.
// It satisfies collection.Remote.
type Memory struct {
	mu     sync.Mutex
	links  []model.Link
	nextID int

	// Set to make the next matching calls fail.
	ListErr   error
	CreateErr error
	DeleteErr error

	Lists   int
	Creates int
	Deletes int
}

// NewMemory creates a store seeded with links. Seeded links without an ID
// get one assigned.
func NewMemory(links ...model.Link) *Memory {
	m := &Memory{}
	for _, l := range links {
		l = l.Clone()
		if l.ID == "" {
			l.ID = m.assignID()
		}
		if l.Tags == nil {
			l.Tags = []string{}
		}
		m.links = append(m.links, l)
	}
	return m
}

// List returns a copy of all records.
func (m *Memory) List(ctx context.Context) ([]model.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Lists++
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := make([]model.Link, len(m.links))
	for i, l := range m.links {
		out[i] = l.Clone()
	}
	return out, nil
}

// Create stores link under a new sequential ID.
func (m *Memory) Create(ctx context.Context, link model.Link) (model.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Creates++
	if m.CreateErr != nil {
		return model.Link{}, m.CreateErr
	}
	saved := link.Clone()
	saved.ID = m.assignID()
	saved.CreatedAt = time.Now().UTC()
	saved.UpdatedAt = saved.CreatedAt
	m.links = append(m.links, saved.Clone())
	return saved, nil
}

// Delete removes the record, or fails with remote.ErrNotFound.
func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deletes++
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	for i := range m.links {
		if m.links[i].ID == id {
			m.links = append(m.links[:i], m.links[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", remote.ErrNotFound, id)
}

// Stored returns a copy of the records currently held.
func (m *Memory) Stored() []model.Link {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Link, len(m.links))
	for i, l := range m.links {
		out[i] = l.Clone()
	}
	return out
}

// SetListErr sets ListErr while other goroutines may be calling List.
func (m *Memory) SetListErr(err error) {
	m.mu.Lock()
	m.ListErr = err
	m.mu.Unlock()
}

// assignID returns the next sequential ID not already in use.
func (m *Memory) assignID() string {
	for {
		m.nextID++
		id := strconv.Itoa(m.nextID)
		taken := false
		for _, l := range m.links {
			if l.ID == id {
				taken = true
				break
			}
		}
		if !taken {
			return id
		}
	}
}
