// Package storage persists the records served by the local record server.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/nikbrunner/linkshelf/internal/model"
)

// ErrNotFound is returned when deleting a record that does not exist.
var ErrNotFound = errors.New("record not found")

// Storage persists links grouped by class. List returns a class's links
// in insertion order.
type Storage interface {
	List(ctx context.Context, class string) ([]model.Link, error)
	Insert(ctx context.Context, class string, link model.Link) error
	Delete(ctx context.Context, class, id string) error
	Close() error
}

// JSONStorage implements Storage using a JSON file holding every class.
type JSONStorage struct {
	path string
	mu   sync.Mutex
}

// NewJSONStorage creates a new JSONStorage with the given file path.
func NewJSONStorage(path string) *JSONStorage {
	return &JSONStorage{path: path}
}

func (s *JSONStorage) List(ctx context.Context, class string) ([]model.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	classes, err := s.load()
	if err != nil {
		return nil, err
	}
	links := classes[class]
	if links == nil {
		links = []model.Link{}
	}
	return links, nil
}

func (s *JSONStorage) Insert(ctx context.Context, class string, link model.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	classes, err := s.load()
	if err != nil {
		return err
	}
	if slices.ContainsFunc(classes[class], func(l model.Link) bool { return l.ID == link.ID }) {
		return fmt.Errorf("insert %s/%s: duplicate id", class, link.ID)
	}
	classes[class] = append(classes[class], link.Clone())
	return s.save(classes)
}

func (s *JSONStorage) Delete(ctx context.Context, class, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	classes, err := s.load()
	if err != nil {
		return err
	}
	links := classes[class]
	i := slices.IndexFunc(links, func(l model.Link) bool { return l.ID == id })
	if i < 0 {
		return ErrNotFound
	}
	classes[class] = slices.Delete(links, i, i+1)
	return s.save(classes)
}

// Close is a no-op; the file is rewritten on every change.
func (s *JSONStorage) Close() error { return nil }

// load reads every class from the file.
// Returns an empty set if the file doesn't exist.
func (s *JSONStorage) load() (map[string][]model.Link, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string][]model.Link{}, nil
		}
		return nil, err
	}

	classes := map[string][]model.Link{}
	if err := json.Unmarshal(data, &classes); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	for _, links := range classes {
		for i := range links {
			if links[i].Tags == nil {
				links[i].Tags = []string{}
			}
		}
	}
	return classes, nil
}

// save writes every class to a temp file and renames it over the store,
// so readers see either the old or the new contents.
// Creates the directory if it doesn't exist.
func (s *JSONStorage) save(classes map[string][]model.Link) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(classes, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, s.path)
}

// OpenStorage opens the backend for path: a JSON file for ".json",
// SQLite otherwise.
func OpenStorage(path string) (Storage, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return NewJSONStorage(path), nil
	}
	return NewSQLiteStorage(path)
}
