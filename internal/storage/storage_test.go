package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nikbrunner/linkshelf/internal/model"
	"github.com/nikbrunner/linkshelf/internal/storage"
)

// backends returns a fresh instance of every Storage implementation.
func backends(t *testing.T) map[string]storage.Storage {
	t.Helper()
	dir := t.TempDir()

	sqlite, err := storage.NewSQLiteStorage(filepath.Join(dir, "records.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })

	return map[string]storage.Storage{
		"json":   storage.NewJSONStorage(filepath.Join(dir, "records.json")),
		"sqlite": sqlite,
	}
}

func TestStorage_InsertAndList(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 30, 0, 123000000, time.UTC)

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			link := model.Link{
				ID:          "a1",
				Title:       "Go",
				URL:         "https://go.dev",
				Description: "The Go site",
				Tags:        []string{"go", "lang"},
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := s.Insert(ctx, "Bookmarks", link); err != nil {
				t.Fatalf("failed to insert: %v", err)
			}

			links, err := s.List(ctx, "Bookmarks")
			if err != nil {
				t.Fatalf("failed to list: %v", err)
			}
			if len(links) != 1 {
				t.Fatalf("expected 1 link, got %d", len(links))
			}
			got := links[0]
			if got.ID != "a1" || got.Title != "Go" || got.URL != "https://go.dev" {
				t.Errorf("unexpected link: %+v", got)
			}
			if got.Description != "The Go site" {
				t.Errorf("expected description to be preserved, got %q", got.Description)
			}
			if len(got.Tags) != 2 || got.Tags[0] != "go" || got.Tags[1] != "lang" {
				t.Errorf("expected tags [go lang], got %v", got.Tags)
			}
			if !got.CreatedAt.Equal(now) {
				t.Errorf("expected created_at %v, got %v", now, got.CreatedAt)
			}
		})
	}
}

func TestStorage_EmptyClass(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			links, err := s.List(ctx, "Nothing")
			if err != nil {
				t.Fatalf("failed to list: %v", err)
			}
			if links == nil {
				t.Error("expected empty slice, got nil")
			}
			if len(links) != 0 {
				t.Errorf("expected 0 links, got %d", len(links))
			}
		})
	}
}

func TestStorage_PreservesInsertOrder(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, id := range []string{"c", "a", "b"} {
				if err := s.Insert(ctx, "Bookmarks", model.Link{ID: id, Tags: []string{}}); err != nil {
					t.Fatalf("failed to insert %s: %v", id, err)
				}
			}

			links, err := s.List(ctx, "Bookmarks")
			if err != nil {
				t.Fatalf("failed to list: %v", err)
			}
			var ids []string
			for _, l := range links {
				ids = append(ids, l.ID)
			}
			if len(ids) != 3 || ids[0] != "c" || ids[1] != "a" || ids[2] != "b" {
				t.Errorf("expected order [c a b], got %v", ids)
			}
		})
	}
}

func TestStorage_ClassesAreSeparate(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Insert(ctx, "Bookmarks", model.Link{ID: "1"}); err != nil {
				t.Fatal(err)
			}
			if err := s.Insert(ctx, "Archive", model.Link{ID: "1"}); err != nil {
				t.Fatalf("same id in another class should be allowed: %v", err)
			}

			if err := s.Delete(ctx, "Archive", "1"); err != nil {
				t.Fatal(err)
			}
			links, _ := s.List(ctx, "Bookmarks")
			if len(links) != 1 {
				t.Errorf("expected Bookmarks to keep its link, got %d", len(links))
			}
		})
	}
}

func TestStorage_DuplicateID(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Insert(ctx, "Bookmarks", model.Link{ID: "dup"}); err != nil {
				t.Fatal(err)
			}
			if err := s.Insert(ctx, "Bookmarks", model.Link{ID: "dup"}); err == nil {
				t.Error("expected error for duplicate id")
			}
		})
	}
}

func TestStorage_Delete(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, id := range []string{"1", "2"} {
				if err := s.Insert(ctx, "Bookmarks", model.Link{ID: id}); err != nil {
					t.Fatal(err)
				}
			}

			if err := s.Delete(ctx, "Bookmarks", "1"); err != nil {
				t.Fatalf("failed to delete: %v", err)
			}
			links, _ := s.List(ctx, "Bookmarks")
			if len(links) != 1 || links[0].ID != "2" {
				t.Errorf("expected only link 2 to remain, got %+v", links)
			}

			err := s.Delete(ctx, "Bookmarks", "1")
			if !errors.Is(err, storage.ErrNotFound) {
				t.Errorf("expected ErrNotFound on second delete, got %v", err)
			}
		})
	}
}

func TestJSONStorage_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "dir", "records.json")

	s := storage.NewJSONStorage(path)
	if err := s.Insert(context.Background(), "Bookmarks", model.Link{ID: "1"}); err != nil {
		t.Fatalf("failed to insert: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("expected file to be created in nested directory")
	}
}

func TestJSONStorage_SaveLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "records.json")

	s := storage.NewJSONStorage(path)
	for _, id := range []string{"1", "2", "3"} {
		if err := s.Insert(ctx, "Bookmarks", model.Link{ID: id}); err != nil {
			t.Fatalf("failed to insert %s: %v", id, err)
		}
	}
	if err := s.Delete(ctx, "Bookmarks", "2"); err != nil {
		t.Fatalf("failed to delete: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "records.json" {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("expected only records.json, got %v", names)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0644 {
		t.Errorf("expected mode 0644, got %v", perm)
	}

	links, _ := s.List(ctx, "Bookmarks")
	if len(links) != 2 {
		t.Errorf("expected 2 links, got %d", len(links))
	}
}

func TestJSONStorage_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := storage.NewJSONStorage(path).List(context.Background(), "Bookmarks")
	if err == nil {
		t.Error("expected error for corrupt file")
	}
}

func TestSQLiteStorage_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "dir", "records.db")

	s, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("expected database file to be created")
	}
}

func TestSQLiteStorage_ReopenKeepsDataAndSchema(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "records.db")

	s, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Insert(ctx, "Bookmarks", model.Link{ID: "1", Title: "kept"}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = storage.NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("failed to reopen: %v", err)
	}
	defer s.Close()

	version, err := s.SchemaVersion()
	if err != nil {
		t.Fatal(err)
	}
	if version != 1 {
		t.Errorf("expected schema version 1, got %d", version)
	}

	links, _ := s.List(ctx, "Bookmarks")
	if len(links) != 1 || links[0].Title != "kept" {
		t.Errorf("expected link to survive reopen, got %+v", links)
	}
}

func TestOpenStorage(t *testing.T) {
	dir := t.TempDir()

	s, err := storage.OpenStorage(filepath.Join(dir, "records.JSON"))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*storage.JSONStorage); !ok {
		t.Errorf("expected JSONStorage, got %T", s)
	}

	s, err = storage.OpenStorage(filepath.Join(dir, "records.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if _, ok := s.(*storage.SQLiteStorage); !ok {
		t.Errorf("expected SQLiteStorage, got %T", s)
	}
}
