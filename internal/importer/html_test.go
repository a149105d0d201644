package importer_test

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/nikbrunner/linkshelf/internal/collection"
	"github.com/nikbrunner/linkshelf/internal/importer"
	"github.com/nikbrunner/linkshelf/internal/model"
	"github.com/nikbrunner/linkshelf/internal/recordserver"
	"github.com/nikbrunner/linkshelf/internal/remote"
	"github.com/nikbrunner/linkshelf/internal/remote/remotetest"
	"github.com/nikbrunner/linkshelf/internal/storage"
)

func TestParseHTML_SingleLink(t *testing.T) {
	html := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
    <DT><A HREF="https://example.com" ADD_DATE="1234567890">Example Site</A>
</DL><p>`

	entries, err := importer.ParseHTML(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("expected 1 link, got %d", len(entries))
	}

	e := entries[0]
	if *e.Title != "Example Site" {
		t.Errorf("expected title 'Example Site', got %q", *e.Title)
	}
	if *e.URL != "https://example.com" {
		t.Errorf("expected URL 'https://example.com', got %q", *e.URL)
	}
	if *e.Description != "" {
		t.Errorf("expected empty description, got %q", *e.Description)
	}
	if e.Tags == nil || len(e.Tags) != 0 {
		t.Errorf("expected present but empty tags, got %#v", e.Tags)
	}
}

func TestParseHTML_FoldersBecomeTags(t *testing.T) {
	html := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<DL><p>
    <DT><H3 ADD_DATE="1234567890">Development</H3>
    <DL><p>
        <DT><H3 ADD_DATE="1234567890">React</H3>
        <DL><p>
            <DT><A HREF="https://react.dev" ADD_DATE="1234567890">React Docs</A>
        </DL><p>
        <DT><A HREF="https://github.com" ADD_DATE="1234567890">GitHub</A>
    </DL><p>
    <DT><A HREF="https://google.com" ADD_DATE="1234567890">Google</A>
</DL><p>`

	entries, err := importer.ParseHTML(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("expected 3 links, got %d", len(entries))
	}

	want := map[string][]string{
		"React Docs": {"Development", "React"},
		"GitHub":     {"Development"},
		"Google":     {},
	}
	for _, e := range entries {
		expected, ok := want[*e.Title]
		if !ok {
			t.Errorf("unexpected link %q", *e.Title)
			continue
		}
		if strings.Join(e.Tags, ",") != strings.Join(expected, ",") {
			t.Errorf("%s: expected tags %v, got %v", *e.Title, expected, e.Tags)
		}
	}
}

func TestParseHTML_TagsAttributeAndDescription(t *testing.T) {
	html := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<DL><p>
    <DT><H3>Reading</H3>
    <DD>Folder notes
    <DL><p>
        <DT><A HREF="https://go.dev" TAGS="go, lang,go">The Go site</A>
        <DD>Docs and downloads
        <DT><A HREF="https://pkg.go.dev">Packages</A>
    </DL><p>
</DL><p>`

	entries, err := importer.ParseHTML(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 links, got %d", len(entries))
	}

	goSite := entries[0]
	if got := strings.Join(goSite.Tags, ","); got != "go,lang,Reading" {
		t.Errorf("expected tags go,lang,Reading, got %q", got)
	}
	if *goSite.Description != "Docs and downloads" {
		t.Errorf("expected description from DD, got %q", *goSite.Description)
	}

	pkgs := entries[1]
	if *pkgs.Description != "" {
		t.Errorf("expected no description, got %q", *pkgs.Description)
	}
	if got := strings.Join(pkgs.Tags, ","); got != "Reading" {
		t.Errorf("expected folder tag only, got %q", got)
	}
}

func TestParseHTML_EmptyFile(t *testing.T) {
	html := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
</DL><p>`

	entries, err := importer.ParseHTML(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected 0 links, got %d", len(entries))
	}
}

func TestParseHTML_MissingHref(t *testing.T) {
	html := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<DL><p>
    <DT><A ADD_DATE="1234567890">No URL</A>
    <DT><A HREF="https://valid.com" ADD_DATE="1234567890"></A>
</DL><p>`

	entries, err := importer.ParseHTML(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Should skip the link without HREF, keep the valid one
	if len(entries) != 1 {
		t.Fatalf("expected 1 link (skip missing href), got %d", len(entries))
	}
	if *entries[0].Title != "https://valid.com" {
		t.Errorf("expected URL as fallback title, got %q", *entries[0].Title)
	}
}

func TestImport_SkipsKnownURLs(t *testing.T) {
	store := remotetest.NewMemory(model.Link{ID: "1", Title: "Go", URL: "https://go.dev"})
	links := collection.New(store)
	if _, err := links.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	entries := []model.LinkFields{
		{Title: model.String("Go again"), URL: model.String("https://go.dev")},
		{Title: model.String("Rust"), URL: model.String("https://rust-lang.org"), Tags: []string{}},
		{Title: model.String("Rust twice"), URL: model.String("https://rust-lang.org")},
	}

	res, err := importer.Import(context.Background(), links, entries)
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if res.Imported != 1 || res.Skipped != 2 {
		t.Errorf("expected 1 imported and 2 skipped, got %+v", res)
	}
	if links.Len() != 2 {
		t.Errorf("expected 2 links, got %d", links.Len())
	}
	if store.Creates != 1 {
		t.Errorf("expected 1 create call, got %d", store.Creates)
	}
}

func TestImport_StopsOnFailure(t *testing.T) {
	store := remotetest.NewMemory()
	store.CreateErr = remote.ErrNetwork
	links := collection.New(store)

	entries := []model.LinkFields{
		{URL: model.String("https://a.example")},
		{URL: model.String("https://b.example")},
	}

	res, err := importer.Import(context.Background(), links, entries)
	if !errors.Is(err, remote.ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
	if res.Imported != 0 {
		t.Errorf("expected nothing imported, got %d", res.Imported)
	}
	if links.Len() != 0 {
		t.Errorf("expected empty collection, got %d", links.Len())
	}
}

func TestParseHTML_FitsTagsToStoreLimits(t *testing.T) {
	longFolder := strings.Repeat("ü", model.MaxTagLength+20)
	many := make([]string, model.MaxTags+10)
	for i := range many {
		many[i] = fmt.Sprintf("t%d", i)
	}

	html := `<DL><p>
    <DT><H3>` + longFolder + `</H3>
    <DL><p>
        <DT><A HREF="https://a.example">A</A>
        <DT><A HREF="https://b.example" TAGS="` + strings.Join(many, ",") + `">B</A>
    </DL><p>
</DL><p>`

	entries, err := importer.ParseHTML(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 links, got %d", len(entries))
	}

	if len(entries[0].Tags) != 1 {
		t.Fatalf("expected folder tag, got %v", entries[0].Tags)
	}
	if n := utf8.RuneCountInString(entries[0].Tags[0]); n != model.MaxTagLength {
		t.Errorf("expected tag clamped to %d characters, got %d", model.MaxTagLength, n)
	}
	if len(entries[1].Tags) != model.MaxTags {
		t.Errorf("expected %d tags, got %d", model.MaxTags, len(entries[1].Tags))
	}

	// The record store accepts every entry, so nothing aborts the import.
	store := storage.NewJSONStorage(filepath.Join(t.TempDir(), "records.json"))
	ts := httptest.NewServer(recordserver.New(store).Handler())
	defer ts.Close()

	links := collection.New(remote.NewClient(ts.URL, remote.Credentials{}))
	res, err := importer.Import(context.Background(), links, entries)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Imported != 2 {
		t.Errorf("expected 2 imported, got %+v", res)
	}
}
