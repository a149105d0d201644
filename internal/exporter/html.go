// Package exporter writes links as a Netscape bookmark file.
package exporter

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/linkshelf/internal/model"
)

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/linkshelf-export-YYYY-MM-DD.html
func DefaultExportPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("linkshelf-export-%s.html", time.Now().Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename), nil
}

// ExportHTML renders links as a flat Netscape bookmark list. Tags go into
// the TAGS attribute and a non-empty description into a <DD>.
func ExportHTML(links []model.Link) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	for _, link := range links {
		writeLink(&b, link)
	}

	b.WriteString("</DL><p>\n")

	return b.String()
}

func writeLink(b *strings.Builder, link model.Link) {
	const prefix = "    "

	attrs := fmt.Sprintf(" HREF=\"%s\"", html.EscapeString(link.URL))
	if !link.CreatedAt.IsZero() {
		attrs += fmt.Sprintf(" ADD_DATE=\"%d\"", link.CreatedAt.Unix())
	}
	if !link.UpdatedAt.IsZero() {
		attrs += fmt.Sprintf(" LAST_MODIFIED=\"%d\"", link.UpdatedAt.Unix())
	}
	if tags := exportTags(link.Tags); tags != "" {
		attrs += fmt.Sprintf(" TAGS=\"%s\"", html.EscapeString(tags))
	}

	fmt.Fprintf(b, "%s<DT><A%s>%s</A>\n", prefix, attrs, html.EscapeString(link.Title))
	if link.Description != "" {
		fmt.Fprintf(b, "%s<DD>%s\n", prefix, html.EscapeString(link.Description))
	}
}

// exportTags joins non-empty tags with commas, the TAGS separator.
func exportTags(tags []string) string {
	parts := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, ",")
}

// WriteFile writes the export to path, creating parent directories.
func WriteFile(path string, links []model.Link) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(ExportHTML(links)), 0644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}
