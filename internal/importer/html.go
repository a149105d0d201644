// Package importer reads Netscape bookmark files into the link collection.
package importer

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/nikbrunner/linkshelf/internal/collection"
	"github.com/nikbrunner/linkshelf/internal/model"
	"golang.org/x/net/html"
)

// ParseHTML parses Netscape bookmark HTML into link fields, in document
// order. The TAGS attribute and the names of enclosing folders become
// tags; a <DD> following a link becomes its description.
func ParseHTML(r io.Reader) ([]model.LinkFields, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse bookmarks: %w", err)
	}

	var entries []model.LinkFields
	last := -1 // index of the link a <DD> would describe

	var folderStack []string
	var pendingFolder string // folder waiting to be pushed on next DL

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "h3":
				pendingFolder = textContent(n)
				last = -1
				return

			case "a":
				href := attr(n, "href")
				if href == "" {
					return
				}
				title := textContent(n)
				if title == "" {
					title = href
				}

				entries = append(entries, model.LinkFields{
					Title:       model.String(title),
					URL:         model.String(href),
					Description: model.String(""),
					Tags:        linkTags(attr(n, "tags"), folderStack),
				})
				last = len(entries) - 1
				return

			case "dd":
				if last >= 0 {
					if desc := ownText(n); desc != "" {
						entries[last].Description = model.String(desc)
					}
					last = -1
				}

			case "dl":
				pushed := false
				if pendingFolder != "" {
					folderStack = append(folderStack, pendingFolder)
					pendingFolder = ""
					pushed = true
				}

				for c := n.FirstChild; c != nil; c = c.NextSibling {
					parse(c)
				}

				if pushed {
					folderStack = folderStack[:len(folderStack)-1]
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(doc)
	return entries, nil
}

// linkTags merges the comma separated TAGS attribute with the folder path.
// Duplicates are dropped and tags are fitted to the store's limits; the
// result is never nil.
func linkTags(attrTags string, folders []string) []string {
	tags := []string{}
	seen := make(map[string]bool)
	add := func(t string) {
		t = model.ClampTag(strings.TrimSpace(t))
		if t == "" || seen[t] || len(tags) >= model.MaxTags {
			return
		}
		seen[t] = true
		tags = append(tags, t)
	}

	for _, t := range strings.Split(attrTags, ",") {
		add(t)
	}
	for _, f := range folders {
		add(f)
	}
	return tags
}

// Result summarises an import.
type Result struct {
	Imported int
	Skipped  int // URL already present
}

// Import creates every entry whose URL is not yet in links. links should
// be fetched first so existing records are known. It stops at the first
// failed create and returns the counts so far.
func Import(ctx context.Context, links *collection.Collection, entries []model.LinkFields) (Result, error) {
	var res Result
	for _, e := range entries {
		if e.URL != nil && links.HasURL(*e.URL) {
			res.Skipped++
			continue
		}
		if _, err := links.Create(ctx, e); err != nil {
			return res, fmt.Errorf("import %s: %w", deref(e.URL), err)
		}
		res.Imported++
	}
	return res, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// textContent returns the trimmed text of n and its descendants.
func textContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// ownText returns the trimmed text of n's direct children only. A <DD>
// may swallow the following folder list, which must not leak in.
func ownText(n *html.Node) string {
	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			text.WriteString(c.Data)
		}
	}
	return strings.TrimSpace(text.String())
}

// attr returns the value of an attribute, case-insensitive.
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}
