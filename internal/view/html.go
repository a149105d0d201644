package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/url"

	"github.com/nikbrunner/linkshelf/internal/model"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// HTMLTemplates renders fragments from the embedded html/template set.
type HTMLTemplates struct {
	tmpl *template.Template
}

// NewHTMLTemplates parses the embedded fragment templates.
func NewHTMLTemplates() (*HTMLTemplates, error) {
	tmpl, err := template.New("fragments").
		Funcs(template.FuncMap{"pathEscape": url.PathEscape}).
		ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &HTMLTemplates{tmpl: tmpl}, nil
}

// PageData is the input of the full-document "page" template.
type PageData struct {
	Title     string
	Fragments []Fragment
}

// Page renders a complete HTML document around the given fragments.
func (h *HTMLTemplates) Page(data PageData) ([]byte, error) {
	safe := struct {
		Title     string
		Fragments []template.HTML
	}{Title: data.Title, Fragments: trusted(data.Fragments)}

	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "page", safe); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}

func (h *HTMLTemplates) CountHeader(count int) Fragment {
	return h.execute("count-header", count)
}

func (h *HTMLTemplates) LinkItem(link model.Link) Fragment {
	return h.execute("link-item", link)
}

func (h *HTMLTemplates) LinkList(items []Fragment) Fragment {
	return h.execute("link-list", trusted(items))
}

func (h *HTMLTemplates) TagEntry(tag string) Fragment {
	return h.execute("tag-entry", tag)
}

func (h *HTMLTemplates) TagIndex(entries []Fragment) Fragment {
	return h.execute("tag-index", trusted(entries))
}

func (h *HTMLTemplates) NewLinkForm(values FormValues) Fragment {
	return h.execute("new-link-form", values)
}

func (h *HTMLTemplates) BackLink() Fragment {
	return h.execute("back-link", nil)
}

// execute renders a named fragment. Fragments are parsed at startup, so an
// execution error means bad data; it is logged and rendered as empty.
func (h *HTMLTemplates) execute(name string, data any) Fragment {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("render fragment", "template", name, "error", err)
		return ""
	}
	return Fragment(buf.String())
}

// trusted marks fragments produced by this template set as safe HTML so
// nesting them does not escape them twice.
func trusted(fragments []Fragment) []template.HTML {
	out := make([]template.HTML, len(fragments))
	for i, f := range fragments {
		out[i] = template.HTML(f)
	}
	return out
}
