// Package web serves the router's page over HTTP.
package web

import (
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/nikbrunner/linkshelf/internal/collection"
	"github.com/nikbrunner/linkshelf/internal/model"
	"github.com/nikbrunner/linkshelf/internal/router"
	"github.com/nikbrunner/linkshelf/internal/view"
)

// Server renders one shared page. Requests are handled one at a time.
type Server struct {
	links     *collection.Collection
	templates *view.HTMLTemplates
	router    *router.Router

	mu sync.Mutex
}

// NewServer builds a router over links rendered with the HTML templates.
func NewServer(links *collection.Collection) (*Server, error) {
	tmpl, err := view.NewHTMLTemplates()
	if err != nil {
		return nil, err
	}
	return &Server{
		links:     links,
		templates: tmpl,
		router:    router.New(router.Params{Links: links, Templates: tmpl}),
	}, nil
}

// Close detaches the page's views from the collection.
func (s *Server) Close() { s.router.Close() }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /tags/{tag}", s.handleTag)
	mux.HandleFunc("POST /links", s.handleCreate)
	mux.HandleFunc("POST /links/{id}/delete", s.handleDelete)
	return withSecurityHeaders(s.serialize(mux))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, router.Index())
}

func (s *Server) handleTag(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, router.Tag(r.PathValue("tag")))
}

// navigate enters route and writes the page. A failed fetch is logged and
// the previous page is served unchanged.
func (s *Server) navigate(w http.ResponseWriter, r *http.Request, route router.Route) {
	if err := s.router.Go(r.Context(), route); err != nil {
		slog.Warn("navigate failed", "route", route.String(), "error", err)
	}

	title := "linkshelf"
	if route.Kind == router.FilteredByTag {
		title += " #" + route.Tag
	}

	page, err := s.templates.Page(view.PageData{
		Title:     title,
		Fragments: s.router.Page().Fragments(),
	})
	if err != nil {
		slog.Error("render page", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(page)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	form := s.router.Form()
	form.SetValues(view.FormValues{
		Title:       r.PostFormValue("title"),
		URL:         r.PostFormValue("url"),
		Description: r.PostFormValue("description"),
		Tags:        r.PostFormValue("tags"),
	})
	if link, err := form.Submit(r.Context()); err != nil {
		slog.Warn("create failed", "error", err)
	} else {
		slog.Info("link created", "id", link.ID, "url", link.URL)
	}

	http.Redirect(w, r, returnPath(r), http.StatusSeeOther)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	link, ok := s.links.Get(id)
	if !ok {
		link = model.Link{ID: id}
	}
	if err := s.links.Destroy(r.Context(), link); err != nil {
		slog.Warn("delete failed", "id", id, "error", err)
	} else {
		slog.Info("link deleted", "id", id)
	}

	http.Redirect(w, r, returnPath(r), http.StatusSeeOther)
}

// returnPath is the route the request came from, or "/".
func returnPath(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" {
		return "/"
	}
	if ref.Host != "" && ref.Host != r.Host {
		return "/"
	}
	route, err := router.ParseRoute(ref.EscapedPath())
	if err != nil {
		return "/"
	}
	return route.Path()
}

func (s *Server) serialize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "same-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; base-uri 'none'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}
