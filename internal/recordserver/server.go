// Package recordserver serves a Parse-compatible REST record store backed by
// storage.Storage, so linkshelf can run without a hosted backend.
package recordserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/nikbrunner/linkshelf/internal/model"
	"github.com/nikbrunner/linkshelf/internal/remote"
	"github.com/nikbrunner/linkshelf/internal/storage"
)

// Parse error codes returned in the response body.
const (
	CodeObjectNotFound = 101
	CodeInvalidJSON    = 107
	CodeIncorrectType  = 111
)

// Field limits, in characters.
const (
	MaxTitleLength       = 256
	MaxURLLength         = 2048
	MaxDescriptionLength = 4096
	MaxTagLength         = model.MaxTagLength
	MaxTags              = model.MaxTags

	maxBodyBytes = 1 << 20
)

// Server handles /classes/{class} requests.
type Server struct {
	store       storage.Storage
	credentials remote.Credentials
	now         func() time.Time
	newID       func() string
}

// Option configures a Server.
type Option func(*Server)

// WithCredentials requires both headers on every request. Empty values
// disable the check for that header.
func WithCredentials(creds remote.Credentials) Option {
	return func(s *Server) {
		s.credentials = creds
	}
}

// WithClock overrides the time source for createdAt/updatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// WithIDGenerator overrides how object IDs are assigned.
func WithIDGenerator(newID func() string) Option {
	return func(s *Server) {
		s.newID = newID
	}
}

// New creates a Server storing records in store.
func New(store storage.Storage, opts ...Option) *Server {
	s := &Server{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP handler for the record API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /classes/{class}", s.handleList)
	mux.HandleFunc("POST /classes/{class}", s.handleCreate)
	mux.HandleFunc("DELETE /classes/{class}/{id}", s.handleDelete)
	return withLogging(s.withAuth(mux))
}

type errorBody struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

type listBody struct {
	Results []model.Link `json:"results"`
}

type createdBody struct {
	ObjectID  string    `json:"objectId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	links, err := s.store.List(r.Context(), r.PathValue("class"))
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listBody{Results: links})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	class := r.PathValue("class")

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidJSON, "could not read body")
		return
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		writeError(w, http.StatusBadRequest, CodeInvalidJSON, "invalid JSON")
		return
	}

	link, err := decodeLink(class, fields)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeIncorrectType, err.Error())
		return
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	link.ID = s.newID()
	link.CreatedAt = now
	link.UpdatedAt = now

	if err := s.store.Insert(r.Context(), class, link); err != nil {
		s.internalError(w, r, err)
		return
	}

	slog.Debug("record created", "class", class, "id", link.ID)
	w.Header().Set("Location", "/classes/"+class+"/"+link.ID)
	writeJSON(w, http.StatusCreated, createdBody{ObjectID: link.ID, CreatedAt: now})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	class, id := r.PathValue("class"), r.PathValue("id")

	err := s.store.Delete(r.Context(), class, id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, CodeObjectNotFound, "Object not found.")
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	slog.Debug("record deleted", "class", class, "id", id)
	writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("record store failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, 1, "internal server error")
}

// decodeLink checks the known fields' types and lengths. Unknown fields
// are ignored.
func decodeLink(class string, fields map[string]json.RawMessage) (model.Link, error) {
	link := model.Link{Tags: []string{}}

	strField := func(name string, max int, dst *string) error {
		raw, ok := fields[name]
		if !ok {
			return nil
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return fmt.Errorf("schema mismatch for %s.%s; expected String", class, name)
		}
		if utf8.RuneCountInString(*dst) > max {
			return fmt.Errorf("%s.%s exceeds %d characters", class, name, max)
		}
		return nil
	}

	if err := strField("title", MaxTitleLength, &link.Title); err != nil {
		return model.Link{}, err
	}
	if err := strField("url", MaxURLLength, &link.URL); err != nil {
		return model.Link{}, err
	}
	if err := strField("description", MaxDescriptionLength, &link.Description); err != nil {
		return model.Link{}, err
	}

	if raw, ok := fields["tags"]; ok {
		var tags []string
		if err := json.Unmarshal(raw, &tags); err != nil {
			return model.Link{}, fmt.Errorf("schema mismatch for %s.tags; expected Array of String", class)
		}
		if len(tags) > MaxTags {
			return model.Link{}, fmt.Errorf("%s.tags exceeds %d entries", class, MaxTags)
		}
		for _, tag := range tags {
			if utf8.RuneCountInString(tag) > MaxTagLength {
				return model.Link{}, fmt.Errorf("%s.tags entry exceeds %d characters", class, MaxTagLength)
			}
		}
		if tags != nil {
			link.Tags = tags
		}
	}

	return link, nil
}

// withAuth rejects requests whose credential headers don't match.
func (s *Server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			appID := s.credentials.ApplicationID
			apiKey := s.credentials.APIKey
			if (appID != "" && r.Header.Get(remote.HeaderApplicationID) != appID) ||
				(apiKey != "" && r.Header.Get(remote.HeaderAPIKey) != apiKey) {
				writeError(w, http.StatusUnauthorized, 0, "unauthorized")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

func writeError(w http.ResponseWriter, status, code int, msg string) {
	writeJSON(w, status, errorBody{Code: code, Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}
