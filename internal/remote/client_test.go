package remote_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nikbrunner/linkshelf/internal/model"
	"github.com/nikbrunner/linkshelf/internal/remote"
	"gotest.tools/v3/assert"
)

var testCreds = remote.Credentials{ApplicationID: "app", APIKey: "key"}

func newTestClient(t *testing.T, handler http.HandlerFunc) *remote.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return remote.NewClient(server.URL+"/1/", testCreds, remote.WithTimeout(5*time.Second))
}

func TestClient_ListUnwrapsEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/1/classes/Bookmarks" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get(remote.HeaderApplicationID); got != "app" {
			t.Errorf("application id header = %q", got)
		}
		if got := r.Header.Get(remote.HeaderAPIKey); got != "key" {
			t.Errorf("api key header = %q", got)
		}
		_, _ = io.WriteString(w, `{"results":[
			{"objectId":"1","title":"t","url":"https://a","description":"d","tags":["x","y"]},
			{"objectId":"2","title":"u","url":"https://b","description":""}
		]}`)
	})

	links, err := client.List(context.Background())
	assert.NilError(t, err)
	assert.Equal(t, len(links), 2)
	assert.Equal(t, links[0].ID, "1")
	assert.DeepEqual(t, links[0].Tags, []string{"x", "y"})
	assert.Equal(t, links[1].ID, "2")
	assert.Equal(t, links[1].Description, "")
	assert.DeepEqual(t, links[1].Tags, []string{"default"})
}

func TestClient_ListAppliesDefaultsToMissingFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"results":[
			{"objectId":"1","title":"t","createdAt":"2024-01-02T03:04:05Z"},
			{"objectId":"2","title":"u","url":"https://b","description":"d","tags":[]}
		]}`)
	})

	links, err := client.List(context.Background())
	assert.NilError(t, err)
	assert.Equal(t, len(links), 2)

	assert.Equal(t, links[0].ID, "1")
	assert.Equal(t, links[0].Title, "t")
	assert.Equal(t, links[0].URL, model.DefaultURL)
	assert.Equal(t, links[0].Description, model.DefaultDescription)
	assert.DeepEqual(t, links[0].Tags, []string{model.DefaultTag})
	assert.Equal(t, links[0].CreatedAt, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))

	assert.DeepEqual(t, links[1].Tags, []string{})
	assert.Equal(t, links[1].URL, "https://b")
}

func TestClient_ListEmptyResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"results":[]}`)
	})

	links, err := client.List(context.Background())
	assert.NilError(t, err)
	assert.Assert(t, links != nil)
	assert.Equal(t, len(links), 0)
}

func TestClient_CustomClass(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/1/classes/Links" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"results":[]}`)
	}))
	defer server.Close()

	client := remote.NewClient(server.URL+"/1", testCreds, remote.WithClass("Links"))
	_, err := client.List(context.Background())
	assert.NilError(t, err)
}

func TestClient_CreateAssignsIdentity(t *testing.T) {
	var received map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"objectId":"new1","createdAt":"2025-01-15T10:30:00.000Z"}`)
	})

	link := model.NewLink(model.LinkFields{Title: model.String("Go")})
	saved, err := client.Create(context.Background(), link)
	assert.NilError(t, err)

	assert.Equal(t, saved.ID, "new1")
	assert.Equal(t, saved.Title, "Go")
	assert.Equal(t, saved.CreatedAt.Year(), 2025)
	assert.Assert(t, link.IsNew(), "input link must not be mutated")

	assert.Equal(t, received["title"], "Go")
	assert.Equal(t, received["url"], "default")
	_, hasID := received["objectId"]
	assert.Assert(t, !hasID, "identity must not be sent on create")
}

func TestClient_ErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		call    func(*remote.Client) error
		wantErr error
	}{
		{
			name:   "list server error",
			status: http.StatusInternalServerError,
			call: func(c *remote.Client) error {
				_, err := c.List(context.Background())
				return err
			},
			wantErr: remote.ErrServer,
		},
		{
			name:   "list unauthorized",
			status: http.StatusUnauthorized,
			call: func(c *remote.Client) error {
				_, err := c.List(context.Background())
				return err
			},
			wantErr: remote.ErrServer,
		},
		{
			name:   "create rejected",
			status: http.StatusBadRequest,
			call: func(c *remote.Client) error {
				_, err := c.Create(context.Background(), model.NewLink(model.LinkFields{}))
				return err
			},
			wantErr: remote.ErrValidation,
		},
		{
			name:   "create server error",
			status: http.StatusBadGateway,
			call: func(c *remote.Client) error {
				_, err := c.Create(context.Background(), model.NewLink(model.LinkFields{}))
				return err
			},
			wantErr: remote.ErrServer,
		},
		{
			name:   "delete missing",
			status: http.StatusNotFound,
			call: func(c *remote.Client) error {
				return c.Delete(context.Background(), "gone")
			},
			wantErr: remote.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, `{"code":111,"error":"bad things"}`)
			})

			err := tt.call(client)
			assert.ErrorIs(t, err, tt.wantErr)

			var statusErr *remote.StatusError
			assert.Assert(t, errors.As(err, &statusErr))
			assert.Equal(t, statusErr.StatusCode, tt.status)
			assert.Equal(t, statusErr.Code, 111)
			assert.Equal(t, statusErr.Message, "bad things")
		})
	}
}

func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	client := remote.NewClient(endpoint, testCreds, remote.WithTimeout(time.Second))

	_, err := client.List(context.Background())
	assert.ErrorIs(t, err, remote.ErrNetwork)

	_, err = client.Create(context.Background(), model.NewLink(model.LinkFields{}))
	assert.ErrorIs(t, err, remote.ErrNetwork)

	err = client.Delete(context.Background(), "1")
	assert.ErrorIs(t, err, remote.ErrNetwork)
}

func TestClient_DeleteEmptyID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for empty id")
	})

	err := client.Delete(context.Background(), "")
	assert.ErrorIs(t, err, remote.ErrNotFound)
}

func TestClient_DeleteEscapesID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		if r.URL.EscapedPath() != "/1/classes/Bookmarks/a%2Fb" {
			t.Errorf("unexpected path: %s", r.URL.EscapedPath())
		}
		_, _ = io.WriteString(w, `{}`)
	})

	assert.NilError(t, client.Delete(context.Background(), "a/b"))
}
