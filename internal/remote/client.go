package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nikbrunner/linkshelf/internal/model"
)

const (
	// HeaderApplicationID and HeaderAPIKey are sent on every request.
	HeaderApplicationID = "X-Parse-Application-Id"
	HeaderAPIKey        = "X-Parse-REST-API-Key"

	DefaultClass = "Bookmarks"

	opList   = "list"
	opCreate = "create"
	opDelete = "delete"
)

// Credentials are the two static headers the record store expects.
type Credentials struct {
	ApplicationID string
	APIKey        string
}

// Client talks to a Parse-style REST record store.
type Client struct {
	httpClient  *http.Client
	endpoint    string
	class       string
	credentials Credentials
}

// Option configures a Client.
type Option func(*Client)

// WithClass sets the class (table) name. Defaults to "Bookmarks".
func WithClass(class string) Option {
	return func(c *Client) {
		c.class = class
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewClient creates a client for the store rooted at endpoint,
// e.g. "https://api.parse.com/1".
func NewClient(endpoint string, creds Credentials, opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		endpoint:    strings.TrimRight(endpoint, "/"),
		class:       DefaultClass,
		credentials: creds,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// listResponse is the envelope the store wraps list results in.
type listResponse struct {
	Results []record `json:"results"`
}

// record is a stored object as returned by the store. Content fields are
// pointers so absent keys fall back to the link defaults.
type record struct {
	ObjectID    string    `json:"objectId"`
	Title       *string   `json:"title"`
	URL         *string   `json:"url"`
	Description *string   `json:"description"`
	Tags        *[]string `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (r record) link() model.Link {
	fields := model.LinkFields{
		Title:       r.Title,
		URL:         r.URL,
		Description: r.Description,
	}
	if r.Tags != nil {
		fields.Tags = *r.Tags
		if fields.Tags == nil {
			fields.Tags = []string{}
		}
	}

	link := model.NewLink(fields)
	link.ID = r.ObjectID
	link.CreatedAt = r.CreatedAt
	link.UpdatedAt = r.UpdatedAt
	return link
}

type createResponse struct {
	ObjectID  string    `json:"objectId"`
	CreatedAt time.Time `json:"createdAt"`
}

type errorResponse struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

// createRequest is the payload for a new record. Identity and timestamps
// are assigned by the store.
type createRequest struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// List returns all records in store order.
func (c *Client) List(ctx context.Context) ([]model.Link, error) {
	body, err := c.do(ctx, opList, http.MethodGet, c.classURL(), nil)
	if err != nil {
		return nil, err
	}

	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode list: %v", ErrServer, err)
	}

	links := make([]model.Link, 0, len(resp.Results))
	for _, r := range resp.Results {
		links = append(links, r.link())
	}
	return links, nil
}

// Create persists link and returns it with its assigned identity.
func (c *Client) Create(ctx context.Context, link model.Link) (model.Link, error) {
	tags := link.Tags
	if tags == nil {
		tags = []string{}
	}
	payload, err := json.Marshal(createRequest{
		Title:       link.Title,
		URL:         link.URL,
		Description: link.Description,
		Tags:        tags,
	})
	if err != nil {
		return model.Link{}, fmt.Errorf("marshal request: %w", err)
	}

	body, err := c.do(ctx, opCreate, http.MethodPost, c.classURL(), payload)
	if err != nil {
		return model.Link{}, err
	}

	var resp createResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return model.Link{}, fmt.Errorf("%w: decode create: %v", ErrServer, err)
	}
	if resp.ObjectID == "" {
		return model.Link{}, fmt.Errorf("%w: create returned no objectId", ErrServer)
	}

	saved := link.Clone()
	saved.ID = resp.ObjectID
	saved.CreatedAt = resp.CreatedAt
	saved.UpdatedAt = resp.CreatedAt
	return saved, nil
}

// Delete removes the record with the given identity.
func (c *Client) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty id", ErrNotFound)
	}
	_, err := c.do(ctx, opDelete, http.MethodDelete, c.classURL()+"/"+url.PathEscape(id), nil)
	return err
}

func (c *Client) classURL() string {
	return c.endpoint + "/classes/" + url.PathEscape(c.class)
}

// do sends one request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, op, method, target string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set(HeaderApplicationID, c.credentials.ApplicationID)
	req.Header.Set(HeaderAPIKey, c.credentials.APIKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNetwork, op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: read response: %v", ErrNetwork, op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{
			Op:         op,
			StatusCode: resp.StatusCode,
			kind:       classify(op, resp.StatusCode),
		}
		var parsed errorResponse
		if json.Unmarshal(body, &parsed) == nil {
			statusErr.Code = parsed.Code
			statusErr.Message = parsed.Error
		}
		return nil, statusErr
	}

	return body, nil
}
