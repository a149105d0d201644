// Package culler finds links whose URLs no longer resolve.
package culler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nikbrunner/linkshelf/internal/model"
)

// Status represents the health status of a URL.
type Status int

const (
	Healthy     Status = iota // 2xx or 3xx response
	Dead                      // 404 or 410 Gone
	Unreachable               // timeout, DNS failure, connection refused, etc.
)

func (s Status) String() string {
	switch s {
	case Healthy:
		return "healthy"
	case Dead:
		return "dead"
	default:
		return "unreachable"
	}
}

// Result holds the check result for a single link.
type Result struct {
	Link       model.Link
	Status     Status
	StatusCode int    // HTTP status code (0 if connection failed)
	Error      string // Error message for unreachable URLs
}

// Options tune a check run.
type Options struct {
	Concurrency int
	Timeout     time.Duration
	// ExcludeDomains are hosts where a 404 may mean "private" rather than dead.
	ExcludeDomains []string
	// OnProgress is called after each URL is checked.
	OnProgress func(completed, total int)
	// Client overrides the HTTP client; Timeout is ignored when set.
	Client *http.Client
}

// DefaultOptions returns the options used by the check command.
func DefaultOptions() Options {
	return Options{
		Concurrency:    10,
		Timeout:        10 * time.Second,
		ExcludeDomains: []string{"github.com", "gitlab.com"},
	}
}

const maxRedirects = 10

var errHeadRejected = errors.New("HEAD not allowed")

// CheckLinks checks all link URLs concurrently and returns one result per
// link, in input order.
func CheckLinks(ctx context.Context, links []model.Link, opts Options) []Result {
	if len(links) == 0 {
		return nil
	}

	excludeMap := make(map[string]bool)
	for _, domain := range opts.ExcludeDomains {
		excludeMap[strings.ToLower(domain)] = true
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{
			Timeout: opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return http.ErrUseLastResponse
				}
				return nil
			},
		}
	}

	workers := opts.Concurrency
	if workers < 1 {
		workers = 1
	}

	results := make([]Result, len(links))
	jobs := make(chan int, len(links))
	var wg sync.WaitGroup

	var progressMu sync.Mutex
	completed := 0

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = checkURL(ctx, client, links[idx], excludeMap)

				if opts.OnProgress != nil {
					progressMu.Lock()
					completed++
					opts.OnProgress(completed, len(links))
					progressMu.Unlock()
				}
			}
		}()
	}

	for i := range links {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// checkURL tries HEAD, then GET for servers that reject HEAD.
func checkURL(ctx context.Context, client *http.Client, link model.Link, excludeMap map[string]bool) Result {
	result := Result{Link: link}

	resp, err := do(ctx, client, http.MethodHead, link.URL)
	if err == nil && resp.StatusCode == http.StatusMethodNotAllowed {
		resp.Body.Close()
		err = errHeadRejected
	}
	if err != nil {
		resp, err = do(ctx, client, http.MethodGet, link.URL)
		if err != nil {
			result.Status = Unreachable
			result.Error = normalizeError(err.Error())
			return result
		}
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		result.Status = Healthy
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		if isExcludedDomain(link.URL, excludeMap) {
			result.Status = Unreachable
			result.Error = "Possibly private (auth required)"
		} else {
			result.Status = Dead
		}
	default:
		// 5xx, 403 and friends may be temporary or need auth
		result.Status = Unreachable
		result.Error = http.StatusText(resp.StatusCode)
	}

	return result
}

func do(ctx context.Context, client *http.Client, method, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return client.Do(req)
}

// isExcludedDomain checks the URL's host and its parent domains against
// the exclude list.
func isExcludedDomain(rawURL string, excludeMap map[string]bool) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	if excludeMap[host] {
		return true
	}
	for domain := range excludeMap {
		if strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// normalizeError simplifies verbose error messages into readable categories.
func normalizeError(errStr string) string {
	lower := strings.ToLower(errStr)

	switch {
	case strings.Contains(lower, "unsupported protocol scheme"):
		return "Not a web URL"
	case strings.Contains(lower, "no such host"):
		return "DNS failure"
	case strings.Contains(lower, "context deadline exceeded"),
		strings.Contains(lower, "timeout"):
		return "Timeout"
	case strings.Contains(lower, "connection refused"):
		return "Connection refused"
	case strings.Contains(lower, "certificate"):
		return "TLS/certificate error"
	case strings.Contains(lower, "network is unreachable"):
		return "Network unreachable"
	case strings.Contains(lower, "tls:"):
		return "TLS error"
	default:
		return errStr
	}
}

// Group is a set of results sharing a status and error label.
type Group struct {
	Label   string // "DEAD", "DNS failure", etc.
	Status  Status
	Results []Result
}

// GroupResults groups unhealthy results: dead links first, then each
// unreachable error label alphabetically. Healthy results are dropped.
func GroupResults(results []Result) []Group {
	var dead []Result
	byError := make(map[string][]Result)
	for _, r := range results {
		switch r.Status {
		case Dead:
			dead = append(dead, r)
		case Unreachable:
			byError[r.Error] = append(byError[r.Error], r)
		}
	}

	var groups []Group
	if len(dead) > 0 {
		groups = append(groups, Group{Label: "DEAD", Status: Dead, Results: dead})
	}

	labels := make([]string, 0, len(byError))
	for label := range byError {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		groups = append(groups, Group{Label: label, Status: Unreachable, Results: byError[label]})
	}
	return groups
}
