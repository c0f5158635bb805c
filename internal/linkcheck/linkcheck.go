// Package linkcheck verifies the external links attached to publication
// records (url, doi, and remote pdf/slides/poster fields).
package linkcheck

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/fleury/bibsite/internal/publist"
)

const (
	// DefaultTimeout is the default per-request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit keeps us polite toward publisher and DOI servers.
	DefaultRateLimit = 10.0

	// doiResolver prefixes bare DOIs for resolution checks.
	doiResolver = "https://doi.org/"
)

// Checker is a rate-limited HTTP link checker.
type Checker struct {
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures a Checker.
type Option func(*Checker)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Checker) {
		c.httpClient = hc
	}
}

// WithRateLimit sets the request rate in requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *Checker) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewChecker creates a link checker.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result is the outcome of checking one link.
type Result struct {
	URL    string `json:"url"`
	Status int    `json:"status,omitempty"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
}

// Check verifies a single link. It tries HEAD first and falls back to GET
// for servers that reject HEAD.
func (c *Checker) Check(ctx context.Context, url string) Result {
	if err := c.limiter.Wait(ctx); err != nil {
		return Result{URL: url, Error: err.Error()}
	}

	status, err := c.request(ctx, http.MethodHead, url)
	if err == nil && (status == http.StatusMethodNotAllowed || status == http.StatusForbidden) {
		status, err = c.request(ctx, http.MethodGet, url)
	}
	if err != nil {
		return Result{URL: url, Error: err.Error()}
	}

	return Result{
		URL:    url,
		Status: status,
		OK:     status >= 200 && status < 400,
	}
}

// CheckAll verifies links in order, honoring the rate limit and context
// cancellation.
func (c *Checker) CheckAll(ctx context.Context, urls []string) []Result {
	results := make([]Result, 0, len(urls))
	for _, u := range urls {
		results = append(results, c.Check(ctx, u))
	}
	return results
}

func (c *Checker) request(ctx context.Context, method, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return 0, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	return resp.StatusCode, nil
}

// CollectLinks gathers the unique http(s) links referenced by the records:
// url fields, remote pdf/slides/poster fields, and DOI resolver URLs.
// Local asset paths are skipped; those belong to the asset checker.
func CollectLinks(records []publist.Record) []string {
	seen := make(map[string]bool)
	var links []string

	add := func(u string) {
		if u == "" || seen[u] {
			return
		}
		seen[u] = true
		links = append(links, u)
	}

	for _, r := range records {
		for _, field := range []string{r.URL, r.PDF, r.Slides, r.Poster} {
			if IsRemote(field) {
				add(field)
			}
		}
		if r.DOI != "" {
			add(doiResolver + r.DOI)
		}
	}

	sort.Strings(links)
	return links
}

// IsRemote reports whether a field value is an http(s) link rather than a
// local asset path.
func IsRemote(v string) bool {
	return strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://")
}
