// Package marketdata retrieves comparable marketplace listings for a
// query and distills them into historical and live market summaries.
// The external index is a plain keyword search with no semantic
// ranking: zero hits is a common, meaningful outcome, and the resolver
// degrades queries progressively instead of giving up.
package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/comparia/comparia/internal/model"
	"github.com/comparia/comparia/internal/util"
	"github.com/comparia/comparia/internal/worker"
)

// SearchClient is the keyword-search capability lookups run against
type SearchClient interface {
	// Search returns the listings matching query in the given scope. An
	// empty slice with a nil error means the query genuinely matched
	// nothing; errors are reserved for transport and service failures.
	Search(ctx context.Context, query string, scope model.SearchScope) ([]model.Listing, error)
}

// HTTPOptions configures the networked search client
type HTTPOptions struct {
	BaseURL       string
	UserAgent     string
	Timeout       time.Duration
	MaxBodyBytes  int64
	RespectRobots bool

	// HTTPProxy and HTTPSProxy override proxy resolution from the
	// environment.
	HTTPProxy  string
	HTTPSProxy string

	// RequestsPerSecond and Burst pace lookups per host.
	RequestsPerSecond float64
	Burst             int
}

// HTTPClient queries a JSON search API.
//
// Expected endpoint:
//
//	GET {base}/api/search?q=...&scope=ended|live
//	  -> {"listings":[...]} or a bare array
//
// Lookups are paced per host and optionally gated through robots.txt
// when the endpoint is a scraped page rather than a sanctioned API.
type HTTPClient struct {
	baseURL  string
	client   *http.Client
	agent    string
	maxBytes int64
	limiter  *worker.Limiter
	robots   *util.RobotsGate
}

// NewHTTPClient validates the options and builds a networked client
func NewHTTPClient(opts HTTPOptions) (*HTTPClient, error) {
	base := strings.TrimSpace(opts.BaseURL)
	if base == "" {
		return nil, errors.New("marketplace base URL is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid marketplace base URL: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	agent := strings.TrimSpace(opts.UserAgent)
	if agent == "" {
		agent = "Comparia/0.3"
	}
	maxBytes := opts.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 2_000_000
	}
	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}

	transport := &http.Transport{
		Proxy: util.NewProxyFunc(opts.HTTPProxy, opts.HTTPSProxy),
	}
	c := &HTTPClient{
		baseURL:  strings.TrimRight(base, "/"),
		client:   &http.Client{Timeout: timeout, Transport: transport},
		agent:    agent,
		maxBytes: maxBytes,
		limiter:  worker.NewLimiter(rps, opts.Burst),
	}
	if opts.RespectRobots {
		c.robots = util.NewRobotsGate(agent, timeout)
	}
	return c, nil
}

// Search implements SearchClient against the JSON endpoint
func (c *HTTPClient) Search(ctx context.Context, query string, scope model.SearchScope) ([]model.Listing, error) {
	u, err := url.Parse(c.baseURL + "/api/search")
	if err != nil {
		return nil, fmt.Errorf("build search URL: %w", err)
	}
	q := u.Query()
	q.Set("q", strings.TrimSpace(query))
	q.Set("scope", string(scope))
	u.RawQuery = q.Encode()
	target := u.String()

	delay := time.Duration(0)
	if c.robots != nil {
		allowed, crawlDelay := c.robots.Allowed(ctx, target)
		if !allowed {
			return nil, fmt.Errorf("robots.txt disallows %s", u.Host)
		}
		delay = crawlDelay
	}
	if err := c.limiter.WaitWithDelay(ctx, target, delay); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.agent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return parseListings(body)
}

// parseListings accepts both object-wrapped and bare-array payloads,
// since marketplace APIs disagree on which one they emit.
func parseListings(body []byte) ([]model.Listing, error) {
	var wrapped struct {
		Listings []model.Listing `json:"listings"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Listings != nil {
		return wrapped.Listings, nil
	}
	var listings []model.Listing
	if err := json.Unmarshal(body, &listings); err != nil {
		return nil, fmt.Errorf("parse search payload: %w", err)
	}
	return listings, nil
}

// MockClient produces synthetic listings for demos and offline runs.
// Results are deterministic for a given query, scope and seed, and the
// hit count shrinks as queries grow more specific, so the relaxation
// ladder gets exercised without a network.
type MockClient struct {
	seed int64
}

// NewMockClient creates a mock client. Seed zero derives one from the
// clock; fix it for reproducible runs.
func NewMockClient(seed int64) *MockClient {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &MockClient{seed: seed}
}

// Search implements SearchClient with synthetic data
func (m *MockClient) Search(ctx context.Context, query string, scope model.SearchScope) ([]model.Listing, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	q := strings.TrimSpace(strings.ReplaceAll(query, `"`, ""))
	words := len(strings.Fields(q))

	h := fnv.New64a()
	h.Write([]byte(q + "|" + string(scope)))
	r := rand.New(rand.NewSource(int64(h.Sum64()) ^ m.seed))

	var n int
	switch {
	case words == 0:
		n = 0
	case words >= 4:
		n = 0 // over-specific, let the ladder work
	case words == 3:
		n = r.Intn(2)
	case words == 2:
		n = 3 + r.Intn(5)
	default:
		n = 8 + r.Intn(8)
	}

	base := 800 + r.Intn(7)*350
	listings := make([]model.Listing, 0, n)
	for i := 0; i < n; i++ {
		l := model.Listing{
			ID:    fmt.Sprintf("%s-%d", scope, i+1),
			Title: fmt.Sprintf("%s, nr %d", q, i+1),
		}
		if scope == model.ScopeEnded {
			l.Price = base + i*120 + r.Intn(400)
			l.Bids = 1 + r.Intn(14)
		} else {
			l.Estimate = base + i*150 + r.Intn(300)
			l.Bids = r.Intn(9)
			l.ReserveMet = r.Intn(100) < 55
		}
		listings = append(listings, l)
	}
	return listings, nil
}
