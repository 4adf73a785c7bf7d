package util

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// RobotsGate enforces robots.txt politeness for marketplace hosts that
// are scraped pages rather than sanctioned APIs. Rules are fetched once
// per host and cached for the process lifetime.
type RobotsGate struct {
	mu     sync.RWMutex
	rules  map[string]*robotstxt.RobotsData
	client *http.Client
	agent  string
}

// NewRobotsGate creates a gate identifying itself with the given user
// agent. The product token (text before the first "/") is what
// robots.txt group matching uses.
func NewRobotsGate(userAgent string, timeout time.Duration) *RobotsGate {
	return &RobotsGate{
		rules:  make(map[string]*robotstxt.RobotsData),
		client: &http.Client{Timeout: timeout},
		agent:  productToken(userAgent),
	}
}

// Allowed reports whether rawURL may be fetched and any crawl delay the
// host requests. An unreachable or unparsable robots.txt allows the
// fetch: politeness must not turn an advisory file into an outage.
func (g *RobotsGate) Allowed(ctx context.Context, rawURL string) (bool, time.Duration) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return true, 0
	}

	data, err := g.hostRules(ctx, parsed.Scheme, parsed.Host)
	if err != nil {
		return true, 0
	}

	delay := time.Duration(0)
	if group := data.FindGroup(g.agent); group != nil {
		delay = group.CrawlDelay
	}
	return data.TestAgent(parsed.Path, g.agent), delay
}

// hostRules returns the cached robots.txt data for a host, fetching on
// first use.
func (g *RobotsGate) hostRules(ctx context.Context, scheme, host string) (*robotstxt.RobotsData, error) {
	g.mu.RLock()
	data, ok := g.rules[host]
	g.mu.RUnlock()
	if ok {
		return data, nil
	}

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", scheme, host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", g.agent)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err = robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}

	g.mu.Lock()
	g.rules[host] = data
	g.mu.Unlock()
	return data, nil
}

// Forget drops cached rules so the next lookup refetches them
func (g *RobotsGate) Forget() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rules = make(map[string]*robotstxt.RobotsData)
}

// productToken reduces a full User-Agent string to the bare product
// name robots.txt groups are keyed by.
func productToken(ua string) string {
	fields := strings.Fields(ua)
	if len(fields) == 0 {
		return ua
	}
	return strings.Split(fields[0], "/")[0]
}
