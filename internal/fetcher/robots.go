package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// Default cache TTL for robots.txt entries.
const defaultRobotsCacheTTL = 24 * time.Hour

// robotsTxtPath is the well-known path for robots.txt files.
const robotsTxtPath = "/robots.txt"

// maxRobotsBodyBytes limits the size of robots.txt responses we will read.
const maxRobotsBodyBytes = 512 * 1024 // 512 KB

// RobotsAllower checks robots.txt compliance.
type RobotsAllower interface {
	IsAllowed(ctx context.Context, rawURL string) (bool, error)
	CrawlDelay(host string) time.Duration
}

// RobotsChecker checks and caches robots.txt rules per host.
type RobotsChecker struct {
	httpClient *http.Client
	userAgent  string
	cacheTTL   time.Duration

	mu    sync.RWMutex
	cache map[string]*robotsEntry // keyed by lower-cased host
}

type robotsEntry struct {
	data      *robotstxt.RobotsData
	fetchedAt time.Time
	allowAll  bool // robots.txt missing, unreadable or non-2xx
}

// NewRobotsChecker creates a new RobotsChecker. A zero cacheTTL uses 24h.
func NewRobotsChecker(httpClient *http.Client, userAgent string, cacheTTL time.Duration) *RobotsChecker {
	if cacheTTL == 0 {
		cacheTTL = defaultRobotsCacheTTL
	}
	return &RobotsChecker{
		httpClient: httpClient,
		userAgent:  userAgent,
		cacheTTL:   cacheTTL,
		cache:      make(map[string]*robotsEntry),
	}
}

// IsAllowed reports whether rawURL may be fetched by this user agent.
// A missing or failing robots.txt allows everything.
func (r *RobotsChecker) IsAllowed(ctx context.Context, rawURL string) (bool, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false, fmt.Errorf("robots: parse url: %w", err)
	}

	host := strings.ToLower(parsed.Host)
	if host == "" {
		return false, fmt.Errorf("robots: empty host in url %q", rawURL)
	}

	entry := r.entryFor(ctx, host, parsed.Scheme)
	if entry.allowAll {
		return true, nil
	}

	path := parsed.EscapedPath()
	if parsed.RawQuery != "" {
		path += "?" + parsed.RawQuery
	}
	return entry.data.TestAgent(path, r.userAgent), nil
}

// CrawlDelay returns the Crawl-delay robots.txt sets for host, or 0.
func (r *RobotsChecker) CrawlDelay(host string) time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.cache[strings.ToLower(host)]
	if !ok || entry.allowAll || entry.data == nil {
		return 0
	}

	group := entry.data.FindGroup(r.userAgent)
	if group == nil {
		return 0
	}
	return group.CrawlDelay
}

func (r *RobotsChecker) entryFor(ctx context.Context, host, scheme string) *robotsEntry {
	r.mu.RLock()
	entry, ok := r.cache[host]
	r.mu.RUnlock()
	if ok && time.Since(entry.fetchedAt) <= r.cacheTTL {
		return entry
	}

	if scheme == "" {
		scheme = "https"
	}
	entry = r.fetch(ctx, scheme+"://"+host+robotsTxtPath)

	r.mu.Lock()
	r.cache[host] = entry
	r.mu.Unlock()
	return entry
}

// fetch downloads and parses robots.txt. Every failure degrades to allow-all.
func (r *RobotsChecker) fetch(ctx context.Context, robotsURL string) *robotsEntry {
	allowAll := &robotsEntry{fetchedAt: time.Now(), allowAll: true}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, http.NoBody)
	if err != nil {
		return allowAll
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req) //nolint:gosec // URL derived from crawl target
	if err != nil {
		return allowAll
	}
	defer resp.Body.Close()

	if !isSuccessStatus(resp.StatusCode) {
		return allowAll
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsBodyBytes))
	if err != nil {
		return allowAll
	}

	data, err := robotstxt.FromBytes(body)
	if err != nil {
		return allowAll
	}
	return &robotsEntry{data: data, fetchedAt: time.Now()}
}
