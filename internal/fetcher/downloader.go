package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	fetcherconfig "github.com/tknemuru/kindergarten-collecting/internal/config/fetcher"
	"github.com/tknemuru/kindergarten-collecting/internal/logger"
	"github.com/tknemuru/kindergarten-collecting/internal/pagestore"
	"github.com/tknemuru/kindergarten-collecting/internal/retry"
)

// ErrRobotsDisallowed is logged when robots.txt forbids a URL.
var ErrRobotsDisallowed = errors.New("disallowed by robots.txt")

// NameFunc maps a URL to its destination file path.
type NameFunc func(rawURL string) (string, error)

// Request is one download batch.
type Request struct {
	// URLs are processed in order.
	URLs []string
	// FileName computes each URL's destination path.
	FileName NameFunc
	// Override re-downloads URLs whose destination already exists.
	Override bool
}

// Archiver receives every newly written page.
type Archiver interface {
	Archive(ctx context.Context, rawURL, path string, body []byte) error
}

// Downloader fetches URLs one at a time into the page store.
type Downloader struct {
	getter   Getter
	log      logger.Interface
	delay    DelayPolicy
	retry    retry.Config
	robots   RobotsAllower
	archiver Archiver
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithDelay replaces the politeness delay policy.
func WithDelay(policy DelayPolicy) Option {
	return func(d *Downloader) {
		d.delay = policy
	}
}

// WithRetry replaces the retry configuration.
func WithRetry(cfg retry.Config) Option {
	return func(d *Downloader) {
		d.retry = cfg
	}
}

// WithRobots enables robots.txt checks.
func WithRobots(robots RobotsAllower) Option {
	return func(d *Downloader) {
		d.robots = robots
	}
}

// WithArchiver mirrors newly written pages.
func WithArchiver(archiver Archiver) Option {
	return func(d *Downloader) {
		d.archiver = archiver
	}
}

// NewDownloader creates a Downloader with a 3s fixed delay and the default
// retry policy.
func NewDownloader(getter Getter, log logger.Interface, opts ...Option) *Downloader {
	d := &Downloader{
		getter: getter,
		log:    log,
		delay:  FixedDelay(fetcherconfig.DefaultDelay),
		retry:  retry.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// RetryConfig builds the retry policy for the fetcher configuration.
func RetryConfig(cfg fetcherconfig.Config) retry.Config {
	rc := retry.DefaultConfig()
	rc.MaxAttempts = cfg.MaxRetries
	rc.InitialDelay = cfg.RetryDelay
	return rc
}

// Download processes req.URLs in order and returns the destination paths that
// exist afterwards, pre-existing and newly written, in input order. Fetch
// failures are logged and skipped. Only context cancellation is returned, along
// with the paths collected so far.
func (d *Downloader) Download(ctx context.Context, req Request) ([]string, error) {
	paths := make([]string, 0, len(req.URLs))
	attempt := 0

	for _, rawURL := range req.URLs {
		if err := ctx.Err(); err != nil {
			return paths, err
		}

		path, err := req.FileName(rawURL)
		if err != nil {
			d.log.Warn("invalid file name", "url", rawURL, "error", err)
			continue
		}

		if !req.Override && pagestore.Exists(path) {
			d.log.Info("file already exists", "url", rawURL, "path", path)
			paths = append(paths, path)
			continue
		}

		if !d.allowed(ctx, rawURL) {
			continue
		}

		attempt++
		if err := d.wait(ctx, rawURL, attempt); err != nil {
			return paths, err
		}

		ok, err := d.fetchOne(ctx, rawURL, path)
		if err != nil {
			return paths, err
		}
		if ok {
			paths = append(paths, path)
		}
	}

	d.log.Info("fetch end", "requested", len(req.URLs), "stored", len(paths))
	return paths, nil
}

// allowed consults robots.txt. It runs before the delay is computed so the
// host's Crawl-delay is already cached for the first request.
func (d *Downloader) allowed(ctx context.Context, rawURL string) bool {
	if d.robots == nil {
		return true
	}
	ok, err := d.robots.IsAllowed(ctx, rawURL)
	if err != nil {
		d.log.Warn("fetch failed", "url", rawURL, "error", err)
		return false
	}
	if !ok {
		d.log.Info("fetch failed", "url", rawURL, "error", ErrRobotsDisallowed)
		return false
	}
	return true
}

func (d *Downloader) wait(ctx context.Context, rawURL string, attempt int) error {
	delay := d.delay(attempt)
	if d.robots != nil {
		if u, err := url.Parse(rawURL); err == nil {
			delay = max(delay, d.robots.CrawlDelay(u.Host))
		}
	}

	d.log.Info("start sleep", "url", rawURL, "delay", delay)
	if err := sleep(ctx, delay); err != nil {
		return err
	}
	d.log.Info("end sleep", "url", rawURL)
	return nil
}

// fetchOne downloads rawURL into path. It reports whether the file was written;
// the error is non-nil only when ctx is done.
func (d *Downloader) fetchOne(ctx context.Context, rawURL, path string) (bool, error) {
	start := time.Now()
	rc := d.retry
	rc.OnRetry = func(n int, err error, wait time.Duration) {
		d.log.Warn("fetch retry", "url", rawURL, "attempt", n, "error", err, "backoff", wait)
	}

	var page *Page
	err := retry.Do(ctx, rc, func(ctx context.Context) error {
		var getErr error
		page, getErr = d.getter.Get(ctx, rawURL)
		return getErr
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		d.log.Error("fetch failed", "url", rawURL, "error", err)
		return false, nil
	}

	if err := pagestore.WriteFile(path, page.Body); err != nil {
		d.log.Error("fetch failed", "url", rawURL, "error", fmt.Errorf("store page: %w", err))
		return false, nil
	}
	d.log.Info("write end", "url", rawURL, "path", path, "bytes", len(page.Body), "duration", time.Since(start))

	if d.archiver != nil {
		if err := d.archiver.Archive(ctx, rawURL, path, page.Body); err != nil {
			d.log.Warn("archive failed", "url", rawURL, "path", path, "error", err)
		}
	}
	return true, nil
}
