package fetcher

import (
	"context"
	"fmt"

	"github.com/gocolly/colly/v2"

	fetcherconfig "github.com/tknemuru/kindergarten-collecting/internal/config/fetcher"
)

// CollyGetter fetches pages through a gocolly collector. Colly converts bodies
// to UTF-8 itself when DetectCharset is enabled.
type CollyGetter struct {
	cfg fetcherconfig.Config
}

// NewCollyGetter creates a CollyGetter from the fetcher configuration.
func NewCollyGetter(cfg fetcherconfig.Config) *CollyGetter {
	return &CollyGetter{cfg: cfg}
}

func (g *CollyGetter) newCollector() *colly.Collector {
	c := colly.NewCollector(
		colly.UserAgent(g.cfg.UserAgent),
		// One byte over the limit so an oversized body is detectable.
		colly.MaxBodySize(int(g.cfg.MaxBodySize)+1),
		colly.AllowURLRevisit(),
		colly.DetectCharset(),
	)
	c.SetRequestTimeout(g.cfg.RequestTimeout)
	c.SetRedirectHandler(RedirectPolicy(g.cfg.MaxRedirects))
	return c
}

// Get visits rawURL and returns the response. The context is checked before
// the request starts; the request itself is bounded by RequestTimeout.
func (g *CollyGetter) Get(ctx context.Context, rawURL string) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		page       *Page
		statusCode int
	)
	c := g.newCollector()
	c.OnResponse(func(r *colly.Response) {
		page = &Page{
			URL:         rawURL,
			StatusCode:  r.StatusCode,
			ContentType: r.Headers.Get("Content-Type"),
			Body:        r.Body,
		}
	})
	c.OnError(func(r *colly.Response, _ error) {
		if r != nil {
			statusCode = r.StatusCode
		}
	})

	if err := c.Visit(rawURL); err != nil {
		if statusCode != 0 && !isSuccessStatus(statusCode) {
			return nil, &StatusError{URL: rawURL, StatusCode: statusCode}
		}
		return nil, fmt.Errorf("colly fetch: %w", err)
	}
	if page == nil {
		return nil, fmt.Errorf("colly fetch %s: no response", rawURL)
	}
	if !isSuccessStatus(page.StatusCode) {
		return nil, &StatusError{URL: rawURL, StatusCode: page.StatusCode}
	}
	if int64(len(page.Body)) > g.cfg.MaxBodySize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrBodyTooLarge, rawURL, g.cfg.MaxBodySize)
	}
	return page, nil
}

// NewGetter returns the Getter selected by cfg.Engine.
func NewGetter(cfg fetcherconfig.Config) (Getter, error) {
	switch cfg.Engine {
	case fetcherconfig.EngineHTTP, "":
		return NewHTTPGetter(cfg), nil
	case fetcherconfig.EngineColly:
		return NewCollyGetter(cfg), nil
	default:
		return nil, fmt.Errorf("unknown fetch engine %q", cfg.Engine)
	}
}
