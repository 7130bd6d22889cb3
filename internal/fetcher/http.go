package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"

	fetcherconfig "github.com/tknemuru/kindergarten-collecting/internal/config/fetcher"
)

// HTTPGetter fetches pages with net/http and decodes them to UTF-8.
type HTTPGetter struct {
	client      *http.Client
	userAgent   string
	maxBodySize int64
}

// NewHTTPGetter creates an HTTPGetter from the fetcher configuration.
func NewHTTPGetter(cfg fetcherconfig.Config) *HTTPGetter {
	return &HTTPGetter{
		client: &http.Client{
			Timeout:       cfg.RequestTimeout,
			CheckRedirect: RedirectPolicy(cfg.MaxRedirects),
		},
		userAgent:   cfg.UserAgent,
		maxBodySize: cfg.MaxBodySize,
	}
}

// Get performs a GET request. Non-2xx responses are returned as *StatusError.
func (g *HTTPGetter) Get(ctx context.Context, rawURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if g.userAgent != "" {
		req.Header.Set("User-Agent", g.userAgent)
	}

	resp, err := g.client.Do(req) //nolint:gosec // URL comes from configuration or listing pages
	if err != nil {
		return nil, fmt.Errorf("http fetch: %w", err)
	}
	defer resp.Body.Close()

	if !isSuccessStatus(resp.StatusCode) {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, g.maxBodySize))
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, g.maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if int64(len(body)) > g.maxBodySize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrBodyTooLarge, rawURL, g.maxBodySize)
	}

	contentType := resp.Header.Get("Content-Type")
	decoded, err := DecodeUTF8(body, contentType)
	if err != nil {
		return nil, err
	}

	return &Page{
		URL:         rawURL,
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Body:        decoded,
	}, nil
}

// DecodeUTF8 converts body to UTF-8 using the Content-Type charset, a BOM or a
// <meta> declaration. Bodies that are already valid UTF-8 with no declared
// charset are returned unchanged.
func DecodeUTF8(body []byte, contentType string) ([]byte, error) {
	enc, name, certain := charset.DetermineEncoding(body, contentType)
	if name == "utf-8" {
		return body, nil
	}
	// DetermineEncoding only sniffs the first 1024 bytes and falls back to
	// windows-1252 when it finds nothing.
	if !certain && name == "windows-1252" && utf8.Valid(body) {
		return body, nil
	}

	decoded, _, err := transform.Bytes(enc.NewDecoder(), body)
	if err != nil {
		return nil, fmt.Errorf("decode %s body: %w", name, err)
	}
	return decoded, nil
}
