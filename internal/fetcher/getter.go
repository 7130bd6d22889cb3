// Package fetcher downloads pages sequentially into the page store, with a
// politeness delay, retries and skip-if-present semantics.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

//go:generate mockgen -destination=../../testutils/mocks/fetcher/getter.go -package=fetcher . Getter

// Status code bounds used when classifying responses.
const (
	statusSuccessLow   = 200
	statusSuccessHigh  = 300
	statusTooManyReqs  = 429
	statusServerErrLow = 500
)

// ErrBodyTooLarge is returned when a response exceeds the configured body limit.
var ErrBodyTooLarge = errors.New("response body too large")

// Page is a fetched document. Body is always UTF-8.
type Page struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
}

// Getter retrieves a single URL.
type Getter interface {
	Get(ctx context.Context, rawURL string) (*Page, error)
}

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("get %s: http status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Temporary reports whether the status is worth retrying (429 and 5xx).
func (e *StatusError) Temporary() bool {
	return e.StatusCode == statusTooManyReqs || e.StatusCode >= statusServerErrLow
}

// isSuccessStatus returns true if the HTTP status code is in the 2xx range.
func isSuccessStatus(statusCode int) bool {
	return statusCode >= statusSuccessLow && statusCode < statusSuccessHigh
}
