// Package fetcher holds the page download configuration.
package fetcher

import (
	"time"

	"github.com/tknemuru/kindergarten-collecting/internal/config/types"
)

// Supported fetch engines.
const (
	EngineHTTP  = "http"
	EngineColly = "colly"
)

// Default configuration values.
const (
	DefaultEngine         = EngineHTTP
	DefaultDelay          = 3 * time.Second
	DefaultRequestTimeout = 60 * time.Second
	DefaultUserAgent      = "kinder-collector/1.0"
	DefaultMaxRetries     = 3
	DefaultRetryDelay     = 1 * time.Second
	DefaultMaxRedirects   = 5
	DefaultMaxBodySize    = 10 * 1024 * 1024 // 10MB
)

// Config represents the page download configuration.
type Config struct {
	// Engine selects the HTTP implementation (http or colly).
	Engine string `env:"FETCHER_ENGINE" yaml:"engine"`
	// Delay is the fixed wait before every network request.
	Delay time.Duration `env:"FETCHER_DELAY" yaml:"delay"`
	// RequestTimeout bounds a single request.
	RequestTimeout time.Duration `env:"FETCHER_REQUEST_TIMEOUT" yaml:"request_timeout"`
	// UserAgent is sent with every request.
	UserAgent string `env:"FETCHER_USER_AGENT" yaml:"user_agent"`
	// MaxRetries is the number of attempts per URL, including the first.
	MaxRetries int `env:"FETCHER_MAX_RETRIES" yaml:"max_retries"`
	// RetryDelay is the initial backoff between attempts.
	RetryDelay time.Duration `env:"FETCHER_RETRY_DELAY" yaml:"retry_delay"`
	// MaxRedirects caps the redirect hops followed per request.
	MaxRedirects int `env:"FETCHER_MAX_REDIRECTS" yaml:"max_redirects"`
	// MaxBodySize caps the response body size in bytes.
	MaxBodySize int64 `env:"FETCHER_MAX_BODY_SIZE" yaml:"max_body_size"`
	// RespectRobotsTxt skips URLs disallowed by the host's robots.txt.
	RespectRobotsTxt bool `env:"FETCHER_RESPECT_ROBOTS_TXT" yaml:"respect_robots_txt"`
}

// New returns a fetcher configuration with default values.
func New() Config {
	return Config{
		Engine:         DefaultEngine,
		Delay:          DefaultDelay,
		RequestTimeout: DefaultRequestTimeout,
		UserAgent:      DefaultUserAgent,
		MaxRetries:     DefaultMaxRetries,
		RetryDelay:     DefaultRetryDelay,
		MaxRedirects:   DefaultMaxRedirects,
		MaxBodySize:    DefaultMaxBodySize,
	}
}

// Validate validates the fetcher configuration.
func (c *Config) Validate() error {
	switch c.Engine {
	case EngineHTTP, EngineColly:
	default:
		return &types.ValidationError{Field: "engine", Value: c.Engine, Reason: "must be http or colly"}
	}
	if c.Delay < 0 {
		return &types.ValidationError{Field: "delay", Value: c.Delay, Reason: "must not be negative"}
	}
	if c.RequestTimeout <= 0 {
		return &types.ValidationError{Field: "request_timeout", Value: c.RequestTimeout, Reason: "must be positive"}
	}
	if c.MaxRetries < 1 {
		return &types.ValidationError{Field: "max_retries", Value: c.MaxRetries, Reason: "must be at least 1"}
	}
	if c.MaxBodySize <= 0 {
		return &types.ValidationError{Field: "max_body_size", Value: c.MaxBodySize, Reason: "must be positive"}
	}
	return nil
}
