package apiclient

import (
	"net/http"
	"time"
)

const (
	DefaultTimeout     = 10 * time.Second
	DefaultMaxRetries  = 3
	DefaultBaseDelay   = time.Second
	DefaultAPIKeyParam = "appid"

	// maxErrorBody bounds how much of a non-2xx body is read for classification.
	maxErrorBody = 64 << 10
)

// Config holds everything needed to build a Client. It is copied on New and
// never mutated afterwards.
type Config struct {
	BaseURL string
	APIKey  string

	// Timeout is the hard deadline of a single attempt. Zero means DefaultTimeout.
	Timeout time.Duration

	// Retry is the retry policy. Nil means DefaultRetryConfig().
	Retry *RetryConfig

	// APIKeyParam is the query parameter carrying the key. Empty means "appid".
	APIKeyParam string

	UserAgent string

	// Transport overrides the underlying round tripper.
	Transport http.RoundTripper
}

// RetryConfig controls how transient failures are retried.
type RetryConfig struct {
	// MaxRetries excludes the initial attempt. Negative values disable retries.
	MaxRetries int

	// BaseDelay is the wait before the first retry; it doubles for every retry after that.
	BaseDelay time.Duration
}

// DefaultRetryConfig returns 3 retries with 1s, 2s and 4s waits.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: DefaultMaxRetries,
		BaseDelay:  DefaultBaseDelay,
	}
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.APIKeyParam == "" {
		c.APIKeyParam = DefaultAPIKeyParam
	}
	retry := DefaultRetryConfig()
	if c.Retry != nil {
		retry = *c.Retry
		if retry.MaxRetries < 0 {
			retry.MaxRetries = 0
		}
		if retry.BaseDelay < 0 {
			retry.BaseDelay = 0
		}
	}
	c.Retry = &retry
	return c
}
