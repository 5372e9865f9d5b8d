package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// Client performs GET requests against one upstream API with a per-attempt
// timeout, exponential backoff on transient failures and normalized errors.
// It holds only immutable configuration and is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	cfg        Config
	logger     *slog.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

// New validates cfg and builds a Client. A missing base URL or API key is a
// configuration error and is returned before any network activity.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)

	if cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, cfg.BaseURL)
	}
	// Treat the base path as a prefix so "/weather" resolves under it.
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	cfg = cfg.withDefaults()

	rt := cfg.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		httpClient: &http.Client{Transport: rt},
		baseURL:    u,
		cfg:        cfg,
		logger:     logger.With("component", "api-client", "host", u.Host),
		sleep:      sleepContext,
	}, nil
}

// Get issues a GET to endpoint with params and returns the raw response body.
// Every failure is returned as *Error.
func (c *Client) Get(ctx context.Context, endpoint string, params Params) ([]byte, error) {
	reqURL, err := c.resolve(endpoint, params)
	if err != nil {
		e := setupError(err)
		e.Endpoint = endpoint
		return nil, e
	}

	requestID := uuid.NewString()
	logger := c.logger.With("endpoint", endpoint, "request_id", requestID)

	var (
		last     outcome
		attempts int
	)
	for n := 0; ; n++ {
		at := attempt{endpoint: endpoint, number: n, startedAt: time.Now()}
		attempts = n + 1

		last = c.do(ctx, at, reqURL, requestID)
		if last.ok() {
			logger.Debug("request succeeded",
				"status", last.status,
				"attempt", at.number,
				"duration", time.Since(at.startedAt),
			)
			return last.body, nil
		}

		// The caller gave up; nothing left to retry for.
		if ctx.Err() != nil {
			break
		}
		if !last.retryable() || n >= c.cfg.Retry.MaxRetries {
			break
		}

		delay := backoff(c.cfg.Retry.BaseDelay, n+1)
		logger.Warn("retrying request",
			"attempt", at.number,
			"status", last.status,
			"timed_out", last.timedOut,
			"delay", delay,
		)
		if err := c.sleep(ctx, delay); err != nil {
			last = outcome{sent: true, err: err, timedOut: errors.Is(err, context.DeadlineExceeded)}
			break
		}
	}

	e := c.normalize(last)
	e.Endpoint = endpoint
	e.Attempts = attempts

	logger.Warn("request failed",
		"kind", e.Kind.String(),
		"status", e.StatusCode,
		"attempts", attempts,
	)
	return nil, e
}

// GetJSON is Get followed by decoding the body into out.
func (c *Client) GetJSON(ctx context.Context, endpoint string, params Params, out any) error {
	body, err := c.Get(ctx, endpoint, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{
			Kind:     KindUnknown,
			Message:  fmt.Sprintf("failed to decode response: %v", err),
			Endpoint: endpoint,
			Err:      err,
		}
	}
	return nil
}

func (c *Client) do(ctx context.Context, at attempt, reqURL, requestID string) outcome {
	actx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(actx, http.MethodGet, reqURL, nil)
	if err != nil {
		return outcome{err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	c.logger.Debug("sending request", "endpoint", at.endpoint, "attempt", at.number, "request_id", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return outcome{
			sent:     true,
			err:      err,
			timedOut: isTimeout(err) || errors.Is(actx.Err(), context.DeadlineExceeded),
		}
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	success := resp.StatusCode >= 200 && resp.StatusCode < 300
	if !success {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return outcome{sent: true, status: resp.StatusCode, body: body}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		// A truncated body is as good as no response.
		return outcome{
			sent:     true,
			err:      err,
			timedOut: isTimeout(err) || errors.Is(actx.Err(), context.DeadlineExceeded),
		}
	}
	return outcome{sent: true, status: resp.StatusCode, body: body}
}

func (c *Client) normalize(o outcome) *Error {
	switch {
	case !o.sent:
		return setupError(redact(o.err, c.cfg.APIKey))
	case o.err != nil:
		return transportError(redact(o.err, c.cfg.APIKey), o.timedOut)
	default:
		return statusError(o.status, o.body)
	}
}

func (c *Client) resolve(endpoint string, params Params) (string, error) {
	p := strings.TrimSpace(endpoint)
	if p == "" {
		return "", errors.New("endpoint is required")
	}
	ref, err := url.Parse(p)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint: %w", err)
	}
	if ref.IsAbs() || ref.Host != "" {
		return "", errors.New("endpoint must be relative to the base URL")
	}
	ref.Path = strings.TrimPrefix(ref.Path, "/")

	u := c.baseURL.ResolveReference(ref)
	q := u.Query()
	params.encode(q)
	// Applied last so a caller param cannot replace the key.
	q.Set(c.cfg.APIKeyParam, c.cfg.APIKey)
	u.RawQuery = q.Encode()

	return u.String(), nil
}
