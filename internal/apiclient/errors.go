package apiclient

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// Configuration errors returned by New. These are fatal and never retried.
var (
	ErrMissingBaseURL = errors.New("apiclient: base URL is required")
	ErrMissingAPIKey  = errors.New("apiclient: API key is required")
	ErrInvalidBaseURL = errors.New("apiclient: base URL must be absolute")
)

// Kind classifies a failed request.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindUnauthorized
	KindRateLimited
	KindServerError
	KindTimeout
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindUnauthorized:
		return "Unauthorized"
	case KindRateLimited:
		return "RateLimited"
	case KindServerError:
		return "ServerError"
	case KindTimeout:
		return "Timeout"
	case KindNetwork:
		return "NetworkError"
	default:
		return "Unknown"
	}
}

// Sentinels for errors.Is matching against *Error by kind.
var (
	ErrNotFound     = &kindSentinel{KindNotFound}
	ErrUnauthorized = &kindSentinel{KindUnauthorized}
	ErrRateLimited  = &kindSentinel{KindRateLimited}
	ErrServerError  = &kindSentinel{KindServerError}
	ErrTimeout      = &kindSentinel{KindTimeout}
	ErrNetwork      = &kindSentinel{KindNetwork}
	ErrUnknown      = &kindSentinel{KindUnknown}
)

type kindSentinel struct{ kind Kind }

func (s *kindSentinel) Error() string { return "apiclient: " + s.kind.String() }

// Fixed messages. None of them include request parameters.
const (
	msgNotFound     = "resource not found"
	msgUnauthorized = "unauthorized: invalid API key"
	msgRateLimited  = "too many requests: rate limit exceeded"
	msgServerError  = "server error: please try again later"
	msgTimeout      = "request timeout: please try again"
	msgNetwork      = "network error: please check your connection"
	msgUnexpected   = "an unexpected error occurred"
)

// Error is the only error type returned by Client.Get for per-request failures.
type Error struct {
	Kind    Kind
	Message string

	// StatusCode is 0 when no response was received.
	StatusCode int

	Endpoint string
	Attempts int

	// Err is the underlying cause with the API key redacted, if any.
	Err error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Endpoint != "" {
		b.WriteString(" ")
		b.WriteString(e.Endpoint)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	s, ok := target.(*kindSentinel)
	return ok && s.kind == e.Kind
}

// AsError extracts *Error from err.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	if e, ok := AsError(err); ok {
		return e.Kind
	}
	return KindUnknown
}

// statusError maps a non-2xx response to an *Error.
func statusError(status int, body []byte) *Error {
	e := &Error{StatusCode: status}
	switch status {
	case http.StatusNotFound:
		e.Kind = KindNotFound
		e.Message = bodyMessage(body)
		if e.Message == "" {
			e.Message = msgNotFound
		}
	case http.StatusUnauthorized:
		e.Kind = KindUnauthorized
		e.Message = msgUnauthorized
	case http.StatusTooManyRequests:
		e.Kind = KindRateLimited
		e.Message = msgRateLimited
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		e.Kind = KindServerError
		e.Message = msgServerError
	default:
		e.Kind = KindUnknown
		e.Message = fmt.Sprintf("request failed with status %d", status)
		if m := bodyMessage(body); m != "" {
			e.Message += ": " + m
		}
	}
	return e
}

// transportError maps a failure where no response was received.
func transportError(err error, timedOut bool) *Error {
	if timedOut {
		return &Error{Kind: KindTimeout, Message: msgTimeout, Err: err}
	}
	return &Error{Kind: KindNetwork, Message: msgNetwork, Err: err}
}

// setupError maps a failure that happened before the request was sent.
func setupError(err error) *Error {
	msg := msgUnexpected
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return &Error{Kind: KindUnknown, Message: msg, Err: err}
}

// bodyMessage pulls the provider's "message" field out of an error body.
// OpenWeather sends {"cod": "404", "message": "city not found"}.
func bodyMessage(body []byte) string {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return ""
	}
	return strings.TrimSpace(gjson.GetBytes(body, "message").String())
}

// redact strips the API key from errors that carry the request URL.
func redact(err error, apiKey string) error {
	if err == nil || apiKey == "" {
		return err
	}
	var ue *url.Error
	if errors.As(err, &ue) {
		clean := *ue
		clean.URL = redactURL(ue.URL, apiKey)
		if clean.Err != nil && strings.Contains(clean.Err.Error(), apiKey) {
			clean.Err = errors.New(strings.ReplaceAll(clean.Err.Error(), apiKey, "REDACTED"))
		}
		return &clean
	}
	if strings.Contains(err.Error(), apiKey) {
		return errors.New(strings.ReplaceAll(err.Error(), apiKey, "REDACTED"))
	}
	return err
}

func redactURL(raw, apiKey string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return strings.ReplaceAll(raw, apiKey, "REDACTED")
	}
	q := u.Query()
	for k, vv := range q {
		for i, v := range vv {
			if v == apiKey {
				vv[i] = "REDACTED"
			}
		}
		q[k] = vv
	}
	u.RawQuery = q.Encode()
	return u.String()
}
