package apiclient

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

// attempt describes one try of a logical request. It lives only as long as
// that request and is never shared between callers.
type attempt struct {
	endpoint  string
	number    int // 0-based
	startedAt time.Time
}

// outcome is what a single attempt produced.
type outcome struct {
	status   int
	body     []byte
	err      error // transport or setup error; nil when a response was received
	timedOut bool
	sent     bool
}

func (o outcome) ok() bool {
	return o.err == nil && o.status >= 200 && o.status < 300
}

// retryable reports whether the outcome is transient: no response at all, or a 5xx.
func (o outcome) retryable() bool {
	if !o.sent {
		return false
	}
	if o.err != nil {
		return true
	}
	return o.status >= http.StatusInternalServerError && o.status < 600
}

// backoff returns the wait before retry n (1-indexed): base * 2^(n-1).
func backoff(base time.Duration, n int) time.Duration {
	if n < 1 {
		n = 1
	}
	if base <= 0 {
		return 0
	}
	return base << (n - 1)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
