package httpx

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// HTTPStatusError is implemented by client errors that carry an HTTP status.
type HTTPStatusError interface {
	HTTPStatusCode() int
}

// IsRetryableError reports whether a request error is worth retrying:
// transient network failures, timeouts, 429 and 5xx responses.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var statusErr HTTPStatusError
	if errors.As(err, &statusErr) {
		code := statusErr.HTTPStatusCode()
		if code == http.StatusTooManyRequests {
			return true
		}
		if code >= 500 && code <= 599 {
			return true
		}
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "broken pipe"),
		strings.Contains(msg, "unexpected eof"),
		strings.Contains(msg, "timeout"):
		return true
	}
	return false
}

// RetryAfterDuration returns the server-advertised Retry-After when present,
// otherwise the supplied backoff, clamped to max.
func RetryAfterDuration(resp *http.Response, backoff, max time.Duration) time.Duration {
	d := backoff
	if resp != nil {
		if raw := strings.TrimSpace(resp.Header.Get("Retry-After")); raw != "" {
			if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
				d = time.Duration(secs) * time.Second
			} else if at, err := http.ParseTime(raw); err == nil {
				if until := time.Until(at); until > 0 {
					d = until
				}
			}
		}
	}
	if max > 0 && d > max {
		d = max
	}
	if d < 0 {
		d = backoff
	}
	return d
}

// JitterSleep spreads a sleep interval by +/-25% to avoid retry stampedes.
func JitterSleep(d time.Duration) time.Duration {
	if d <= 0 {
		return d
	}
	spread := int64(d) / 4
	if spread == 0 {
		return d
	}
	delta := rand.Int63n(2*spread) - spread
	return time.Duration(int64(d) + delta)
}
