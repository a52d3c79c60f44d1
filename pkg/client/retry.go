package client

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"
)

// Default retry configuration.
const (
	defaultRetryWaitMin = 500 * time.Millisecond
	defaultRetryWaitMax = 8 * time.Second
	defaultRetryMax     = 3
)

// RetryPolicy bounds the retry transport.
type RetryPolicy struct {
	MaxRetries int           // Retries after the first attempt.
	WaitMin    time.Duration // First backoff step.
	WaitMax    time.Duration // Backoff ceiling.
}

// DefaultRetryPolicy retries three times with exponential backoff between
// half a second and eight seconds.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: defaultRetryMax,
		WaitMin:    defaultRetryWaitMin,
		WaitMax:    defaultRetryWaitMax,
	}
}

// Compile-time interface check: retryTransport must be a RoundTripper.
var _ http.RoundTripper = (*retryTransport)(nil)

// retryTransport retries connection errors, 429s, and 5xx answers except
// 501. Request bodies are rewound between attempts through GetBody, which
// the SDK's requests always carry.
type retryTransport struct {
	next   http.RoundTripper
	policy RetryPolicy
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	next := t.next
	if next == nil {
		next = http.DefaultTransport
	}

	var (
		resp    *http.Response
		err     error
		attempt int
	)
	for {
		if attempt > 0 && req.GetBody != nil {
			body, rewindErr := req.GetBody()
			if rewindErr != nil {
				return nil, fmt.Errorf("rewinding request body: %w", rewindErr)
			}
			req.Body = body
		}

		resp, err = next.RoundTrip(req)
		attempt++

		if !shouldRetry(req.Context(), resp, err) || attempt > t.policy.MaxRetries {
			break
		}

		if err == nil && resp.Body != nil {
			drainBody(resp.Body)
		}

		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(t.backoff(attempt-1, resp)):
		}
	}

	if err != nil {
		return nil, fmt.Errorf("%s %s giving up after %d attempt(s): %w", req.Method, req.URL, attempt, err)
	}
	return resp, nil
}

// shouldRetry reports whether the attempt failed in a way a retry can fix.
// 501 is the one 5xx a server answers deliberately.
func shouldRetry(ctx context.Context, resp *http.Response, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if err != nil {
		return true
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return true
	}
	return resp.StatusCode >= 500 && resp.StatusCode != http.StatusNotImplemented
}

// backoff doubles the wait per attempt up to WaitMax. A Retry-After header
// on 429 and 503 answers overrides the computed wait.
func (t *retryTransport) backoff(attempt int, resp *http.Response) time.Duration {
	if resp != nil && (resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable) {
		if after := resp.Header.Get("Retry-After"); after != "" {
			if seconds, err := strconv.ParseInt(after, 10, 64); err == nil && seconds >= 0 {
				return time.Duration(seconds) * time.Second
			}
		}
	}

	wait := time.Duration(math.Pow(2, float64(attempt)) * float64(t.policy.WaitMin))
	if wait <= 0 || wait > t.policy.WaitMax {
		wait = t.policy.WaitMax
	}
	return wait
}

// drainBody consumes a response body so the connection can be reused.
func drainBody(body io.ReadCloser) {
	defer body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(body, drainLimit))
}
