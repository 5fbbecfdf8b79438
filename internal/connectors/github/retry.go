package github

import (
	"context"
	"fmt"
	"net/http"
	"time"

	gh "github.com/google/go-github/v80/github"
)

// RetryPolicy controls how failed API calls are retried. It is
// injected into the client rather than hidden in the HTTP transport
// so callers can see and tune the behaviour.
type RetryPolicy struct {
	// MaxRetries is the number of retries after the initial attempt.
	MaxRetries int

	// Backoff is the delay before the first retry. Each subsequent
	// retry doubles it, so the default schedule is 1s, 2s, 4s, 8s, 16s.
	Backoff time.Duration

	// Retryable reports whether a response status warrants a retry.
	Retryable func(status int) bool
}

// DefaultRetryPolicy returns the policy used when none is supplied:
// five retries with exponential backoff on 429 and transient 5xx
// responses.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 5,
		Backoff:    time.Second,
		Retryable:  RetryableStatus,
	}
}

// RetryableStatus reports whether status is worth retrying.
func RetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// Do runs fn under the policy. fn is attempted once plus up to
// MaxRetries more times while it keeps failing with a retryable
// status or a transport error. The last error is returned when the
// attempts are exhausted.
func (p RetryPolicy) Do(ctx context.Context, fn func() (*gh.Response, error)) error {
	delay := p.Backoff

	var lastErr error
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		resp, err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !p.shouldRetry(resp) {
			return err
		}
	}

	return fmt.Errorf("retries exhausted after %d attempts: %w", p.MaxRetries+1, lastErr)
}

// shouldRetry inspects the failed call's response. A nil response
// means the request never completed (transport error), which is
// always retryable.
func (p RetryPolicy) shouldRetry(resp *gh.Response) bool {
	if resp == nil {
		return true
	}
	if p.Retryable == nil {
		return RetryableStatus(resp.StatusCode)
	}
	return p.Retryable(resp.StatusCode)
}
