package github

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/wikivec-cli/internal/core/domain"
)

// GitHub-specific errors.
var (
	// ErrMissingToken indicates no personal access token was configured.
	ErrMissingToken = errors.New("github: token required")

	// ErrInvalidRepoURL indicates the repository URL could not be parsed.
	ErrInvalidRepoURL = errors.New("github: invalid repository URL")

	// ErrNotAFile indicates the requested path resolved to a directory.
	ErrNotAFile = errors.New("github: path is a directory, not a file")
)

// RateLimitError reports an exhausted API quota and when it resets.
type RateLimitError struct {
	ResetAt   time.Time
	Remaining int
	Limit     int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("github: rate limit exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// Unwrap returns domain.ErrRateLimited, letting errors.Is match the
// domain sentinel through wrapped chains.
func (e *RateLimitError) Unwrap() error {
	return domain.ErrRateLimited
}

// APIError reports a non-2xx GitHub API response.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: API error %d: %s (%s)", e.StatusCode, e.Message, e.URL)
}

// IsNotFound reports whether err indicates a missing resource. GitHub
// answers 404 for private repositories the token cannot see, so this
// covers access problems as well.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether err indicates a rejected token.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// IsRateLimited reports whether err indicates an exhausted API quota.
func IsRateLimited(err error) bool {
	var rateErr *RateLimitError
	return errors.As(err, &rateErr)
}

// translateError converts go-github's error types into this
// package's. Primary rate limits surface as 403s carrying quota
// headers, secondary limits as 429s with a Retry-After hint; both
// become *RateLimitError. Other errors pass through unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return &RateLimitError{
			ResetAt:   rateErr.Rate.Reset.Time,
			Remaining: rateErr.Rate.Remaining,
			Limit:     rateErr.Rate.Limit,
		}
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		resetAt := time.Now()
		if abuseErr.RetryAfter != nil {
			resetAt = resetAt.Add(*abuseErr.RetryAfter)
		}
		return &RateLimitError{ResetAt: resetAt}
	}

	var respErr *gh.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		apiErr := &APIError{
			StatusCode: respErr.Response.StatusCode,
			Message:    respErr.Message,
		}
		if respErr.Response.Request != nil && respErr.Response.Request.URL != nil {
			apiErr.URL = respErr.Response.Request.URL.String()
		}
		return apiErr
	}

	return err
}
