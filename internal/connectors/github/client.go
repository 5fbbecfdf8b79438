package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// Client wraps the go-github client with rate limiting and retries.
type Client struct {
	gh      *gh.Client
	limiter *RateLimiter
	retry   RetryPolicy
}

// NewClient creates a GitHub API client authenticated with a personal
// access token. The retry policy governs transient failures on every
// call the client makes.
func NewClient(token string, retry RetryPolicy) (*Client, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)
	tc.Timeout = DefaultTimeout

	return &Client{
		gh:      gh.NewClient(tc),
		limiter: NewRateLimiter(),
		retry:   retry,
	}, nil
}

// GitHub returns the underlying go-github client.
func (c *Client) GitHub() *gh.Client {
	return c.gh
}

// RateLimiter returns the client's rate limiter.
func (c *Client) RateLimiter() *RateLimiter {
	return c.limiter
}

// call runs fn under the rate limiter and retry policy, feeding
// response headers back into the limiter after every attempt.
// Errors come back translated into this package's types.
func (c *Client) call(ctx context.Context, fn func() (*gh.Response, error)) error {
	return c.retry.Do(ctx, func() (*gh.Response, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		resp, err := fn()
		if resp != nil {
			c.limiter.UpdateFromResponse(resp.Response)
		}
		return resp, translateError(err)
	})
}

// GetRepository fetches repository metadata, including the default
// branch used when no branch is configured.
func (c *Client) GetRepository(ctx context.Context, owner, repo string) (*gh.Repository, error) {
	var repository *gh.Repository
	err := c.call(ctx, func() (*gh.Response, error) {
		var resp *gh.Response
		var err error
		repository, resp, err = c.gh.Repositories.Get(ctx, owner, repo)
		return resp, err
	})
	if err != nil {
		return nil, fmt.Errorf("get repository %s/%s: %w", owner, repo, err)
	}
	return repository, nil
}

// GetTree fetches the full file tree of a branch in one call using
// the recursive Trees API.
func (c *Client) GetTree(ctx context.Context, owner, repo, ref string) (*gh.Tree, error) {
	var tree *gh.Tree
	err := c.call(ctx, func() (*gh.Response, error) {
		var resp *gh.Response
		var err error
		tree, resp, err = c.gh.Git.GetTree(ctx, owner, repo, ref, true)
		return resp, err
	})
	if err != nil {
		return nil, fmt.Errorf("get tree %s/%s@%s: %w", owner, repo, ref, err)
	}
	return tree, nil
}

// GetFileContent fetches and decodes a single file via the Contents
// API at the given ref.
func (c *Client) GetFileContent(ctx context.Context, owner, repo, path, ref string) (string, error) {
	var file *gh.RepositoryContent
	err := c.call(ctx, func() (*gh.Response, error) {
		var resp *gh.Response
		var err error
		file, _, resp, err = c.gh.Repositories.GetContents(ctx, owner, repo, path,
			&gh.RepositoryContentGetOptions{Ref: ref})
		return resp, err
	})
	if err != nil {
		return "", fmt.Errorf("get contents %s/%s/%s: %w", owner, repo, path, err)
	}
	if file == nil {
		return "", fmt.Errorf("%w: %s", ErrNotAFile, path)
	}

	content, err := file.GetContent()
	if err != nil {
		// GetContent only handles the "base64" and "" encodings; fall
		// back to a direct decode for anything else it rejects.
		if file.Content == nil {
			return "", fmt.Errorf("decode %s: %w", path, err)
		}
		raw, decErr := base64.StdEncoding.DecodeString(*file.Content)
		if decErr != nil {
			return "", fmt.Errorf("decode %s: %w", path, err)
		}
		return string(raw), nil
	}
	return content, nil
}
