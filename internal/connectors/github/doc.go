// Package github implements a source fetcher for GitHub repositories.
//
// The fetcher lists a repository's files through the recursive Trees
// API and retrieves file content through the Contents API, decoding
// base64 payloads and dropping bytes that are not valid UTF-8.
//
// # Authentication
//
// A personal access token is required; unauthenticated access (60
// requests per hour) is not supported. Authenticated requests get
// 5,000 per hour.
//
// # Rate Limiting
//
// The client uses a dual-strategy limiter:
//
//  1. Proactive throttling: a token bucket keeps the request rate
//     comfortably under the hourly quota.
//
//  2. Reactive handling: X-RateLimit-Remaining and X-RateLimit-Reset
//     headers are tracked, and the client waits for the reset when
//     the remaining budget drops below a buffer.
//
// # Retries
//
// Transient failures (429 and 5xx responses, transport errors) are
// retried under an explicit RetryPolicy injected into the client:
// a bounded number of attempts with exponential backoff and a
// configurable retryable-status predicate.
package github
