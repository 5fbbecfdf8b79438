// Package mcp exposes wiki search over the Model Context Protocol so
// agents can query the indexed chunks directly.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")
