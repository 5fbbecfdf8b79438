package tui

import "errors"

// ErrMissingSearchService is returned when the TUI is constructed without a
// search service.
var ErrMissingSearchService = errors.New("tui: search service is required")
