package tui

import "github.com/custodia-labs/wikivec-cli/internal/core/ports/driving"

// Ports holds the service dependencies the TUI needs.
type Ports struct {
	Search driving.SearchService
}

// Validate checks that all required ports are configured.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
