package processors

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/wikivec-cli/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ProcessorRegistry = (*Registry)(nil)

// Registry is the capability table mapping file extensions to
// processors. Exactly one processor owns an extension.
type Registry struct {
	byExt map[string]driven.Processor
}

// NewRegistry creates a registry holding the given processors.
func NewRegistry(procs ...driven.Processor) *Registry {
	r := &Registry{byExt: make(map[string]driven.Processor)}
	for _, p := range procs {
		r.Register(p)
	}
	return r
}

// Register claims every extension p reports.
// Later registrations win on conflict.
func (r *Registry) Register(p driven.Processor) {
	for _, ext := range p.Extensions() {
		r.byExt[strings.ToLower(ext)] = p
	}
}

// ForFile returns the processor responsible for the file's
// extension, if any.
func (r *Registry) ForFile(path string) (driven.Processor, bool) {
	p, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return p, ok
}

// Extensions returns the routable extensions, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
