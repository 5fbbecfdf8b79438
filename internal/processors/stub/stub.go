// Package stub provides placeholder processors for file types the
// pipeline recognises but does not chunk yet. Files they claim are
// acknowledged without being embedded so crawls do not report them
// as failures.
package stub

import (
	"context"
	"log/slog"

	"github.com/custodia-labs/wikivec-cli/internal/core/domain"
	"github.com/custodia-labs/wikivec-cli/internal/core/ports/driven"
	"github.com/custodia-labs/wikivec-cli/internal/logger"
)

// Ensure Processor implements the interface.
var _ driven.Processor = (*Processor)(nil)

// Processor acknowledges files of a named type without chunking them.
type Processor struct {
	name string
	exts []string
	log  *slog.Logger
}

// New creates a stub processor claiming the given extensions.
func New(log *slog.Logger, name string, extensions ...string) *Processor {
	if log == nil {
		log = logger.Discard()
	}
	return &Processor{name: name, exts: extensions, log: log}
}

// Extensions returns the extensions this stub claims.
func (p *Processor) Extensions() []string {
	return p.exts
}

// Chunkify produces no chunks for stubbed types.
func (p *Processor) Chunkify(_ context.Context, _ string, filePath string, _ map[string]any) []domain.Chunk {
	p.log.Info("chunking not implemented", "type", p.name, "file", filePath)
	return nil
}

// Process acknowledges the file without storing anything. Stubbed
// types always count as handled, including empty files.
func (p *Processor) Process(_ context.Context, _ string, filePath string, _ map[string]any) bool {
	p.log.Debug("acknowledging file without chunking", "type", p.name, "file", filePath)
	return true
}

// Terraform claims Terraform configuration files.
func Terraform(log *slog.Logger) *Processor {
	return New(log, "terraform", ".tf")
}

// Python claims Python source files.
func Python(log *slog.Logger) *Processor {
	return New(log, "python", ".py", ".pyx", ".pyi")
}

// JavaScript claims JavaScript and TypeScript source files.
func JavaScript(log *slog.Logger) *Processor {
	return New(log, "javascript", ".js", ".jsx", ".ts", ".tsx")
}

// JSON claims JSON documents.
func JSON(log *slog.Logger) *Processor {
	return New(log, "json", ".json", ".jsonl")
}

// YAML claims YAML documents.
func YAML(log *slog.Logger) *Processor {
	return New(log, "yaml", ".yml", ".yaml")
}

// Text claims plain text files.
func Text(log *slog.Logger) *Processor {
	return New(log, "text", ".txt", ".text")
}

// Config claims generic configuration files.
func Config(log *slog.Logger) *Processor {
	return New(log, "config", ".ini", ".cfg", ".conf", ".toml")
}

// All returns one stub per known family.
func All(log *slog.Logger) []driven.Processor {
	return []driven.Processor{
		Terraform(log),
		Python(log),
		JavaScript(log),
		JSON(log),
		YAML(log),
		Text(log),
		Config(log),
	}
}
