// Package splitter provides recursive separator-based text segmentation.
//
// Text is split along an ordered hierarchy of separators (paragraph
// breaks, then line breaks, then sentence ends, then spaces, then
// single characters). Pieces are greedily merged up to the size limit,
// consecutive chunks share a trailing overlap, and pieces that exceed
// the limit are re-split with the remaining separators.
package splitter

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaxSize is the default chunk size in characters.
const DefaultMaxSize = 1024

// DefaultOverlap is the default overlap between consecutive chunks.
const DefaultOverlap = 200

// defaultSeparators orders the split hierarchy from coarse to fine.
// The empty string is the character-level fallback.
var defaultSeparators = []string{"\n\n", "\n", ".", " ", ""}

// Splitter segments text into bounded, overlapping chunks.
// All sizes are measured in characters (runes), not bytes.
type Splitter struct {
	maxSize    int
	overlap    int
	separators []string
}

// Option configures a Splitter.
type Option func(*Splitter)

// WithMaxSize sets the chunk size limit in characters.
func WithMaxSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.maxSize = size
		}
	}
}

// WithOverlap sets the overlap between consecutive chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// WithSeparators replaces the separator hierarchy.
func WithSeparators(separators []string) Option {
	return func(s *Splitter) {
		if len(separators) > 0 {
			s.separators = separators
		}
	}
}

// New creates a Splitter with the given options.
// An overlap equal to or above the size limit is clamped to
// maxSize-1 so every chunk advances through the input.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		maxSize:    DefaultMaxSize,
		overlap:    DefaultOverlap,
		separators: defaultSeparators,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.overlap >= s.maxSize {
		s.overlap = s.maxSize - 1
	}

	return s
}

// Split segments text into chunks of at most maxSize characters.
// Blank input produces no chunks; input that fits the limit produces
// exactly one. Each chunk is trimmed and blanks are dropped, so the
// chunk sequence reconstructs the input modulo overlap boundaries
// and surrounding whitespace.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.split(text, s.separators)
}

func (s *Splitter) split(text string, separators []string) []string {
	sep, rest := pickSeparator(text, separators)
	pieces := splitKeep(text, sep)

	var chunks []string
	var buffered []string
	for _, p := range pieces {
		if utf8.RuneCountInString(p) < s.maxSize {
			buffered = append(buffered, p)
			continue
		}

		// Flush buffered small pieces before the oversize one so
		// output order follows input order.
		if len(buffered) > 0 {
			chunks = append(chunks, s.merge(buffered)...)
			buffered = nil
		}

		if len(rest) == 0 {
			chunks = append(chunks, s.hardCut(p)...)
		} else {
			chunks = append(chunks, s.split(p, rest)...)
		}
	}
	if len(buffered) > 0 {
		chunks = append(chunks, s.merge(buffered)...)
	}

	return chunks
}

// pickSeparator returns the first separator that occurs in text,
// plus the finer separators that remain for recursion. The empty
// separator always matches.
func pickSeparator(text string, separators []string) (string, []string) {
	sep := separators[len(separators)-1]
	var rest []string
	for i, cand := range separators {
		if cand == "" {
			sep = ""
			rest = nil
			break
		}
		if strings.Contains(text, cand) {
			sep = cand
			rest = separators[i+1:]
			break
		}
	}
	return sep, rest
}

// splitKeep splits text by sep, keeping the separator attached to
// the front of the following piece so concatenation reconstructs
// the input. The empty separator splits into single characters.
func splitKeep(text, sep string) []string {
	if sep == "" {
		runes := []rune(text)
		out := make([]string, len(runes))
		for i, r := range runes {
			out[i] = string(r)
		}
		return out
	}

	parts := strings.Split(text, sep)
	out := make([]string, 0, len(parts))
	for i, p := range parts {
		if i > 0 {
			p = sep + p
		}
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// merge greedily packs pieces into chunks of at most maxSize
// characters. When a chunk is emitted, leading pieces are dropped
// until the retained tail fits the overlap budget and leaves room
// for the incoming piece; the tail seeds the next chunk.
func (s *Splitter) merge(pieces []string) []string {
	var chunks []string
	var current []string
	total := 0

	for _, p := range pieces {
		plen := utf8.RuneCountInString(p)
		if total+plen > s.maxSize && len(current) > 0 {
			if chunk := joinTrim(current); chunk != "" {
				chunks = append(chunks, chunk)
			}
			for total > s.overlap || (total+plen > s.maxSize && total > 0) {
				total -= utf8.RuneCountInString(current[0])
				current = current[1:]
			}
		}
		current = append(current, p)
		total += plen
	}

	if chunk := joinTrim(current); chunk != "" {
		chunks = append(chunks, chunk)
	}

	return chunks
}

// hardCut slices text at exact character offsets. Used when no finer
// separator remains for an oversize piece.
func (s *Splitter) hardCut(text string) []string {
	runes := []rune(text)
	step := s.maxSize - s.overlap

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + s.maxSize
		if end > len(runes) {
			end = len(runes)
		}
		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(runes) {
			break
		}
	}
	return chunks
}

func joinTrim(pieces []string) string {
	return strings.TrimSpace(strings.Join(pieces, ""))
}
