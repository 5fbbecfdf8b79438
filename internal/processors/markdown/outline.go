package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Outline parses the document and returns its title plus the flat
// list of heading texts in document order. The title is the first
// heading regardless of level; both are empty when the document has
// no headings.
func Outline(content string) (string, []string) {
	src := []byte(content)
	root := goldmark.New().Parser().Parse(text.NewReader(src))

	var headings []string
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if t := headingText(h, src); t != "" {
			headings = append(headings, t)
		}
		return ast.WalkSkipChildren, nil
	})

	if len(headings) == 0 {
		return "", nil
	}
	return headings[0], headings
}

// headingText flattens the literal text under a heading node,
// skipping inline markup.
func headingText(h *ast.Heading, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(h, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
