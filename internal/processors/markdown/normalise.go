package markdown

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	frontmatterRe = regexp.MustCompile("(?s)^---\n(.*?)\n---\n")

	// Structural markers stay attached to the text they introduce so
	// the splitter does not orphan them on a paragraph break.
	headingGapRe = regexp.MustCompile("\n{3,}(#{1,6})")
	fenceOpenRe  = regexp.MustCompile("\n{3,}```")
	fenceCloseRe = regexp.MustCompile("```\n{3,}")
	tableGapRe   = regexp.MustCompile(`\n{2,}(\|)`)
)

// ExtractFrontmatter strips a leading YAML frontmatter block and
// returns the remaining body plus the frontmatter's flat key/value
// pairs. Only top-level "key: value" lines are parsed; nested
// structures are ignored. Content without frontmatter is returned
// unchanged with a nil map.
func ExtractFrontmatter(content string) (string, map[string]string) {
	m := frontmatterRe.FindStringSubmatch(content)
	if m == nil {
		return content, nil
	}

	fields := make(map[string]string)
	for _, line := range strings.Split(m[1], "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		value = strings.TrimSpace(value)
		value = strings.Trim(value, `"'`)
		fields[key] = value
	}

	return content[len(m[0]):], fields
}

// Normalise tidies markdown before chunking: trailing whitespace is
// stripped per line, runs of blank lines collapse to at most two,
// and gaps before headings, around code fences and inside tables
// are tightened so those blocks survive splitting.
func Normalise(content string) string {
	content = cleanLines(content)
	content = headingGapRe.ReplaceAllString(content, "\n\n$1")
	content = fenceOpenRe.ReplaceAllString(content, "\n\n```")
	content = fenceCloseRe.ReplaceAllString(content, "```\n\n")
	content = tableGapRe.ReplaceAllString(content, "\n$1")
	return strings.TrimSpace(content)
}

// cleanLines trims trailing whitespace from every line and caps
// consecutive blank lines at two.
func cleanLines(content string) string {
	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	blanks := 0
	for _, line := range lines {
		line = strings.TrimRightFunc(line, unicode.IsSpace)
		if line == "" {
			blanks++
			if blanks > 2 {
				continue
			}
		} else {
			blanks = 0
		}
		cleaned = append(cleaned, line)
	}
	return strings.Join(cleaned, "\n")
}
