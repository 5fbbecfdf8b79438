package html

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// blockSelector lists the elements whose text becomes chunkable
// paragraphs. Only leaf blocks emit so nested containers do not
// duplicate their children's text.
const blockSelector = "h1, h2, h3, h4, h5, h6, p, li, pre, blockquote, td, th"

var whitespaceRe = regexp.MustCompile(`\s+`)

// page is the text view of one parsed HTML document.
type page struct {
	title    string
	headings []string
	text     string
}

// parse strips markup from an HTML document and returns its readable
// text. Headings come out as markdown-style lines and blocks are
// separated by blank lines so splitting lands between sections.
func parse(content string) (*page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, err
	}

	doc.Find("script, style, noscript, nav, footer, aside, svg").Remove()

	pg := &page{title: flatten(doc.Find("title").First().Text())}

	var blocks []string
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		if s.Find(blockSelector).Length() > 0 {
			return
		}
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}

		switch tag := goquery.NodeName(s); {
		case isHeading(tag):
			heading := flatten(text)
			pg.headings = append(pg.headings, heading)
			blocks = append(blocks, strings.Repeat("#", int(tag[1]-'0'))+" "+heading)
		case tag == "li":
			blocks = append(blocks, "- "+flatten(text))
		case tag == "pre":
			blocks = append(blocks, text)
		default:
			blocks = append(blocks, flatten(text))
		}
	})

	if len(blocks) > 0 {
		pg.text = strings.Join(blocks, "\n\n")
	} else {
		pg.text = flatten(doc.Find("body").Text())
	}

	if pg.title == "" && len(pg.headings) > 0 {
		pg.title = pg.headings[0]
	}

	return pg, nil
}

func isHeading(tag string) bool {
	return len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6'
}

// flatten collapses whitespace runs to single spaces.
func flatten(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}
