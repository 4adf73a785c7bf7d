package classify

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/comparia/comparia/internal/model"
)

// StripHTML reduces marked-up catalog text to its visible words. Auction
// descriptions frequently arrive as HTML fragments; classification runs
// on the text alone. Input without markup passes through unchanged apart
// from whitespace folding.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<>") {
		return strings.Join(strings.Fields(s), " ")
	}

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.Join(strings.Fields(buf.String()), " ")
}

// normalizeToken lowercases a token and strips surrounding quoting and
// punctuation so vocabulary lookups match catalog spellings.
func normalizeToken(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Trim(s, `"'.,;:()[]`)
}

// firstPeriodToken returns the first whitespace token containing a
// 4-digit year, as written ("1970", "1970-tal"), or "".
func firstPeriodToken(text string) string {
	for _, tok := range strings.Fields(text) {
		tok = normalizeToken(tok)
		if model.YearIn(tok) != "" {
			return tok
		}
	}
	return ""
}
