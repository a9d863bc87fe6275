package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

var (
	// StrictPolicy for plain-text rendering of backend content
	StrictPolicy *bluemonday.Policy
	// DigestPolicy for the HTML snippets carried by news digests
	DigestPolicy *bluemonday.Policy
)

func init() {
	StrictPolicy = bluemonday.StrictPolicy()

	DigestPolicy = bluemonday.UGCPolicy()

	// Digest summaries are short rich-text fragments
	DigestPolicy.AllowElements("p", "br", "span", "strong", "em", "code", "blockquote")
	DigestPolicy.AllowElements("ul", "ol", "li")
	DigestPolicy.AllowAttrs("href").OnElements("a")
	DigestPolicy.RequireParseableURLs(true)
	DigestPolicy.AllowURLSchemes("http", "https")
}

// SanitizeDigest sanitizes a digest snippet for inline rendering.
func SanitizeDigest(snippet string) string {
	return DigestPolicy.Sanitize(snippet)
}

// StripHTML removes all HTML tags from content
func StripHTML(content string) string {
	return StrictPolicy.Sanitize(content)
}

// ExtractTextSnippet walks the HTML fragment and returns its text content,
// truncated to max runes on a word boundary where possible.
func ExtractTextSnippet(fragment string, max int) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return truncate(StripHTML(fragment), max)
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	text := strings.Join(strings.Fields(b.String()), " ")
	return truncate(text, max)
}

func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	cut := string(runes[:max])
	if idx := strings.LastIndex(cut, " "); idx > max/2 {
		cut = cut[:idx]
	}
	return cut + "…"
}
