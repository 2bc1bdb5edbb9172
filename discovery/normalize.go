package discovery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// noiseSelector matches elements dropped before text extraction.
const noiseSelector = "script, style, nav, footer"

// Normalize parses an HTML page, removes script, style, nav and footer
// elements with their contents, and returns the remaining text. Whitespace
// is left as the parser produced it.
func Normalize(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	return NormalizeDocument(doc)
}

// NormalizeDocument is Normalize for an already parsed document. The
// document is modified in place.
func NormalizeDocument(doc *goquery.Document) string {
	doc.Find(noiseSelector).Remove()
	return doc.Text()
}
