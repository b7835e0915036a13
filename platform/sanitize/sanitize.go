// Package sanitize provides text sanitization utilities to prevent XSS attacks.
package sanitize

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// maxPasses bounds how often encoded markup is re-parsed.
const maxPasses = 3

// StripHTML removes all markup from a string and decodes entities, making it
// safe for text-only display. Entity-encoded tags are stripped as well.
func StripHTML(s string) string {
	result := s
	for i := 0; i < maxPasses && strings.ContainsAny(result, "<&"); i++ {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(result))
		if err != nil {
			break
		}
		doc.Find("script, style").Remove()
		next := doc.Text()
		if next == result {
			break
		}
		result = next
	}
	return strings.TrimSpace(result)
}

// Text sanitizes a string for safe text storage by stripping HTML
// and collapsing runs of whitespace to a single space.
func Text(s string) string {
	return strings.Join(strings.Fields(StripHTML(s)), " ")
}
