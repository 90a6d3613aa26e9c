// Package extractor pulls bibliographic fields out of a catalog metadata page.
package extractor

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	coverSelector = "img.cover-art"
	rowSelector   = "#bibrec table.bibrec tr"
)

// Metadata is the result of parsing one metadata page.
type Metadata struct {
	// Fields maps a lower-cased row header to its values in document order.
	// Repeated headers (several authors, editors, subjects) accumulate.
	Fields map[string][]string
	// CoverURL is the src of the cover image, empty if the page has none.
	CoverURL string
}

// First returns the first value recorded for key, or "".
func (m Metadata) First(key string) string {
	if values := m.Fields[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

// Extract parses an HTML metadata page. Pages without a cover or without a
// bibliographic table produce empty results rather than errors.
func Extract(html string) (Metadata, error) {
	return ExtractReader(strings.NewReader(html))
}

// ExtractReader is Extract over a reader.
func ExtractReader(r io.Reader) (Metadata, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Metadata{}, fmt.Errorf("parsing HTML: %w", err)
	}

	meta := Metadata{Fields: map[string][]string{}}

	if src, ok := doc.Find(coverSelector).First().Attr("src"); ok {
		meta.CoverURL = src
	}

	doc.Find(rowSelector).Each(func(_ int, row *goquery.Selection) {
		th := row.Find("th").First()
		td := row.Find("td").First()
		if th.Length() == 0 || td.Length() == 0 {
			return
		}

		key := strings.ToLower(strings.TrimSpace(th.Text()))
		meta.Fields[key] = append(meta.Fields[key], strings.TrimSpace(td.Text()))
	})

	return meta, nil
}
