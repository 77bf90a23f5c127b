// Package document reads match-detail pages: history tables, odds rows,
// the embedded match script, comparison panels and live statistics.
package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLParser turns raw markup into a navigable goquery document.
type HTMLParser struct{}

// NewHTMLParser creates a markup parser.
func NewHTMLParser() *HTMLParser {
	return &HTMLParser{}
}

// Parse parses body. Empty input is rejected, anything else is accepted the
// way browsers accept broken markup.
func (p *HTMLParser) Parse(body []byte) (*goquery.Document, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return doc, nil
}

// text returns the visible text of s with whitespace runs collapsed.
func text(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}

// attrOrText returns the attribute when present, else the element text.
func attrOrText(s *goquery.Selection, attr string) string {
	if v, ok := s.Attr(attr); ok {
		return strings.TrimSpace(v)
	}
	return text(s)
}
