// Package fund extracts structured tables from Yahoo Finance fund pages:
// the quote summary, holdings, profile, risk and performance views for an
// ETF or mutual fund ticker.
//
// The extractors are written against the markup Yahoo serves to desktop
// browsers, where layout classes double as structural markers: label cells
// float left ("Fl(start)"), value cells float right ("Fl(end)") and
// multi-column rows align their cells ("Ta(s)"/"Ta(e)"). Each extractor
// turns one page into a Table and fails with ErrNotFound when the markup
// it expects is absent, which usually means an invalid ticker or a page
// redesign.
package fund

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// BaseURL is the origin that relative page links resolve against.
const BaseURL = "https://finance.yahoo.com"

// ErrNotFound reports markup that does not match the expected page layout:
// a required container is absent, or the extracted cells do not fill whole
// rows. Partial rows are never returned.
var ErrNotFound = errors.New("page layout not recognized")

// styledLeafSelector matches the label and value cells of the card-style
// tables on the holdings, profile and performance pages.
const styledLeafSelector = `[class*="Fl(start)"], [class*="Fl(end)"]`

// cleanText collapses runs of whitespace, newlines included, into single
// spaces and trims the ends.
func cleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// styledLeafTexts returns the cleaned text of every styled leaf cell under
// root, in document order.
func styledLeafTexts(root *goquery.Selection) []string {
	var texts []string
	root.Find(styledLeafSelector).Each(func(_ int, leaf *goquery.Selection) {
		texts = append(texts, cleanText(leaf.Text()))
	})
	return texts
}

// skipSet builds a page's set of texts to drop before chunking: the ticker
// symbol, empty structural nodes and the page's own header labels.
func skipSet(ticker string, labels ...string) map[string]struct{} {
	skip := map[string]struct{}{"": {}, ticker: {}}
	for _, label := range labels {
		skip[label] = struct{}{}
	}
	return skip
}

// isBlank reports the placeholders Yahoo renders for a cell it has no data
// for.
func isBlank(text string) bool {
	switch text {
	case "", "—", "--":
		return true
	}
	return false
}
