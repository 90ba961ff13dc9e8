package fund

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// Links maps a page name from the quote navigation bar ("Holdings",
// "Performance", ...) to its absolute URL.
type Links map[string]string

const navSelector = "#quote-nav"

// ExtractLinks reads the quote page's navigation bar and returns the pages
// it points at. Yahoo emits relative targets, so each href is joined onto
// base. A missing bar means the ticker did not resolve to a quote page;
// anchors without text or a target are ignored.
func ExtractLinks(doc *goquery.Document, base string) (Links, error) {
	nav := doc.Find(navSelector)
	if nav.Length() == 0 {
		return nil, fmt.Errorf("%w: quote navigation bar missing", ErrNotFound)
	}

	links := make(Links)
	nav.Find("a").Each(func(_ int, anchor *goquery.Selection) {
		name := cleanText(anchor.Text())
		href := anchor.AttrOr("href", "")
		if name == "" || href == "" {
			return
		}
		links[name] = base + href
	})
	return links, nil
}
