// Package scrape ties the page fetcher to the fund extractors for one
// ticker: it resolves the quote page's navigation links once, then pulls
// and parses the individual pages behind them.
package scrape

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"yahooscraper/fetch"
	"yahooscraper/fund"
)

// Page names as they appear in the quote navigation bar.
const (
	PageSummary     = "Summary"
	PageHoldings    = "Holdings"
	PageProfile     = "Profile"
	PageRisk        = "Risk"
	PagePerformance = "Performance"
)

// Config identifies the fund a Scraper works on.
type Config struct {
	// Ticker is the fund symbol, letters and digits only.
	Ticker string `validate:"required,alphanum"`
	// BaseURL overrides the production origin, mainly for tests.
	BaseURL string
}

var validate = validator.New()

// Scraper scrapes the pages of a single fund ticker. It is not safe for
// concurrent use: the link map resolved from the quote page fills lazily.
type Scraper struct {
	fetcher fetch.Fetcher
	config  Config
	log     *logrus.Logger
	links   fund.Links
}

// NewScraper validates the config and returns a scraper for its ticker.
// The symbol is normalized to upper case, which is how the quote pages
// print it.
func NewScraper(config Config, fetcher fetch.Fetcher, log *logrus.Logger) (*Scraper, error) {
	if err := validate.Struct(&config); err != nil {
		return nil, fmt.Errorf("invalid ticker %q: %w", config.Ticker, err)
	}
	config.Ticker = strings.ToUpper(config.Ticker)
	if config.BaseURL == "" {
		config.BaseURL = fund.BaseURL
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Scraper{fetcher: fetcher, config: config, log: log}, nil
}

// Ticker returns the validated, uppercased fund symbol.
func (s *Scraper) Ticker() string { return s.config.Ticker }

// quoteURL is the fund's summary page, which also carries the navigation
// bar every other page is discovered from.
func (s *Scraper) quoteURL() string {
	return fmt.Sprintf("%s/quote/%s?p=%s", s.config.BaseURL, s.config.Ticker, s.config.Ticker)
}

// fetchDoc pulls one URL and parses its markup.
func (s *Scraper) fetchDoc(ctx context.Context, url string) (*goquery.Document, error) {
	s.log.WithFields(logrus.Fields{"ticker": s.config.Ticker, "url": url}).Debug("fetching page")

	body, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %v", err)
	}
	return doc, nil
}

// ResolveLinks fetches the quote page and returns the page links from its
// navigation bar. The map is kept for the scraper's lifetime and must be
// treated as read-only by callers.
func (s *Scraper) ResolveLinks(ctx context.Context) (fund.Links, error) {
	if s.links != nil {
		return s.links, nil
	}

	doc, err := s.fetchDoc(ctx, s.quoteURL())
	if err != nil {
		return nil, err
	}

	links, err := fund.ExtractLinks(doc, s.config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("resolving links for %s: %w", s.config.Ticker, err)
	}

	s.links = links
	s.log.WithFields(logrus.Fields{"ticker": s.config.Ticker, "pages": len(links)}).Debug("resolved page links")
	return links, nil
}

// pageDoc fetches the named page through the resolved link map. A page
// the navigation bar does not offer reads as not found: either the ticker
// is not a fund or the site dropped the page.
func (s *Scraper) pageDoc(ctx context.Context, page string) (*goquery.Document, error) {
	links, err := s.ResolveLinks(ctx)
	if err != nil {
		return nil, err
	}

	url, ok := links[page]
	if !ok {
		return nil, fmt.Errorf("%w: no %s link for %s", fund.ErrNotFound, page, s.config.Ticker)
	}
	return s.fetchDoc(ctx, url)
}

// Summary scrapes the quote statistics table. It reads the quote landing
// page itself rather than the navigation bar's Summary link, which points
// back at the same page.
func (s *Scraper) Summary(ctx context.Context) (fund.Table, error) {
	doc, err := s.fetchDoc(ctx, s.quoteURL())
	if err != nil {
		return nil, err
	}
	return fund.ExtractSummary(doc)
}

// Holdings scrapes portfolio composition, sector weightings and holding
// characteristics.
func (s *Scraper) Holdings(ctx context.Context) (fund.Table, error) {
	doc, err := s.pageDoc(ctx, PageHoldings)
	if err != nil {
		return nil, err
	}
	return fund.ExtractHoldings(doc, s.config.Ticker)
}

// Profile scrapes the fund overview and operations tables.
func (s *Scraper) Profile(ctx context.Context) (fund.Table, error) {
	doc, err := s.pageDoc(ctx, PageProfile)
	if err != nil {
		return nil, err
	}
	return fund.ExtractProfile(doc, s.config.Ticker)
}

// Risk scrapes the risk statistics table.
func (s *Scraper) Risk(ctx context.Context) (fund.Table, error) {
	doc, err := s.pageDoc(ctx, PageRisk)
	if err != nil {
		return nil, err
	}
	return fund.ExtractRisk(doc, s.config.Ticker)
}

// Performance scrapes the overview, trailing and annual return tables.
func (s *Scraper) Performance(ctx context.Context) (*fund.Performance, error) {
	doc, err := s.pageDoc(ctx, PagePerformance)
	if err != nil {
		return nil, err
	}
	return fund.ExtractPerformance(doc, s.config.Ticker)
}
