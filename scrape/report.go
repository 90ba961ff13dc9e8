package scrape

import (
	"context"

	"github.com/sirupsen/logrus"

	"yahooscraper/fund"
)

// PageResult is one page's outcome inside a Report: its table on success,
// the error text otherwise.
type PageResult struct {
	Table fund.Table `json:"table,omitempty"`
	Error string     `json:"error,omitempty"`
}

// PerformanceResult mirrors PageResult for the three performance tables.
type PerformanceResult struct {
	Tables *fund.Performance `json:"tables,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// Report bundles every page of one fund.
type Report struct {
	Ticker      string            `json:"ticker"`
	Links       fund.Links        `json:"links"`
	Summary     PageResult        `json:"summary"`
	Holdings    PageResult        `json:"holdings"`
	Profile     PageResult        `json:"profile"`
	Risk        PageResult        `json:"risk"`
	Performance PerformanceResult `json:"performance"`
}

// Report scrapes all five pages in sequence. Pages fail independently,
// one unrecognized layout does not cost the rest of the report; only a
// failure to resolve the link map aborts the whole run.
func (s *Scraper) Report(ctx context.Context) (*Report, error) {
	links, err := s.ResolveLinks(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{Ticker: s.config.Ticker, Links: links}
	report.Summary = s.pageResult(ctx, PageSummary, s.Summary)
	report.Holdings = s.pageResult(ctx, PageHoldings, s.Holdings)
	report.Profile = s.pageResult(ctx, PageProfile, s.Profile)
	report.Risk = s.pageResult(ctx, PageRisk, s.Risk)

	if perf, err := s.Performance(ctx); err != nil {
		s.logPageFailure(PagePerformance, err)
		report.Performance = PerformanceResult{Error: err.Error()}
	} else {
		report.Performance = PerformanceResult{Tables: perf}
	}

	return report, nil
}

func (s *Scraper) pageResult(ctx context.Context, page string, scrape func(context.Context) (fund.Table, error)) PageResult {
	table, err := scrape(ctx)
	if err != nil {
		s.logPageFailure(page, err)
		return PageResult{Error: err.Error()}
	}
	return PageResult{Table: table}
}

func (s *Scraper) logPageFailure(page string, err error) {
	s.log.WithFields(logrus.Fields{
		"ticker": s.config.Ticker,
		"page":   page,
	}).WithError(err).Warn("page scrape failed")
}
