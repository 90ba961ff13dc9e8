package fund

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"yahooscraper/coerce"
	"yahooscraper/utils"
)

const (
	perfSectionSelector = `section[data-test="qsp-performance"] > div`
	perfLabelMarker     = "Mend(5px)"
	perfNodeSelector    = `[class*="Mend(5px)"], [class*="Fl(start)"], [class*="Fl(end)"]`
)

// Performance holds the three tables of a performance page.
type Performance struct {
	Overview Table `json:"overview"`
	Trailing Table `json:"trailing"`
	Annual   Table `json:"annual"`
}

// ExtractPerformance reads a performance page: the return overview, the
// trailing returns versus benchmarks, and the annual total return history.
// The page must show exactly those three sections, in that order, for the
// extraction to trust its reading of them.
func ExtractPerformance(doc *goquery.Document, ticker string) (*Performance, error) {
	sections := doc.Find(perfSectionSelector)
	if sections.Length() != 3 {
		return nil, fmt.Errorf("%w: expected 3 performance sections, found %d", ErrNotFound, sections.Length())
	}

	skip := skipSet(ticker)

	overview, err := extractOverview(sections.Eq(0), skip)
	if err != nil {
		return nil, err
	}
	trailing, err := extractTrailing(sections.Eq(1), skip)
	if err != nil {
		return nil, err
	}
	annual, err := extractAnnual(sections.Eq(2), skip)
	if err != nil {
		return nil, err
	}

	return &Performance{Overview: overview, Trailing: trailing, Annual: annual}, nil
}

// extractOverview pairs up the overview cells. The page prints each figure
// before its caption and that order is kept, so these rows are
// (value, metric name) rather than label-first.
func extractOverview(section *goquery.Selection, skip map[string]struct{}) (Table, error) {
	var cells []string
	for _, text := range styledLeafTexts(section) {
		if _, drop := skip[text]; drop {
			continue
		}
		cells = append(cells, text)
	}

	var table Table
	for pair := range utils.Chunk(cells, 2) {
		if len(pair) != 2 {
			return nil, fmt.Errorf("%w: overview cells do not pair up", ErrNotFound)
		}
		row := make(Row, 0, 2)
		for _, text := range pair {
			value, err := percentValue(text)
			if err != nil {
				return nil, err
			}
			row = append(row, value)
		}
		table = append(table, row)
	}
	return table, nil
}

// extractTrailing walks the trailing-returns cells in document order. A
// label node opens a row, the three value cells that follow fill it (fund,
// benchmark, category) and the label is appended as the row's last field.
// A label arriving while a row is part-filled, or a value arriving before
// any label, means the stream and the expected shape disagree.
func extractTrailing(section *goquery.Selection, skip map[string]struct{}) (Table, error) {
	var table Table
	builder := newRowBuilder(4, &table)

	category := ""
	haveCategory := false

	var failure error
	section.Find(perfNodeSelector).EachWithBreak(func(_ int, node *goquery.Selection) bool {
		text := cleanText(node.Text())

		if strings.Contains(node.AttrOr("class", ""), perfLabelMarker) {
			if builder.size() != 0 {
				failure = fmt.Errorf("%w: trailing row %q interrupted by label %q", ErrNotFound, category, text)
				return false
			}
			category = text
			haveCategory = true
			return true
		}

		if _, drop := skip[text]; drop {
			return true
		}
		if !haveCategory {
			failure = fmt.Errorf("%w: trailing value %q before any row label", ErrNotFound, text)
			return false
		}

		value, err := percentValue(text)
		if err != nil {
			failure = err
			return false
		}
		builder.add(value)
		if builder.size() == 3 {
			builder.add(coerce.String(category))
		}
		return true
	})
	if failure != nil {
		return nil, failure
	}
	if err := builder.finish(); err != nil {
		return nil, err
	}
	return table, nil
}

// extractAnnual reads the year-by-year history into (year, fund return,
// category return) rows. Label-marker nodes, like the column captions over
// the list, are dropped from the stream.
func extractAnnual(section *goquery.Selection, skip map[string]struct{}) (Table, error) {
	var cells []string
	section.Find(perfNodeSelector).Each(func(_ int, node *goquery.Selection) {
		if strings.Contains(node.AttrOr("class", ""), perfLabelMarker) {
			return
		}
		text := cleanText(node.Text())
		if _, drop := skip[text]; drop {
			return
		}
		cells = append(cells, text)
	})

	var table Table
	for group := range utils.Chunk(cells, 3) {
		if len(group) != 3 {
			return nil, fmt.Errorf("%w: annual return cells do not group into threes", ErrNotFound)
		}
		row := make(Row, 0, 3)
		for _, text := range group {
			value, err := percentValue(text)
			if err != nil {
				return nil, err
			}
			row = append(row, value)
		}
		table = append(table, row)
	}
	return table, nil
}

// percentValue coerces one performance cell. A placeholder dash maps to
// the missing sentinel, not zero: a fund without a 10-year history has no
// return there, not a 0% one. Years and captions pass through as strings.
func percentValue(text string) (coerce.Value, error) {
	if isBlank(text) {
		return coerce.Missing(), nil
	}
	return coerce.Apply(text, coerce.RulePercent, coerce.RuleMissing)
}
