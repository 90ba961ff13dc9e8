package fund

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"yahooscraper/coerce"
	"yahooscraper/utils"
)

const (
	summaryLeftSelector  = `div[data-test="left-summary-table"]`
	summaryRightSelector = `div[data-test="right-summary-table"]`
)

// ExtractSummary reads the two quote-statistics columns of a summary page
// into label/value rows, left column first. Values go through the full
// coercion rule set, so "Bid" becomes a size ratio, "Day's Range" a range
// pair and a plain price stays the string the page printed.
func ExtractSummary(doc *goquery.Document) (Table, error) {
	left := doc.Find(summaryLeftSelector)
	right := doc.Find(summaryRightSelector)
	if left.Length() == 0 || right.Length() == 0 {
		return nil, fmt.Errorf("%w: summary tables missing", ErrNotFound)
	}

	var cells []string
	for _, column := range []*goquery.Selection{left, right} {
		column.Find("td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, cleanText(cell.Text()))
		})
	}

	var table Table
	for pair := range utils.Chunk(cells, 2) {
		if len(pair) != 2 {
			return nil, fmt.Errorf("%w: summary column has a label without a value", ErrNotFound)
		}
		value, err := coerce.Coerce(pair[1])
		if err != nil {
			return nil, err
		}
		table = append(table, Row{coerce.String(pair[0]), value})
	}
	return table, nil
}
