package fund

import (
	"fmt"
	"strconv"

	"github.com/PuerkitoBio/goquery"

	"yahooscraper/coerce"
)

const riskRowSelector = `div[class*="fi-row"]`

// riskHeader names the seven columns of the risk statistics table. The
// page spreads its column heads across period groups, so a fixed header
// row keeps the output self-describing.
var riskHeader = []string{
	"Category",
	"3-Year Fund", "3-Year Category",
	"5-Year Fund", "5-Year Category",
	"10-Year Fund", "10-Year Category",
}

// ExtractRisk reads the risk statistics rows (alpha, beta, mean annual
// return, R-squared, standard deviation, Sharpe and Treynor ratios) into
// 7-field rows: metric name plus fund and category values over the 3, 5
// and 10 year windows, under a fixed header row. A cell the page leaves
// blank becomes the missing sentinel, never zero, so young funds keep
// their row shape.
func ExtractRisk(doc *goquery.Document, ticker string) (Table, error) {
	rows := doc.Find(riskRowSelector)
	if rows.Length() == 0 {
		return nil, fmt.Errorf("%w: no risk statistics rows", ErrNotFound)
	}

	header := make(Row, 0, len(riskHeader))
	for _, name := range riskHeader {
		header = append(header, coerce.String(name))
	}
	table := Table{header}

	var failure error
	rows.EachWithBreak(func(i int, row *goquery.Selection) bool {
		cells := make(Row, 0, len(riskHeader))
		row.Find("span").Each(func(_ int, cell *goquery.Selection) {
			text := cleanText(cell.Text())
			if text == ticker {
				return
			}
			cells = append(cells, riskValue(text))
		})
		if len(cells) != len(riskHeader) {
			failure = fmt.Errorf("%w: risk row %d has %d cells", ErrNotFound, i, len(cells))
			return false
		}
		table = append(table, cells)
		return true
	})
	if failure != nil {
		return nil, failure
	}
	return table, nil
}

// riskValue types one risk cell. Metric names and numbers share the same
// flat cell stream on this page, so the split is: blank placeholders map
// to the missing sentinel, anything that parses is a number and the rest,
// like the metric name, stays a string.
func riskValue(text string) coerce.Value {
	if isBlank(text) {
		return coerce.Missing()
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return coerce.Number(f)
	}
	return coerce.String(text)
}
