package fund

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"yahooscraper/coerce"
	"yahooscraper/utils"
)

// ExtractHoldings reads a holdings page into (category, weight) rows
// covering portfolio composition, sector weightings and the equity/bond
// characteristics cards. Weights are percentages; cells Yahoo marks "N/A"
// come back as the missing sentinel, and plain figures like P/E multiples
// stay strings. No range or grouped-number rules run here, so a category
// name containing a dash cannot be mistaken for data.
func ExtractHoldings(doc *goquery.Document, ticker string) (Table, error) {
	texts := styledLeafTexts(doc.Selection)
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: no holdings cells", ErrNotFound)
	}

	skip := skipSet(ticker, "Sector", "Average")
	var cells []string
	for _, text := range texts {
		if _, drop := skip[text]; drop {
			continue
		}
		cells = append(cells, text)
	}

	var table Table
	for pair := range utils.Chunk(cells, 2) {
		if len(pair) != 2 {
			return nil, fmt.Errorf("%w: holdings cells do not pair up", ErrNotFound)
		}
		value, err := coerce.Apply(pair[1], coerce.RulePercent, coerce.RuleMissing)
		if err != nil {
			return nil, err
		}
		table = append(table, Row{coerce.String(pair[0]), value})
	}
	return table, nil
}
