package fund

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"yahooscraper/coerce"
)

const (
	alignStartMarker = "Ta(s)"
	alignEndMarker   = "Ta(e)"
)

// ExtractProfile reads a profile page. The page mixes two row shapes:
// plain attribute rows (label and value, both kept as uncoerced strings)
// and fund-operations rows whose cells carry an alignment class and come
// in threes (label, fund value, category average, with percentages and
// grouped numbers coerced). Both shapes land in one table in the order the
// page completes them.
//
// The alignment marker is the only thing separating the two shapes. If
// Yahoo drops the marker from a cell, that cell routes to the wrong row
// width and the mismatch surfaces as a leftover-cell ErrNotFound instead
// of a silently mangled table.
func ExtractProfile(doc *goquery.Document, ticker string) (Table, error) {
	leaves := doc.Find(styledLeafSelector)
	if leaves.Length() == 0 {
		return nil, fmt.Errorf("%w: no profile cells", ErrNotFound)
	}

	skip := skipSet(ticker, "Attributes", "Category Average")

	var table Table
	pairs := newRowBuilder(2, &table)
	triples := newRowBuilder(3, &table)

	var failure error
	leaves.EachWithBreak(func(_ int, leaf *goquery.Selection) bool {
		text := cleanText(leaf.Text())
		if _, drop := skip[text]; drop {
			return true
		}

		class := leaf.AttrOr("class", "")
		if strings.Contains(class, alignStartMarker) || strings.Contains(class, alignEndMarker) {
			value, err := coerce.Apply(text, coerce.RulePercent, coerce.RuleComma, coerce.RuleMissing)
			if err != nil {
				failure = err
				return false
			}
			triples.add(value)
			return true
		}

		pairs.add(coerce.String(text))
		return true
	})
	if failure != nil {
		return nil, failure
	}

	if err := pairs.finish(); err != nil {
		return nil, err
	}
	if err := triples.finish(); err != nil {
		return nil, err
	}
	return table, nil
}
