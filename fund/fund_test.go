package fund

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yahooscraper/coerce"
)

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

// labelOf returns the first field of a row as plain text.
func labelOf(t *testing.T, row Row) string {
	t.Helper()
	require.NotEmpty(t, row)
	return row[0].Str
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "Previous Close", cleanText("  Previous\n   Close "))
	assert.Equal(t, "", cleanText(" \n\t "))
	assert.Equal(t, "a b", cleanText("a b"))
}

func TestRowBuilder(t *testing.T) {
	var table Table
	b := newRowBuilder(2, &table)

	b.add(coerce.String("Stocks"))
	assert.Equal(t, 1, b.size())
	b.add(coerce.Percent(0.9994))
	assert.Equal(t, 0, b.size())
	b.add(coerce.String("Bonds"))
	b.add(coerce.Percent(0))

	require.NoError(t, b.finish())
	require.Len(t, table, 2)
	assert.Equal(t, "Stocks", table[0][0].Str)
	assert.Equal(t, "Bonds", table[1][0].Str)
}

func TestRowBuilderLeftoverCells(t *testing.T) {
	var table Table
	b := newRowBuilder(3, &table)

	b.add(coerce.String("orphan"))

	err := b.finish()
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, table)
}

func TestRowBuildersSharingOneTable(t *testing.T) {
	var table Table
	pairs := newRowBuilder(2, &table)
	triples := newRowBuilder(3, &table)

	triples.add(coerce.String("a"))
	pairs.add(coerce.String("x"))
	pairs.add(coerce.String("y"))
	triples.add(coerce.String("b"))
	triples.add(coerce.String("c"))

	require.NoError(t, pairs.finish())
	require.NoError(t, triples.finish())

	// Rows appear in completion order: the pair filled before the triple.
	require.Len(t, table, 2)
	assert.Len(t, table[0], 2)
	assert.Len(t, table[1], 3)
}

func TestIsBlank(t *testing.T) {
	assert.True(t, isBlank(""))
	assert.True(t, isBlank("—"))
	assert.True(t, isBlank("--"))
	assert.False(t, isBlank("0.00"))
	assert.False(t, isBlank("N/A"))
}

// Every extractor must read a parsed document without mutating it or any
// state of its own: a second run gives the same tables.
func TestExtractorsAreIdempotent(t *testing.T) {
	t.Run("links", func(t *testing.T) {
		doc := parseHTML(t, quoteNavPage)
		first, err := ExtractLinks(doc, BaseURL)
		require.NoError(t, err)
		second, err := ExtractLinks(doc, BaseURL)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("summary", func(t *testing.T) {
		doc := parseHTML(t, summaryPage)
		first, err := ExtractSummary(doc)
		require.NoError(t, err)
		second, err := ExtractSummary(doc)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("holdings", func(t *testing.T) {
		doc := parseHTML(t, holdingsPage)
		first, err := ExtractHoldings(doc, "ARKQ")
		require.NoError(t, err)
		second, err := ExtractHoldings(doc, "ARKQ")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("profile", func(t *testing.T) {
		doc := parseHTML(t, profilePage)
		first, err := ExtractProfile(doc, "ARKQ")
		require.NoError(t, err)
		second, err := ExtractProfile(doc, "ARKQ")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("risk", func(t *testing.T) {
		doc := parseHTML(t, riskPage)
		first, err := ExtractRisk(doc, "ARKQ")
		require.NoError(t, err)
		second, err := ExtractRisk(doc, "ARKQ")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("performance", func(t *testing.T) {
		doc := parseHTML(t, performancePage)
		first, err := ExtractPerformance(doc, "ARKQ")
		require.NoError(t, err)
		second, err := ExtractPerformance(doc, "ARKQ")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}
