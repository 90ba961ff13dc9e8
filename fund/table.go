package fund

import (
	"fmt"

	"yahooscraper/coerce"
)

// Row is one extracted table row. By convention the first field is the row
// label; the one exception is the performance overview table, which keeps
// the page's value-first order.
type Row []coerce.Value

// Table is an ordered list of rows from one page section.
type Table []Row

// rowBuilder accumulates cells and appends a finished row to its table
// whenever the target width is reached. Extractors that route cells to
// rows of different widths share one output table across builders, so rows
// land in the order the page completes them.
type rowBuilder struct {
	arity   int
	out     *Table
	pending Row
}

func newRowBuilder(arity int, out *Table) *rowBuilder {
	return &rowBuilder{arity: arity, out: out}
}

func (b *rowBuilder) add(v coerce.Value) {
	b.pending = append(b.pending, v)
	if len(b.pending) == b.arity {
		*b.out = append(*b.out, b.pending)
		b.pending = nil
	}
}

// size is the number of cells waiting for the current row to fill.
func (b *rowBuilder) size() int { return len(b.pending) }

// finish fails when cells are left over: a partially filled row means the
// page's cell stream does not line up with the expected row shape.
func (b *rowBuilder) finish() error {
	if len(b.pending) != 0 {
		return fmt.Errorf("%w: %d leftover cells for %d-field rows", ErrNotFound, len(b.pending), b.arity)
	}
	return nil
}
