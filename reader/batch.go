package reader

import (
	"errors"
	"fmt"
)

var (
	// ErrColumnNotFound is returned when a requested column is absent from a file.
	ErrColumnNotFound = errors.New("column not found")
	// ErrUnsupportedColumn is returned for nested or repeated columns.
	ErrUnsupportedColumn = errors.New("unsupported column")
)

// Batch is a bounded slice of a dataset's rows restricted to the requested
// columns. Values are decoded Go values; nulls are nil.
//
// A batch is only valid until the next call to BatchIterator.Next.
type Batch struct {
	File    string
	rows    int
	names   []string
	columns [][]any
}

// Len returns the number of rows in the batch.
func (b *Batch) Len() int {
	return b.rows
}

// Columns returns the column names held by the batch, in request order.
func (b *Batch) Columns() []string {
	return b.names
}

// Column returns the values of the named column.
func (b *Batch) Column(name string) ([]any, error) {
	for i, n := range b.names {
		if n == name {
			return b.columns[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q not in batch", ErrColumnNotFound, name)
}

// Filter returns a new batch holding the rows whose mask entry is true.
func (b *Batch) Filter(mask []bool) (*Batch, error) {
	if len(mask) != b.rows {
		return nil, fmt.Errorf("mask has %d entries, batch has %d rows", len(mask), b.rows)
	}

	kept := 0
	for _, keep := range mask {
		if keep {
			kept++
		}
	}

	out := &Batch{
		File:    b.File,
		rows:    kept,
		names:   b.names,
		columns: make([][]any, len(b.columns)),
	}
	for c, values := range b.columns {
		filtered := make([]any, 0, kept)
		for i, keep := range mask {
			if keep {
				filtered = append(filtered, values[i])
			}
		}
		out.columns[c] = filtered
	}
	return out, nil
}

// NewBatch builds a batch from column slices of equal length.
func NewBatch(names []string, columns [][]any) (*Batch, error) {
	if len(names) != len(columns) {
		return nil, fmt.Errorf("%d names for %d columns", len(names), len(columns))
	}
	rows := 0
	for i, values := range columns {
		if i == 0 {
			rows = len(values)
		} else if len(values) != rows {
			return nil, fmt.Errorf("column %q has %d values, want %d", names[i], len(values), rows)
		}
	}
	return &Batch{rows: rows, names: names, columns: columns}, nil
}
