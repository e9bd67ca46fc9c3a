package reader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/hashicorp/go-multierror"
	"github.com/parquet-go/parquet-go"
)

// DefaultBatchSize is the number of rows per batch when none is given.
const DefaultBatchSize = 65536

// BatchIterator pulls column-pruned batches from a dataset, one file and one
// row group at a time. Only the column chunks of the requested columns are
// read; other columns are never decoded.
//
// A BatchIterator is not safe for concurrent use.
type BatchIterator struct {
	files     []string
	columns   []string
	batchSize int

	fileIdx   int
	cur       *Reader
	leaves    []leafColumn
	rowGroups []parquet.RowGroup
	rgIdx     int
	remaining int64
	cursors   []*columnCursor
	buf       []parquet.Value

	batches int
	rows    int64
	closed  bool
}

type leafColumn struct {
	name    string
	index   int
	convert converter
}

func newBatchIterator(files, columns []string, batchSize int) *BatchIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	names := make([]string, len(columns))
	copy(names, columns)

	it := &BatchIterator{
		files:     files,
		columns:   names,
		batchSize: batchSize,
	}
	if len(names) > 0 {
		it.buf = make([]parquet.Value, batchSize)
	}
	return it
}

// Next returns the next batch. It returns io.EOF once every file has been
// consumed; a dataset without files or rows returns io.EOF immediately.
func (it *BatchIterator) Next(ctx context.Context) (*Batch, error) {
	if it.closed {
		return nil, errors.New("batch iterator is closed")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for it.remaining == 0 {
		if err := it.advance(); err != nil {
			return nil, err
		}
	}

	b, err := it.readBatch()
	if err != nil {
		return nil, err
	}
	it.batches++
	it.rows += int64(b.Len())
	return b, nil
}

// Stats returns how many batches and rows have been produced so far.
func (it *BatchIterator) Stats() (batches int, rows int64) {
	return it.batches, it.rows
}

// advance moves to the next row group, opening the next file when the
// current one is exhausted.
func (it *BatchIterator) advance() error {
	if err := it.closeCursors(); err != nil {
		return err
	}

	for it.cur == nil || it.rgIdx >= len(it.rowGroups) {
		if it.cur != nil {
			slog.Debug("finished file", slog.String("file", it.cur.Path()))
			if err := it.cur.Close(); err != nil {
				return fmt.Errorf("failed to close %s: %w", it.cur.Path(), err)
			}
			it.cur = nil
		}
		if it.fileIdx >= len(it.files) {
			return io.EOF
		}

		path := it.files[it.fileIdx]
		it.fileIdx++

		r, err := NewReader(path)
		if err != nil {
			return err
		}
		leaves, err := resolveColumns(r.Schema(), it.columns)
		if err != nil {
			_ = r.Close()
			return fmt.Errorf("%s: %w", path, err)
		}

		slog.Debug("scanning file",
			slog.String("file", path),
			slog.Int64("rows", r.NumRows()),
			slog.Any("columns", it.columns))

		it.cur = r
		it.leaves = leaves
		it.rowGroups = r.RowGroups()
		it.rgIdx = 0
	}

	rg := it.rowGroups[it.rgIdx]
	it.rgIdx++
	it.remaining = rg.NumRows()

	chunks := rg.ColumnChunks()
	it.cursors = make([]*columnCursor, len(it.leaves))
	for i, leaf := range it.leaves {
		it.cursors[i] = &columnCursor{pages: chunks[leaf.index].Pages()}
	}
	return nil
}

func (it *BatchIterator) readBatch() (*Batch, error) {
	n := int64(it.batchSize)
	if it.remaining < n {
		n = it.remaining
	}

	b := &Batch{
		File:    it.cur.Path(),
		rows:    int(n),
		names:   it.columns,
		columns: make([][]any, len(it.leaves)),
	}

	for i, cursor := range it.cursors {
		leaf := it.leaves[i]
		got, err := cursor.read(it.buf[:n])
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read column %q of %s: %w", leaf.name, it.cur.Path(), err)
		}
		if int64(got) != n {
			return nil, fmt.Errorf("column %q of %s ended after %d of %d values", leaf.name, it.cur.Path(), got, n)
		}

		values := make([]any, got)
		for j := 0; j < got; j++ {
			values[j] = leaf.convert(it.buf[j])
		}
		b.columns[i] = values
	}

	it.remaining -= n
	return b, nil
}

func (it *BatchIterator) closeCursors() error {
	var errs *multierror.Error
	for _, c := range it.cursors {
		if err := c.pages.Close(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	it.cursors = nil
	return flatten(errs)
}

// Close releases the open file and page readers, if any.
func (it *BatchIterator) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true

	var errs *multierror.Error
	if err := it.closeCursors(); err != nil {
		errs = multierror.Append(errs, err)
	}
	if it.cur != nil {
		if err := it.cur.Close(); err != nil {
			errs = multierror.Append(errs, err)
		}
		it.cur = nil
	}
	return flatten(errs)
}

// flatten returns a single collected error unwrapped.
func flatten(errs *multierror.Error) error {
	if errs != nil && len(errs.Errors) == 1 {
		return errs.Errors[0]
	}
	return errs.ErrorOrNil()
}

// resolveColumns maps column names to leaf column indexes of schema.
func resolveColumns(schema *parquet.Schema, columns []string) ([]leafColumn, error) {
	leaves := make([]leafColumn, len(columns))
	for i, name := range columns {
		leaf, ok := schema.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
		}
		if leaf.MaxRepetitionLevel > 0 {
			return nil, fmt.Errorf("%w: %q is repeated", ErrUnsupportedColumn, name)
		}
		leaves[i] = leafColumn{
			name:    name,
			index:   leaf.ColumnIndex,
			convert: converterFor(leaf.Node.Type()),
		}
	}
	return leaves, nil
}

// columnCursor reads values of one column chunk across page boundaries.
type columnCursor struct {
	pages  parquet.Pages
	values parquet.ValueReader
}

func (c *columnCursor) read(dst []parquet.Value) (int, error) {
	n := 0
	for n < len(dst) {
		if c.values == nil {
			page, err := c.pages.ReadPage()
			if err != nil {
				return n, err
			}
			c.values = page.Values()
		}

		m, err := c.values.ReadValues(dst[n:])
		// byte array values alias page buffers that the next ReadPage may reuse
		for i := n; i < n+m; i++ {
			dst[i] = dst[i].Clone()
		}
		n += m
		if err != nil {
			if errors.Is(err, io.EOF) {
				c.values = nil
				continue
			}
			return n, err
		}
	}
	return n, nil
}
