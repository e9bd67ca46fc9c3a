// Package pipeline runs folds over column-pruned batches of a dataset.
//
// Every query is a call to Aggregate with the minimal column set, a fold and
// an initial accumulator:
//
//	zeros, err := pipeline.Aggregate(ctx, ds, []string{"fare_amount"},
//	    pipeline.CountEqualFold("fare_amount", 0), int64(0))
//
// The dataset is scanned exactly once, lazily, one batch in memory at a time.
package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/hashicorp/go-multierror"

	"github.com/vegasq/tripscan/reader"
)

// Fold merges one batch into an accumulator. Errors abort the scan.
type Fold[A any] func(acc A, b *reader.Batch) (A, error)

type options struct {
	batchSize int
	onBatch   func(*reader.Batch)
}

// Option configures a scan.
type Option func(*options)

// WithBatchSize sets the number of rows per batch.
func WithBatchSize(n int) Option {
	return func(o *options) {
		o.batchSize = n
	}
}

// WithBatchHook registers a function called with every batch before it is
// folded.
func WithBatchHook(fn func(*reader.Batch)) Option {
	return func(o *options) {
		o.onBatch = fn
	}
}

func buildOptions(opts []Option) options {
	o := options{batchSize: reader.DefaultBatchSize}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Aggregate folds every batch of ds, restricted to columns, into init.
//
// Batches are folded in production order: file order, then row group order,
// then row order. A dataset without rows returns init unchanged.
func Aggregate[A any](ctx context.Context, ds *reader.Dataset, columns []string, fold Fold[A], init A, opts ...Option) (acc A, err error) {
	o := buildOptions(opts)

	it := ds.Batches(columns, o.batchSize)
	defer func() {
		if cerr := it.Close(); cerr != nil {
			if err == nil {
				err = cerr
			} else {
				err = multierror.Append(err, cerr)
			}
		}
	}()

	acc = init
	for {
		b, nextErr := it.Next(ctx)
		if errors.Is(nextErr, io.EOF) {
			break
		}
		if nextErr != nil {
			return acc, nextErr
		}
		if o.onBatch != nil {
			o.onBatch(b)
		}
		if acc, err = fold(acc, b); err != nil {
			return acc, err
		}
	}

	batches, rows := it.Stats()
	slog.Debug("aggregation finished",
		slog.String("dataset", ds.Path),
		slog.Any("columns", columns),
		slog.Int("batches", batches),
		slog.Int64("rows", rows))
	return acc, nil
}
