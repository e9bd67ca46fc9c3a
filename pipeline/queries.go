package pipeline

import (
	"context"
	"fmt"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/vegasq/tripscan/reader"
)

// FileRows is the metadata row count of one dataset file.
type FileRows struct {
	File string `json:"file"`
	Rows int64  `json:"rows"`
}

// RowCount is the result of CountRows.
type RowCount struct {
	Files []FileRows `json:"files"`
	Total int64      `json:"total"`
}

// CountRows sums the row counts recorded in each file's footer. No column
// data is decoded.
func CountRows(ds *reader.Dataset) (RowCount, error) {
	result := RowCount{Files: make([]FileRows, 0, len(ds.Files))}
	for _, path := range ds.Files {
		r, err := reader.NewReader(path)
		if err != nil {
			return RowCount{}, err
		}
		n := r.NumRows()
		if err := r.Close(); err != nil {
			return RowCount{}, fmt.Errorf("failed to close %s: %w", path, err)
		}
		result.Files = append(result.Files, FileRows{File: path, Rows: n})
		result.Total += n
	}
	return result, nil
}

// CountFold counts rows by decoding batches. It gives the same total as
// CountRows and exists to check the metadata path against the decode path.
func CountFold(acc int64, b *reader.Batch) (int64, error) {
	return acc + int64(b.Len()), nil
}

// DistinctFold adds every value of column to the set. Nulls are added as nil.
func DistinctFold(column string) Fold[mapset.Set[any]] {
	return func(acc mapset.Set[any], b *reader.Batch) (mapset.Set[any], error) {
		values, err := b.Column(column)
		if err != nil {
			return acc, err
		}
		acc.Append(values...)
		return acc, nil
	}
}

// Distinct returns the set of distinct values of column.
func Distinct(ctx context.Context, ds *reader.Dataset, column string, opts ...Option) (mapset.Set[any], error) {
	return Aggregate(ctx, ds, []string{column}, DistinctFold(column), mapset.NewThreadUnsafeSet[any](), opts...)
}

// CountEqualFold counts rows whose numeric column equals value. Nulls never
// match.
func CountEqualFold(column string, value float64) Fold[int64] {
	return func(acc int64, b *reader.Batch) (int64, error) {
		values, err := b.Column(column)
		if err != nil {
			return acc, err
		}
		for _, v := range values {
			if v == nil {
				continue
			}
			f, ok := toFloat(v)
			if !ok {
				return acc, fmt.Errorf("%w: %q holds %T, want a number", reader.ErrUnsupportedColumn, column, v)
			}
			if f == value {
				acc++
			}
		}
		return acc, nil
	}
}

// CountEqual counts rows where column equals value.
func CountEqual(ctx context.Context, ds *reader.Dataset, column string, value float64, opts ...Option) (int64, error) {
	return Aggregate(ctx, ds, []string{column}, CountEqualFold(column, value), int64(0), opts...)
}

// RangeMask returns true for every timestamp t with start <= t <= end.
// Null timestamps are excluded.
func RangeMask(values []any, start, end time.Time) ([]bool, error) {
	mask := make([]bool, len(values))
	for i, v := range values {
		if v == nil {
			continue
		}
		ts, ok := v.(time.Time)
		if !ok {
			return nil, fmt.Errorf("%w: holds %T, want a timestamp", reader.ErrUnsupportedColumn, v)
		}
		mask[i] = !ts.Before(start) && !ts.After(end)
	}
	return mask, nil
}

// DistinctInRangeFold keeps the rows whose tsColumn lies in [start, end] and
// adds their idColumn values to the set.
func DistinctInRangeFold(idColumn, tsColumn string, start, end time.Time) Fold[mapset.Set[any]] {
	return func(acc mapset.Set[any], b *reader.Batch) (mapset.Set[any], error) {
		timestamps, err := b.Column(tsColumn)
		if err != nil {
			return acc, err
		}
		mask, err := RangeMask(timestamps, start, end)
		if err != nil {
			return acc, fmt.Errorf("column %q: %w", tsColumn, err)
		}
		filtered, err := b.Filter(mask)
		if err != nil {
			return acc, err
		}
		ids, err := filtered.Column(idColumn)
		if err != nil {
			return acc, err
		}
		acc.Append(ids...)
		return acc, nil
	}
}

// DistinctInRange returns the distinct idColumn values of rows whose tsColumn
// lies in the inclusive range [start, end].
func DistinctInRange(ctx context.Context, ds *reader.Dataset, idColumn, tsColumn string, start, end time.Time, opts ...Option) (mapset.Set[any], error) {
	if end.Before(start) {
		return nil, fmt.Errorf("range end %s is before start %s", end, start)
	}
	return Aggregate(ctx, ds, []string{idColumn, tsColumn},
		DistinctInRangeFold(idColumn, tsColumn, start, end),
		mapset.NewThreadUnsafeSet[any](), opts...)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
