package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/axiomhq/hyperloglog"
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/vegasq/tripscan/reader"
)

// SortedValues returns the members of set in ascending order. Nil sorts
// first; values of different types are ordered by type name.
func SortedValues(set mapset.Set[any]) []any {
	values := set.ToSlice()
	sort.Slice(values, func(i, j int) bool {
		return lessValue(values[i], values[j])
	})
	return values
}

func lessValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b != nil
	}

	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa < fb
		}
	}

	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return x < y
		}
	case bool:
		if y, ok := b.(bool); ok {
			return !x && y
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Before(y)
		}
	}

	ta, tb := fmt.Sprintf("%T", a), fmt.Sprintf("%T", b)
	if ta != tb {
		return ta < tb
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}

// ApproxDistinctFold inserts every value of column into a HyperLogLog sketch.
// Nulls are counted as one value.
func ApproxDistinctFold(column string) Fold[*hyperloglog.Sketch] {
	return func(acc *hyperloglog.Sketch, b *reader.Batch) (*hyperloglog.Sketch, error) {
		values, err := b.Column(column)
		if err != nil {
			return acc, err
		}
		for _, v := range values {
			acc.Insert(sketchKey(v))
		}
		return acc, nil
	}
}

// ApproxDistinct estimates the number of distinct values of column in
// constant memory.
func ApproxDistinct(ctx context.Context, ds *reader.Dataset, column string, opts ...Option) (uint64, error) {
	sk, err := Aggregate(ctx, ds, []string{column}, ApproxDistinctFold(column), hyperloglog.New14(), opts...)
	if err != nil {
		return 0, err
	}
	return sk.Estimate(), nil
}

// sketchKey encodes a value with its type so that int32(1) and "1" hash
// differently.
func sketchKey(v any) []byte {
	if v == nil {
		return []byte{0}
	}
	if t, ok := v.(time.Time); ok {
		return []byte(fmt.Sprintf("time.Time:%d", t.UnixNano()))
	}
	return []byte(fmt.Sprintf("%T:%v", v, v))
}
