package pipeline

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegasq/tripscan/internal/taxitest"
	"github.com/vegasq/tripscan/reader"
)

var base = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// threeMonths writes files with 10, 20 and 30 rows and disjoint location ids.
func threeMonths(t *testing.T) *reader.Dataset {
	t.Helper()
	dir := t.TempDir()
	taxitest.WriteFile(t, filepath.Join(dir, "yellow_tripdata_2024-01.parquet"), taxitest.Sequential(10, 0, base))
	taxitest.WriteFile(t, filepath.Join(dir, "yellow_tripdata_2024-02.parquet"), taxitest.Sequential(20, 100, base),
		parquet.MaxRowsPerRowGroup(7))
	taxitest.WriteFile(t, filepath.Join(dir, "yellow_tripdata_2024-03.parquet"), taxitest.Sequential(30, 200, base))

	ds, err := reader.OpenDataset(dir)
	require.NoError(t, err)
	return ds
}

func TestCountRows(t *testing.T) {
	ds := threeMonths(t)

	got, err := CountRows(ds)
	require.NoError(t, err)

	assert.Equal(t, int64(60), got.Total)
	require.Len(t, got.Files, 3)
	assert.Equal(t, int64(10), got.Files[0].Rows)
	assert.Equal(t, int64(20), got.Files[1].Rows)
	assert.Equal(t, int64(30), got.Files[2].Rows)
	assert.Equal(t, "yellow_tripdata_2024-01.parquet", filepath.Base(got.Files[0].File))
}

func TestCountFoldMatchesMetadata(t *testing.T) {
	ds := threeMonths(t)

	meta, err := CountRows(ds)
	require.NoError(t, err)

	for _, columns := range [][]string{nil, {taxitest.VendorID}} {
		decoded, err := Aggregate(context.Background(), ds, columns, CountFold, int64(0), WithBatchSize(3))
		require.NoError(t, err)
		assert.Equal(t, meta.Total, decoded, "columns %v", columns)
	}
}

func TestAggregate_RequestsOnlyGivenColumns(t *testing.T) {
	ds := threeMonths(t)

	var seen [][]string
	_, err := Aggregate(context.Background(), ds, []string{taxitest.FareAmount},
		CountEqualFold(taxitest.FareAmount, 0), int64(0),
		WithBatchHook(func(b *reader.Batch) { seen = append(seen, b.Columns()) }))
	require.NoError(t, err)

	require.NotEmpty(t, seen)
	for _, cols := range seen {
		assert.Equal(t, []string{taxitest.FareAmount}, cols)
	}
}

func TestAggregate_ScansOnce(t *testing.T) {
	ds := threeMonths(t)

	rows := 0
	_, err := Aggregate(context.Background(), ds, []string{taxitest.PULocationID},
		DistinctFold(taxitest.PULocationID), mapset.NewThreadUnsafeSet[any](),
		WithBatchSize(4),
		WithBatchHook(func(b *reader.Batch) { rows += b.Len() }))
	require.NoError(t, err)
	assert.Equal(t, 60, rows)
}

func TestDistinct_BatchSizeInvariant(t *testing.T) {
	dir := t.TempDir()
	trips := make([]taxitest.Trip, 0, 50)
	for i := 0; i < 50; i++ {
		trips = append(trips, taxitest.Trip{PULocationID: int32(i % 13), FareAmount: 1})
	}
	taxitest.WriteFile(t, filepath.Join(dir, "a.parquet"), trips[:25])
	taxitest.WriteFile(t, filepath.Join(dir, "b.parquet"), trips[25:], parquet.MaxRowsPerRowGroup(6))

	ds, err := reader.OpenDataset(dir)
	require.NoError(t, err)

	for _, size := range []int{1, 2, 7, 25, 1000} {
		set, err := Distinct(context.Background(), ds, taxitest.PULocationID, WithBatchSize(size))
		require.NoError(t, err)
		assert.Equal(t, 13, set.Cardinality(), "batch size %d", size)
	}
}

func TestDistinct_NullsParticipate(t *testing.T) {
	dir := t.TempDir()
	taxitest.WriteFile(t, filepath.Join(dir, "a.parquet"), []taxitest.Trip{
		{VendorID: taxitest.Int32(1)},
		{VendorID: nil},
		{VendorID: taxitest.Int32(2)},
		{VendorID: nil},
		{VendorID: taxitest.Int32(1)},
	})

	ds, err := reader.OpenDataset(dir)
	require.NoError(t, err)

	set, err := Distinct(context.Background(), ds, taxitest.VendorID)
	require.NoError(t, err)
	assert.Equal(t, 3, set.Cardinality())
	assert.True(t, set.Contains(nil))
	assert.Equal(t, []any{nil, int32(1), int32(2)}, SortedValues(set))
}

func TestCountEqual(t *testing.T) {
	dir := t.TempDir()
	var trips []taxitest.Trip
	for i := 0; i < 40; i++ {
		fare := 12.5
		if i%5 == 0 {
			fare = 0
		}
		trips = append(trips, taxitest.Trip{PULocationID: int32(i), FareAmount: fare})
	}
	taxitest.WriteFile(t, filepath.Join(dir, "a.parquet"), trips[:15])
	taxitest.WriteFile(t, filepath.Join(dir, "b.parquet"), trips[15:])

	ds, err := reader.OpenDataset(dir)
	require.NoError(t, err)

	zeros, err := CountEqual(context.Background(), ds, taxitest.FareAmount, 0, WithBatchSize(4))
	require.NoError(t, err)
	assert.Equal(t, int64(8), zeros)

	// integer columns compare numerically too
	sevens, err := CountEqual(context.Background(), ds, taxitest.PULocationID, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), sevens)
}

func TestCountEqual_NonNumericColumn(t *testing.T) {
	dir := t.TempDir()
	taxitest.WriteFile(t, filepath.Join(dir, "a.parquet"),
		[]taxitest.Trip{{Dropoff: taxitest.Time(base)}})

	ds, err := reader.OpenDataset(dir)
	require.NoError(t, err)

	_, err = CountEqual(context.Background(), ds, taxitest.Dropoff, 0)
	assert.ErrorIs(t, err, reader.ErrUnsupportedColumn)
}

func TestAggregate_ErrorsAreNotWrappedInLists(t *testing.T) {
	ds := threeMonths(t)

	_, err := Distinct(context.Background(), ds, "no_such_column")
	require.ErrorIs(t, err, reader.ErrColumnNotFound)
	assert.NotContains(t, err.Error(), "error occurred")
	assert.Contains(t, err.Error(), "no_such_column")
}

func TestDistinctInRange_InclusiveBounds(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 15, 23, 59, 59, 0, time.UTC)

	dir := t.TempDir()
	taxitest.WriteFile(t, filepath.Join(dir, "a.parquet"), []taxitest.Trip{
		{VendorID: taxitest.Int32(1), Dropoff: taxitest.Time(start)},
		{VendorID: taxitest.Int32(2), Dropoff: taxitest.Time(end)},
		{VendorID: taxitest.Int32(3), Dropoff: taxitest.Time(start.Add(-time.Microsecond))},
		{VendorID: taxitest.Int32(4), Dropoff: taxitest.Time(end.Add(time.Microsecond))},
		{VendorID: taxitest.Int32(5), Dropoff: nil},
		{VendorID: taxitest.Int32(6), Dropoff: taxitest.Time(start.Add(7 * 24 * time.Hour))},
		{VendorID: nil, Dropoff: taxitest.Time(start.Add(time.Hour))},
	})

	ds, err := reader.OpenDataset(dir)
	require.NoError(t, err)

	for _, size := range []int{1, 3, 100} {
		set, err := DistinctInRange(context.Background(), ds, taxitest.VendorID, taxitest.Dropoff, start, end, WithBatchSize(size))
		require.NoError(t, err)
		assert.Equal(t, []any{nil, int32(1), int32(2), int32(6)}, SortedValues(set), "batch size %d", size)
	}
}

func TestDistinctInRange_ReversedRange(t *testing.T) {
	ds, err := reader.OpenDataset(t.TempDir())
	require.NoError(t, err)

	_, err = DistinctInRange(context.Background(), ds, taxitest.VendorID, taxitest.Dropoff, base, base.Add(-time.Second))
	assert.Error(t, err)
}

func TestRangeMask(t *testing.T) {
	start := base
	end := base.Add(time.Hour)

	mask, err := RangeMask([]any{start, end, nil, start.Add(-time.Nanosecond), end.Add(time.Nanosecond)}, start, end)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true, false, false, false}, mask)

	_, err = RangeMask([]any{int64(1)}, start, end)
	assert.ErrorIs(t, err, reader.ErrUnsupportedColumn)
}

func TestEmptyDataset(t *testing.T) {
	ds, err := reader.OpenDataset(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	count, err := CountRows(ds)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count.Total)
	assert.Empty(t, count.Files)

	set, err := Distinct(ctx, ds, taxitest.PULocationID)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Cardinality())

	zeros, err := CountEqual(ctx, ds, taxitest.FareAmount, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), zeros)

	vendors, err := DistinctInRange(ctx, ds, taxitest.VendorID, taxitest.Dropoff, base, base.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, vendors.Cardinality())

	approx, err := ApproxDistinct(ctx, ds, taxitest.PULocationID)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), approx)
}

func TestApproxDistinct(t *testing.T) {
	ds := threeMonths(t)

	got, err := ApproxDistinct(context.Background(), ds, taxitest.PULocationID, WithBatchSize(8))
	require.NoError(t, err)
	// small cardinalities are counted exactly by the sparse representation
	assert.InDelta(t, 60, float64(got), 2)
}

func TestSortedValues_MixedTypes(t *testing.T) {
	set := mapset.NewThreadUnsafeSet[any]("b", int32(2), nil, "a", int64(1), 1.5)
	assert.Equal(t, []any{nil, int64(1), 1.5, int32(2), "a", "b"}, SortedValues(set))
}
