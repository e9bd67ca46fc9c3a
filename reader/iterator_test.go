package reader

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegasq/tripscan/internal/taxitest"
)

// drain reads every batch of it and closes it.
func drain(t *testing.T, it *BatchIterator) []*Batch {
	t.Helper()
	defer func() { require.NoError(t, it.Close()) }()

	var batches []*Batch
	for {
		b, err := it.Next(context.Background())
		if errors.Is(err, io.EOF) {
			return batches
		}
		require.NoError(t, err)
		batches = append(batches, b)
	}
}

func TestBatchIterator_ColumnValues(t *testing.T) {
	dir := t.TempDir()
	ts := time.Date(2024, 3, 1, 12, 30, 0, 123000, time.UTC)
	taxitest.WriteFile(t, filepath.Join(dir, "a.parquet"), []taxitest.Trip{
		{VendorID: taxitest.Int32(2), Dropoff: taxitest.Time(ts), PULocationID: 7, FareAmount: 12.5},
		{VendorID: nil, Dropoff: nil, PULocationID: 8, FareAmount: 0},
	})

	ds, err := OpenDataset(dir)
	require.NoError(t, err)

	batches := drain(t, ds.Batches([]string{taxitest.VendorID, taxitest.Dropoff, taxitest.FareAmount}, 10))
	require.Len(t, batches, 1)

	b := batches[0]
	assert.Equal(t, 2, b.Len())
	assert.Equal(t, []string{taxitest.VendorID, taxitest.Dropoff, taxitest.FareAmount}, b.Columns())

	vendors, err := b.Column(taxitest.VendorID)
	require.NoError(t, err)
	assert.Equal(t, []any{int32(2), nil}, vendors)

	dropoffs, err := b.Column(taxitest.Dropoff)
	require.NoError(t, err)
	assert.Equal(t, []any{ts, nil}, dropoffs)

	fares, err := b.Column(taxitest.FareAmount)
	require.NoError(t, err)
	assert.Equal(t, []any{12.5, 0.0}, fares)

	// columns that were not requested are not in the batch
	_, err = b.Column(taxitest.PULocationID)
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestBatchIterator_ChunksAcrossFilesAndRowGroups(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	taxitest.WriteFile(t, filepath.Join(dir, "01.parquet"), taxitest.Sequential(25, 0, base),
		parquet.MaxRowsPerRowGroup(10), parquet.PageBufferSize(64))
	taxitest.WriteFile(t, filepath.Join(dir, "02.parquet"), taxitest.Sequential(7, 100, base))

	ds, err := OpenDataset(dir)
	require.NoError(t, err)

	it := ds.Batches([]string{taxitest.PULocationID}, 4)
	batches := drain(t, it)

	var ids []any
	for _, b := range batches {
		assert.LessOrEqual(t, b.Len(), 4)
		col, err := b.Column(taxitest.PULocationID)
		require.NoError(t, err)
		ids = append(ids, col...)
	}

	require.Len(t, ids, 32)
	// file order, then in-file order
	for i := 0; i < 25; i++ {
		assert.Equal(t, int32(i), ids[i])
	}
	for i := 0; i < 7; i++ {
		assert.Equal(t, int32(100+i), ids[25+i])
	}

	batchCount, rows := it.Stats()
	assert.Equal(t, len(batches), batchCount)
	assert.Equal(t, int64(32), rows)
}

func TestBatchIterator_NoColumns(t *testing.T) {
	dir := t.TempDir()
	taxitest.WriteFile(t, filepath.Join(dir, "a.parquet"), taxitest.Sequential(9, 0, time.Now()))

	ds, err := OpenDataset(dir)
	require.NoError(t, err)

	batches := drain(t, ds.Batches(nil, 4))
	require.Len(t, batches, 3)

	total := 0
	for _, b := range batches {
		assert.Empty(t, b.Columns())
		total += b.Len()
	}
	assert.Equal(t, 9, total)
}

func TestBatchIterator_EmptyDataset(t *testing.T) {
	ds, err := OpenDataset(t.TempDir())
	require.NoError(t, err)

	assert.Empty(t, drain(t, ds.Batches([]string{taxitest.VendorID}, 4)))
}

func TestBatchIterator_MissingColumn(t *testing.T) {
	dir := t.TempDir()
	taxitest.WriteFile(t, filepath.Join(dir, "a.parquet"), taxitest.Sequential(1, 0, time.Now()))

	ds, err := OpenDataset(dir)
	require.NoError(t, err)

	it := ds.Batches([]string{"no_such_column"}, 4)
	defer func() { _ = it.Close() }()

	_, err = it.Next(context.Background())
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestBatchIterator_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	taxitest.WriteFile(t, filepath.Join(dir, "a.parquet"), taxitest.Sequential(1, 0, time.Now()))

	ds, err := OpenDataset(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	it := ds.Batches([]string{taxitest.VendorID}, 4)
	defer func() { _ = it.Close() }()

	_, err = it.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBatch_Filter(t *testing.T) {
	b, err := NewBatch([]string{"a", "b"}, [][]any{
		{int32(1), int32(2), int32(3)},
		{"x", "y", "z"},
	})
	require.NoError(t, err)

	filtered, err := b.Filter([]bool{true, false, true})
	require.NoError(t, err)
	assert.Equal(t, 2, filtered.Len())

	a, err := filtered.Column("a")
	require.NoError(t, err)
	assert.Equal(t, []any{int32(1), int32(3)}, a)

	col, err := filtered.Column("b")
	require.NoError(t, err)
	assert.Equal(t, []any{"x", "z"}, col)

	_, err = b.Filter([]bool{true})
	assert.Error(t, err)
}

func TestNewBatch_RaggedColumns(t *testing.T) {
	_, err := NewBatch([]string{"a", "b"}, [][]any{{1, 2}, {1}})
	assert.Error(t, err)
}

func TestGoValue(t *testing.T) {
	tests := []struct {
		name  string
		value parquet.Value
		want  any
	}{
		{"null", parquet.NullValue(), nil},
		{"bool", parquet.BooleanValue(true), true},
		{"int32", parquet.Int32Value(7), int32(7)},
		{"int64", parquet.Int64Value(-3), int64(-3)},
		{"float", parquet.FloatValue(1.5), float32(1.5)},
		{"double", parquet.DoubleValue(2.25), 2.25},
		{"string", parquet.ByteArrayValue([]byte("N")), "N"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GoValue(tt.value))
		})
	}
}
