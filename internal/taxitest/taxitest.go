// Package taxitest writes small synthetic yellow taxi Parquet files.
//
// The schema mirrors the handful of TLC columns the queries touch: an optional
// INT32 VendorID, an optional microsecond TIMESTAMP dropoff time, a required
// INT32 PULocationID and a required DOUBLE fare_amount.
package taxitest

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
)

// Column names used by the fixtures.
const (
	VendorID     = "VendorID"
	Dropoff      = "tpep_dropoff_datetime"
	PULocationID = "PULocationID"
	FareAmount   = "fare_amount"
)

// Leaf column indexes. parquet.Group orders fields by name.
const (
	colPULocationID = iota
	colVendorID
	colFareAmount
	colDropoff
)

// Trip is one synthetic row. Nil pointers are written as nulls.
type Trip struct {
	VendorID     *int32
	Dropoff      *time.Time
	PULocationID int32
	FareAmount   float64
}

// Schema returns the fixture schema.
func Schema() *parquet.Schema {
	return parquet.NewSchema("schema", parquet.Group{
		VendorID:     parquet.Optional(parquet.Int(32)),
		Dropoff:      parquet.Optional(parquet.Timestamp(parquet.Microsecond)),
		PULocationID: parquet.Int(32),
		FareAmount:   parquet.Leaf(parquet.DoubleType),
	})
}

// Int32 returns a pointer to v.
func Int32(v int32) *int32 { return &v }

// Time returns a pointer to t.
func Time(t time.Time) *time.Time { return &t }

// Row converts a trip into a parquet row laid out for Schema.
func (t Trip) Row() parquet.Row {
	vendor := parquet.NullValue().Level(0, 0, colVendorID)
	if t.VendorID != nil {
		vendor = parquet.Int32Value(*t.VendorID).Level(0, 1, colVendorID)
	}
	dropoff := parquet.NullValue().Level(0, 0, colDropoff)
	if t.Dropoff != nil {
		dropoff = parquet.Int64Value(t.Dropoff.UnixMicro()).Level(0, 1, colDropoff)
	}
	return parquet.Row{
		parquet.Int32Value(t.PULocationID).Level(0, 0, colPULocationID),
		vendor,
		parquet.DoubleValue(t.FareAmount).Level(0, 0, colFareAmount),
		dropoff,
	}
}

// Write creates a Parquet file at path holding trips, creating parent
// directories as needed.
func Write(path string, trips []Trip, opts ...parquet.WriterOption) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = f.Close() }()

	options := append([]parquet.WriterOption{Schema()}, opts...)
	w := parquet.NewWriter(f, options...)

	rows := make([]parquet.Row, len(trips))
	for i, trip := range trips {
		rows[i] = trip.Row()
	}
	if _, err := w.WriteRows(rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}
	return f.Close()
}

// WriteFile is Write for tests; it fails t on error and returns path.
func WriteFile(t testing.TB, path string, trips []Trip, opts ...parquet.WriterOption) string {
	t.Helper()
	if err := Write(path, trips, opts...); err != nil {
		t.Fatalf("failed to write fixture %s: %v", path, err)
	}
	return path
}

// Sequential returns n trips whose PULocationID values start at firstID and
// increase by one. Every trip has vendor 1, a fare of 10 and a dropoff time
// one minute after the previous one starting at base.
func Sequential(n int, firstID int32, base time.Time) []Trip {
	trips := make([]Trip, n)
	for i := range trips {
		trips[i] = Trip{
			VendorID:     Int32(1),
			Dropoff:      Time(base.Add(time.Duration(i) * time.Minute)),
			PULocationID: firstID + int32(i),
			FareAmount:   10,
		}
	}
	return trips
}
