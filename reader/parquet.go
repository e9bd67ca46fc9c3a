package reader

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"
)

// Reader is an open Parquet file.
//
// It maintains both an OS file handle and a parquet file handle to enable
// proper resource cleanup. Opening a Reader only reads the file footer;
// no column data is decoded until batches are requested.
type Reader struct {
	path   string
	file   *os.File
	pqFile *parquet.File
	schema *parquet.Schema
	rows   int64
}

// NewReader opens the Parquet file at path.
//
// The file is opened and validated as a parquet file. Page indexes and bloom
// filters are skipped since nothing here uses them. Returns an error if the
// file doesn't exist or is not a valid parquet file.
//
// Example:
//
//	r, err := NewReader("yellow_tripdata_2024-01.parquet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
func NewReader(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pqFile, err := parquet.OpenFile(file, stat.Size(),
		parquet.SkipPageIndex(true),
		parquet.SkipBloomFilters(true),
	)
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to open parquet file %s: %w", path, err)
	}

	return &Reader{
		path:   path,
		file:   file,
		pqFile: pqFile,
		schema: pqFile.Schema(),
		rows:   pqFile.NumRows(),
	}, nil
}

// Path returns the path the reader was opened with.
func (r *Reader) Path() string {
	return r.path
}

// NumRows returns the row count recorded in the file metadata. It stays
// valid after Close.
func (r *Reader) NumRows() int64 {
	return r.rows
}

// Schema returns the parquet file schema. It stays valid after Close.
func (r *Reader) Schema() *parquet.Schema {
	return r.schema
}

// RowGroups returns the file's row groups in file order.
func (r *Reader) RowGroups() []parquet.RowGroup {
	return r.pqFile.RowGroups()
}

// Close releases the underlying file handle. It is safe to call Close
// multiple times.
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	r.pqFile = nil
	return err
}
