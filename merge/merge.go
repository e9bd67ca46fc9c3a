// Package merge concatenates the files of a dataset into one Parquet file.
package merge

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/parquet-go/parquet-go"

	"github.com/vegasq/tripscan/reader"
)

// Options configures a merge.
type Options struct {
	// Schema is the schema every input file must have. When nil, the schema
	// of the first input file is used.
	Schema *parquet.Schema
}

// Result summarizes a merge.
type Result struct {
	Output  string `json:"output"`
	Files   int    `json:"files"`
	Rows    int64  `json:"rows"`
	Written bool   `json:"written"`
}

// SchemaMismatchError reports an input file whose schema differs from the
// expected one.
type SchemaMismatchError struct {
	File     string
	Expected *parquet.Schema
	Actual   *parquet.Schema
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema of %s does not match the expected schema:\nexpected: %s\nactual: %s",
		e.File, e.Expected, e.Actual)
}

// Merge writes every row of ds into a single Snappy-compressed Parquet file
// at output, in file order then in-file order. Rows are neither sorted nor
// deduplicated.
//
// The output file is created when the first input file has been validated,
// so an empty dataset writes nothing. A dataset whose files all hold zero
// rows still produces an output file, with the schema and no rows. A failed
// merge leaves a truncated output file in place; callers must discard it and
// run again.
//
// Every column of the output uses Snappy whatever codec the inputs were
// written with.
func Merge(ctx context.Context, ds *reader.Dataset, output string, opts Options) (res Result, err error) {
	res.Output = output
	expected := opts.Schema

	var (
		out *os.File
		w   *parquet.Writer
	)
	// Release the writer and file on every path. Closing the writer on the
	// success path is what writes the footer.
	defer func() {
		var closeErrs *multierror.Error
		if w != nil {
			if cerr := w.Close(); cerr != nil {
				closeErrs = multierror.Append(closeErrs, fmt.Errorf("failed to finalize %s: %w", output, cerr))
			}
		}
		if out != nil {
			if cerr := out.Close(); cerr != nil {
				closeErrs = multierror.Append(closeErrs, fmt.Errorf("failed to close %s: %w", output, cerr))
			}
		}
		err = combine(err, closeErrs)
		if err == nil && w != nil {
			res.Written = true
			slog.Info("merge finished", slog.String("output", output), slog.Int("files", res.Files), slog.Int64("rows", res.Rows))
		}
	}()

	for _, path := range ds.Files {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		r, err := reader.NewReader(path)
		if err != nil {
			return res, err
		}

		actual := r.Schema()
		if expected == nil {
			expected = actual
		}
		if !parquet.EqualNodes(expected, actual) {
			_ = r.Close()
			return res, &SchemaMismatchError{File: path, Expected: expected, Actual: actual}
		}

		if w == nil {
			if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
				_ = r.Close()
				return res, fmt.Errorf("failed to create output directory: %w", err)
			}
			out, err = os.Create(output)
			if err != nil {
				_ = r.Close()
				return res, fmt.Errorf("failed to create output file: %w", err)
			}
			w = parquet.NewWriter(out, snappySchema(expected), parquet.Compression(&parquet.Snappy))
		}

		n, err := copyFile(w, r)
		closeErr := r.Close()
		if err != nil {
			return res, fmt.Errorf("failed to copy rows from %s: %w", path, err)
		}
		if closeErr != nil {
			return res, fmt.Errorf("failed to close %s: %w", path, closeErr)
		}

		res.Files++
		res.Rows += n
		slog.Debug("merged file", slog.String("file", path), slog.Int64("rows", n))
	}

	return res, nil
}

// combine returns err with the close errors attached. A lone error of
// either kind is returned as is.
func combine(err error, closeErrs *multierror.Error) error {
	if closeErrs == nil {
		return err
	}
	if err == nil {
		if len(closeErrs.Errors) == 1 {
			return closeErrs.Errors[0]
		}
		return closeErrs
	}
	return multierror.Append(err, closeErrs.Errors...)
}

// copyFile appends every row group of r to w.
func copyFile(w *parquet.Writer, r *reader.Reader) (int64, error) {
	var total int64
	for _, rg := range r.RowGroups() {
		rows := rg.Rows()
		n, err := parquet.CopyRows(w, rows)
		closeErr := rows.Close()
		total += n
		if err != nil {
			return total, err
		}
		if closeErr != nil {
			return total, closeErr
		}
	}
	return total, nil
}
