package reader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Extension is the file suffix that identifies dataset members.
const Extension = ".parquet"

// Dataset is an ordered set of Parquet files sharing one schema.
//
// Files are ordered lexicographically by name, which for monthly TLC files is
// also chronological order. Schema agreement between files is not checked
// here; decoding a mismatched file fails when its columns are looked up.
type Dataset struct {
	Path  string
	Files []string
}

// OpenDataset discovers the files of the dataset at path.
//
// A directory yields every regular "*.parquet" file directly inside it; an
// empty directory is a valid dataset with no files. A path naming a single
// file yields a one-file dataset. A missing path is an error.
func OpenDataset(path string) (*Dataset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat dataset: %w", err)
	}

	if !info.IsDir() {
		return &Dataset{Path: path, Files: []string{path}}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to list dataset directory: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Extension) {
			continue
		}
		files = append(files, filepath.Join(path, entry.Name()))
	}
	// os.ReadDir already sorts by name; keep the ordering explicit.
	sort.Strings(files)

	return &Dataset{Path: path, Files: files}, nil
}

// Empty reports whether the dataset has no files.
func (d *Dataset) Empty() bool {
	return len(d.Files) == 0
}

// Batches returns a lazy iterator over the dataset restricted to columns.
// With no columns the batches carry row counts only.
func (d *Dataset) Batches(columns []string, batchSize int) *BatchIterator {
	return newBatchIterator(d.Files, columns, batchSize)
}
