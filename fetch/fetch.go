// Package fetch downloads monthly trip data files and stores them locally.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/vegasq/tripscan/config"
)

// copyBufferSize is the chunk size used when streaming objects to disk.
const copyBufferSize = 1 << 20

// Fetcher returns the contents of a named remote object as a stream.
type Fetcher interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// New returns the fetcher for baseURL: an S3Fetcher for "s3://bucket/prefix"
// and an HTTPFetcher for http and https URLs.
func New(ctx context.Context, baseURL string) (Fetcher, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}

	switch u.Scheme {
	case "http", "https":
		return NewHTTPFetcher(baseURL, nil), nil
	case "s3":
		return NewS3FetcherFromEnv(ctx, u.Host, strings.TrimPrefix(u.Path, "/"))
	default:
		return nil, fmt.Errorf("unsupported base URL scheme %q", u.Scheme)
	}
}

// FileName returns the object name of one month, e.g.
// "yellow_tripdata_2024-03.parquet".
func FileName(prefix string, year, month int, ext string) string {
	return fmt.Sprintf("%s_%d-%02d.%s", prefix, year, month, ext)
}

// FileNames returns the object names for every month of cfg, in month order.
// An empty range yields no names.
func FileNames(cfg config.DownloadConfig) []string {
	if cfg.EndMonth < cfg.StartMonth {
		return nil
	}
	names := make([]string, 0, cfg.EndMonth-cfg.StartMonth+1)
	for month := cfg.StartMonth; month <= cfg.EndMonth; month++ {
		names = append(names, FileName(cfg.Prefix, cfg.Year, month, cfg.Extension))
	}
	return names
}

// Download fetches every month of cfg into dir, one file at a time, and
// returns the paths written. Existing files are overwritten.
//
// The first failure aborts the run. Files already written are kept and a
// partially written file is left in place.
func Download(ctx context.Context, f Fetcher, cfg config.DownloadConfig, dir string) ([]string, error) {
	if cfg.StartMonth < 1 || cfg.EndMonth > 12 || cfg.StartMonth > cfg.EndMonth {
		return nil, fmt.Errorf("invalid month range %d..%d", cfg.StartMonth, cfg.EndMonth)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var written []string
	for _, name := range FileNames(cfg) {
		path := filepath.Join(dir, name)
		slog.Info("downloading", slog.String("file", name))

		n, err := fetchTo(ctx, f, name, path)
		if err != nil {
			return written, err
		}

		slog.Info("saved", slog.String("path", path), slog.Int64("bytes", n))
		written = append(written, path)
	}
	return written, nil
}

func fetchTo(ctx context.Context, f Fetcher, name, path string) (int64, error) {
	body, err := f.Open(ctx, name)
	if err != nil {
		return 0, err
	}
	defer func() { _ = body.Close() }()

	out, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", path, err)
	}

	n, err := io.CopyBuffer(out, body, make([]byte, copyBufferSize))
	if err != nil {
		_ = out.Close()
		return n, fmt.Errorf("failed to download %s: %w", name, err)
	}
	if err := out.Close(); err != nil {
		return n, fmt.Errorf("failed to close %s: %w", path, err)
	}
	return n, nil
}
