package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vegasq/tripscan/fetch"
	"github.com/vegasq/tripscan/output"
)

func newDownloadCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download",
		Short: "Fetch the configured monthly files into the raw directory",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return a.runDownload(c)
		},
	}
	cmd.Flags().String("base-url", "", "http(s):// or s3:// location of the monthly files")
	cmd.Flags().String("dir", "", "directory to save the files to")
	return cmd
}

func (a *app) runDownload(c *cobra.Command) error {
	cfg := a.cfg.Download
	cfg.BaseURL = stringFlag(c, "base-url", cfg.BaseURL)
	dir := stringFlag(c, "dir", a.cfg.Dataset.RawDir)

	f, err := fetch.New(c.Context(), cfg.BaseURL)
	if err != nil {
		return err
	}

	paths, err := fetch.Download(c.Context(), f, cfg, dir)
	if err != nil {
		return fmt.Errorf("download stopped after %d of %d files: %w",
			len(paths), cfg.EndMonth-cfg.StartMonth+1, err)
	}

	r := &output.Report{Title: "Downloaded files", Columns: []string{"file", "bytes"}}
	var total int64
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", p, err)
		}
		r.AddRow(p, info.Size())
		total += info.Size()
	}
	r.AddSummary("files", len(paths))
	r.AddSummary("total_bytes", total)

	slog.Info("download complete", slog.String("dir", dir), slog.Int("files", len(paths)))
	return a.print(r)
}
