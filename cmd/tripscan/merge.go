package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vegasq/tripscan/merge"
	"github.com/vegasq/tripscan/output"
	"github.com/vegasq/tripscan/reader"
)

func newMergeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge the raw monthly files into one Snappy-compressed file",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return a.runMerge(c)
		},
	}
	cmd.Flags().String("dataset", "", "directory of monthly files (default: raw directory)")
	cmd.Flags().String("output", "", "merged file to write (default: merged file)")
	return cmd
}

func (a *app) runMerge(c *cobra.Command) error {
	src := stringFlag(c, "dataset", a.cfg.Dataset.RawDir)
	dst := stringFlag(c, "output", a.cfg.Dataset.MergedFile)

	ds, err := reader.OpenDataset(src)
	if err != nil {
		return fmt.Errorf("failed to open dataset %s: %w", src, err)
	}

	res, err := merge.Merge(c.Context(), ds, dst, merge.Options{})
	if err != nil {
		return err
	}

	r := &output.Report{Title: "Merge"}
	r.AddSummary("output", res.Output)
	r.AddSummary("files", res.Files)
	r.AddSummary("rows", res.Rows)
	r.AddSummary("written", res.Written)
	return a.print(r)
}
