package main

import (
	"github.com/spf13/cobra"

	"github.com/vegasq/tripscan/output"
	"github.com/vegasq/tripscan/pipeline"
)

func newCountCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count the rows of the dataset",
		Long: `Count the rows of the dataset from the row counts stored in each file's
footer. With --decode the rows are counted by scanning instead, which reads
every row group but no column values.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return a.runCount(c)
		},
	}
	addDatasetFlag(cmd)
	cmd.Flags().Bool("decode", false, "count by scanning batches instead of reading file metadata")
	return cmd
}

func (a *app) runCount(c *cobra.Command) error {
	ds, err := a.openDataset(c)
	if err != nil {
		return err
	}

	decode, _ := c.Flags().GetBool("decode")
	if decode {
		total, err := pipeline.Aggregate(c.Context(), ds, nil, pipeline.CountFold, int64(0), a.pipelineOptions()...)
		if err != nil {
			return err
		}
		r := &output.Report{Title: "Row count"}
		r.AddSummary("total_rows", total)
		return a.print(r)
	}

	counts, err := pipeline.CountRows(ds)
	if err != nil {
		return err
	}

	r := &output.Report{Title: "Row count", Columns: []string{"file", "rows"}}
	for _, f := range counts.Files {
		r.AddRow(f.File, f.Rows)
	}
	r.AddSummary("total_rows", counts.Total)
	return a.print(r)
}
