package main

import (
	"github.com/spf13/cobra"

	"github.com/vegasq/tripscan/output"
	"github.com/vegasq/tripscan/pipeline"
)

func newDistinctCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "distinct",
		Short: "Count the distinct values of a column",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return a.runDistinct(c)
		},
	}
	addDatasetFlag(cmd)
	cmd.Flags().String("column", "", "column to count (default: query.distinct_column)")
	cmd.Flags().Bool("approx", false, "estimate with a HyperLogLog sketch instead of an exact set")
	cmd.Flags().Bool("list", false, "also list the distinct values")
	return cmd
}

func (a *app) runDistinct(c *cobra.Command) error {
	ds, err := a.openDataset(c)
	if err != nil {
		return err
	}
	column := stringFlag(c, "column", a.cfg.Query.DistinctColumn)
	approx, _ := c.Flags().GetBool("approx")
	list, _ := c.Flags().GetBool("list")

	r := &output.Report{Title: "Distinct " + column}
	if approx {
		estimate, err := pipeline.ApproxDistinct(c.Context(), ds, column, a.pipelineOptions()...)
		if err != nil {
			return err
		}
		r.AddSummary("column", column)
		r.AddSummary("distinct_count", estimate)
		r.AddSummary("approximate", true)
		return a.print(r)
	}

	set, err := pipeline.Distinct(c.Context(), ds, column, a.pipelineOptions()...)
	if err != nil {
		return err
	}
	if list {
		r.Columns = []string{column}
		for _, v := range pipeline.SortedValues(set) {
			r.AddRow(v)
		}
	}
	r.AddSummary("column", column)
	r.AddSummary("distinct_count", set.Cardinality())
	return a.print(r)
}
