package main

import (
	"github.com/spf13/cobra"

	"github.com/vegasq/tripscan/output"
	"github.com/vegasq/tripscan/pipeline"
)

func newZeroFareCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zero-fare",
		Short: "Count the trips whose fare equals a value (zero by default)",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return a.runZeroFare(c)
		},
	}
	addDatasetFlag(cmd)
	cmd.Flags().String("column", "", "numeric column to compare (default: query.fare_column)")
	cmd.Flags().Float64("value", 0, "value to match (default: query.fare_value)")
	return cmd
}

func (a *app) runZeroFare(c *cobra.Command) error {
	ds, err := a.openDataset(c)
	if err != nil {
		return err
	}
	column := stringFlag(c, "column", a.cfg.Query.FareColumn)
	value := float64Flag(c, "value", a.cfg.Query.FareValue)

	n, err := pipeline.CountEqual(c.Context(), ds, column, value, a.pipelineOptions()...)
	if err != nil {
		return err
	}

	r := &output.Report{Title: "Trips with " + column + " equal to value"}
	r.AddSummary("column", column)
	r.AddSummary("value", value)
	r.AddSummary("count", n)
	return a.print(r)
}
