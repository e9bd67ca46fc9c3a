package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vegasq/tripscan/output"
	"github.com/vegasq/tripscan/pipeline"
)

func newVendorsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vendors",
		Short: "List the distinct vendors with a drop-off inside a time range",
		Long: `List the distinct values of the vendor column over the rows whose
timestamp column lies in [--from, --to]. Both bounds are inclusive. Times
without a zone are read as UTC.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return a.runVendors(c)
		},
	}
	addDatasetFlag(cmd)
	cmd.Flags().String("column", "", "id column (default: query.vendor_column)")
	cmd.Flags().String("timestamp-column", "", "timestamp column (default: query.timestamp_column)")
	cmd.Flags().String("from", "", "inclusive range start (default: query.range_start)")
	cmd.Flags().String("to", "", "inclusive range end (default: query.range_end)")
	return cmd
}

func (a *app) runVendors(c *cobra.Command) error {
	ds, err := a.openDataset(c)
	if err != nil {
		return err
	}

	q := a.cfg.Query
	q.VendorColumn = stringFlag(c, "column", q.VendorColumn)
	q.TimestampColumn = stringFlag(c, "timestamp-column", q.TimestampColumn)
	q.RangeStart = stringFlag(c, "from", q.RangeStart)
	q.RangeEnd = stringFlag(c, "to", q.RangeEnd)

	start, end, err := q.Range()
	if err != nil {
		return err
	}

	set, err := pipeline.DistinctInRange(c.Context(), ds, q.VendorColumn, q.TimestampColumn, start, end, a.pipelineOptions()...)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", ds.Path, err)
	}

	r := &output.Report{Title: "Distinct " + q.VendorColumn}
	r.AddSummary("from", start)
	r.AddSummary("to", end)
	r.AddSummary("values", pipeline.SortedValues(set))
	r.AddSummary("count", set.Cardinality())
	return a.print(r)
}

