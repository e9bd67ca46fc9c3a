package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vegasq/tripscan/output"
	"github.com/vegasq/tripscan/reader"
)

func newSchemaCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Show the columns of the dataset",
		Long:  `Show the leaf columns of the first file of the dataset. Nested fields use dot notation.`,
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return a.runSchema(c)
		},
	}
	addDatasetFlag(cmd)
	return cmd
}

func (a *app) runSchema(c *cobra.Command) error {
	ds, err := a.openDataset(c)
	if err != nil {
		return err
	}
	if ds.Empty() {
		return fmt.Errorf("dataset %s has no %s files", ds.Path, reader.Extension)
	}

	infos, err := reader.ExtractSchemaInfo(ds.Files[0])
	if err != nil {
		return err
	}

	r := &output.Report{
		Title:   "Schema of " + ds.Files[0],
		Columns: []string{"name", "physical_type", "logical_type", "repetition"},
	}
	for _, info := range infos {
		r.AddRow(info.Name, info.PhysicalType, info.LogicalType, info.Repetition)
	}
	r.AddSummary("columns", len(infos))
	return a.print(r)
}
