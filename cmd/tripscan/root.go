package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/vegasq/tripscan/config"
	"github.com/vegasq/tripscan/output"
	"github.com/vegasq/tripscan/pipeline"
	"github.com/vegasq/tripscan/reader"
)

// app carries the state shared by all commands of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	format     string

	cfg     *config.Config
	closers []io.Closer
}

// run builds the command tree and executes it with args.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) (err error) {
	a := &app{stdout: stdout, stderr: stderr}
	defer func() {
		if cerr := a.close(); cerr != nil {
			if err == nil {
				err = cerr
			} else {
				err = multierror.Append(err, cerr)
			}
		}
	}()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "tripscan",
		Short: "Download, merge and query NYC taxi trip Parquet files",
		Long: `tripscan fetches the monthly TLC trip record files, merges them into one
Parquet file and answers row, distinct and filter queries over either form
with a single streaming pass.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			return a.setup()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ./tripscan.yaml if present)")
	root.PersistentFlags().StringVarP(&a.format, "format", "f", "text",
		"output format: "+strings.Join(output.Formats, ", "))

	root.AddCommand(
		newDownloadCmd(a),
		newMergeCmd(a),
		newCountCmd(a),
		newDistinctCmd(a),
		newZeroFareCmd(a),
		newVendorsCmd(a),
		newSchemaCmd(a),
	)
	return root
}

func (a *app) setup() error {
	if _, err := output.New(a.format, a.stdout); err != nil {
		return err
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	closer, err := setupLogging(cfg.Log, a.stderr)
	if err != nil {
		return err
	}
	if closer != nil {
		a.closers = append(a.closers, closer)
	}
	return nil
}

func (a *app) close() error {
	var result *multierror.Error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	a.closers = nil
	if result != nil && len(result.Errors) == 1 {
		return result.Errors[0]
	}
	return result.ErrorOrNil()
}

// print writes r to stdout in the selected format.
func (a *app) print(r *output.Report) error {
	f, err := output.New(a.format, a.stdout)
	if err != nil {
		return err
	}
	return f.Format(r)
}

// openDataset opens the dataset named by the --dataset flag, or the
// configured query dataset (the raw monthly directory by default).
func (a *app) openDataset(c *cobra.Command) (*reader.Dataset, error) {
	path := stringFlag(c, "dataset", a.cfg.QueryDataset())
	ds, err := reader.OpenDataset(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset %s: %w", path, err)
	}
	return ds, nil
}

func (a *app) pipelineOptions() []pipeline.Option {
	return []pipeline.Option{pipeline.WithBatchSize(a.cfg.Dataset.BatchSize)}
}

func addDatasetFlag(c *cobra.Command) {
	c.Flags().String("dataset", "", "Parquet file or directory of Parquet files (default: query.dataset, else dataset.raw_dir)")
}

// stringFlag returns the flag value when it was set on the command line and
// fallback otherwise.
func stringFlag(c *cobra.Command, name, fallback string) string {
	if !c.Flags().Changed(name) {
		return fallback
	}
	v, err := c.Flags().GetString(name)
	if err != nil {
		return fallback
	}
	return v
}

func float64Flag(c *cobra.Command, name string, fallback float64) float64 {
	if !c.Flags().Changed(name) {
		return fallback
	}
	v, err := c.Flags().GetFloat64(name)
	if err != nil {
		return fallback
	}
	return v
}
