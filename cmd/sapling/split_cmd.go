package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sapling-ml/sapling/dataset"
)

type splitCmdConfig struct {
	input            source
	setOutput        source
	splitOutput      source
	splitProbability int
	seed             int64
}

func splitCmd() *cobra.Command {
	config := &splitCmdConfig{}
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a set into two sets",
		Long: `Split a set into an output set and a split set, to be used as the two folds of a run.
Each set is written to a CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB database.`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fail(1, err)
			}
			ctx := log.Logger.WithContext(context.Background())
			if config.seed == 0 {
				config.seed = time.Now().UnixNano()
			}
			err = config.split(ctx)
			if err != nil {
				fail(2, err)
			}
		},
	}
	addInputFlags(cmd, &(config.input), "split")
	cmd.Flags().StringVarP(&(config.setOutput.location), "output", "o", "", "path to a CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL to dump the output set (defaults to STDOUT)")
	cmd.Flags().StringVar(&(config.setOutput.table), "output-table", "output", "table or collection for the output set on database outputs")
	cmd.Flags().IntVarP(&(config.splitProbability), "split-probability", "p", 50, "probability as percent integer that a row of the set will be assigned to the split set")
	cmd.Flags().StringVarP(&(config.splitOutput.location), "split-output", "s", "", "path to a CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL to dump the split set (required)")
	cmd.Flags().StringVar(&(config.splitOutput.table), "split-table", "split", "table or collection for the split set on database outputs")
	cmd.Flags().Int64Var(&(config.seed), "seed", 0, "seed for the random assignment of rows (defaults to the current time)")
	return cmd
}

func (scc *splitCmdConfig) Validate() error {
	if scc.splitOutput.location == "" {
		return fmt.Errorf("required split-output flag was not set")
	}
	if scc.splitProbability <= 0 || scc.splitProbability > 100 {
		return fmt.Errorf("split-probability flag was set to an invalid value: it must be set to an integer between 1 and 100")
	}
	if scc.setOutput.kind() == scc.splitOutput.kind() && scc.setOutput.kind() != csvSource &&
		scc.setOutput.location == scc.splitOutput.location && scc.setOutput.table == scc.splitOutput.table {
		return fmt.Errorf("output and split output cannot share table %s", scc.setOutput.table)
	}
	return nil
}

// split reads the input rows and writes them randomly distributed onto the output and the split output
func (scc *splitCmdConfig) split(ctx context.Context) error {
	header, rows, err := scc.input.rows(ctx)
	if err != nil {
		return err
	}
	d, err := dataset.NewFromLastColumn(rows)
	if err != nil {
		return err
	}
	output, split := d.Split(float64(scc.splitProbability)/100, rand.New(rand.NewSource(scc.seed)))
	columns := columnNames(header, rows)
	err = scc.setOutput.write(ctx, header, columns, output.Rows())
	if err != nil {
		return fmt.Errorf("writing output set: %w", err)
	}
	err = scc.splitOutput.write(ctx, header, columns, split.Rows())
	if err != nil {
		return fmt.Errorf("writing split set: %w", err)
	}
	log.Ctx(ctx).Info().
		Int("rows", d.Len()).
		Int("output", output.Len()).
		Int("split", split.Len()).
		Int64("seed", scc.seed).
		Msg("Done")
	return nil
}
