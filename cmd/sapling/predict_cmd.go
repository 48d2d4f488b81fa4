package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sapling-ml/sapling/dataset"
	"github.com/sapling-ml/sapling/tree"
	"github.com/sapling-ml/sapling/tree/json"
)

type predictCmdConfig struct {
	input     source
	treeInput string
}

func predictCmd() *cobra.Command {
	config := &predictCmdConfig{}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the labels of a set of rows",
		Long: `Use a tree to predict the label of every row read from the input, printing one label per line.
Rows may lack the label column when it is the last one.`,
		Run: func(cmd *cobra.Command, args []string) {
			if config.treeInput == "" {
				fail(1, fmt.Errorf("required tree flag was not set"))
			}
			ctx := log.Logger.WithContext(context.Background())
			t, err := json.ReadFile(config.treeInput)
			if err != nil {
				fail(2, err)
			}
			_, rows, err := config.input.rows(ctx)
			if err != nil {
				fail(3, err)
			}
			rows, err = config.align(t, rows)
			if err != nil {
				fail(4, err)
			}
			fallbacks, err := predict(ctx, t, rows, os.Stdout)
			if err != nil {
				fail(5, err)
			}
			log.Info().
				Int("rows", len(rows)).
				Int("fallbacks", fallbacks).
				Msg("Done")
		},
	}
	addInputFlags(cmd, &(config.input), "predict")
	cmd.Flags().StringVarP(&(config.treeInput), "tree", "r", "", "path to a file from which the tree will be read and parsed as JSON (required)")
	return cmd
}

/*
align moves the label column of the rows to the end, as it was when the
tree was grown, and checks every row has the width the tree expects: one
field per attribute plus, optionally when the label is the last column,
the label.
*/
func (pcc *predictCmdConfig) align(t *tree.Tree, rows []dataset.Row) ([]dataset.Row, error) {
	rows, err := dataset.MoveToLast(rows, pcc.input.target)
	if err != nil {
		return nil, err
	}
	for i, r := range rows {
		if len(r) == t.TargetIndex+1 {
			continue
		}
		if len(r) == t.TargetIndex && pcc.input.target == -1 {
			continue
		}
		return nil, &dataset.MalformedRowError{Row: i, Width: len(r), Expected: t.TargetIndex + 1}
	}
	return rows, nil
}

// predict writes the label predicted for every row and returns the number of fallbacks taken
func predict(ctx context.Context, t *tree.Tree, rows []dataset.Row, w io.Writer) (int, error) {
	logger := log.Ctx(ctx)
	fallbacks := 0
	for i, r := range rows {
		p, err := t.Predict(r)
		if err != nil {
			return fallbacks, fmt.Errorf("predicting row %d: %w", i+1, err)
		}
		if p.Fallback != nil {
			fallbacks++
			logger.Debug().
				Int("row", i+1).
				Int("attribute", p.Fallback.Attribute).
				Str("value", p.Fallback.Value).
				Msg("Fallback to majority class")
		}
		_, err = fmt.Fprintln(w, p.Label)
		if err != nil {
			return fallbacks, err
		}
	}
	return fallbacks, nil
}
