package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sapling-ml/sapling"
	"github.com/sapling-ml/sapling/tree/json"
)

type growCmdConfig struct {
	input  source
	output string
}

func growCmd() *cobra.Command {
	config := &growCmdConfig{}
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a tree from a set of data",
		Long:  `Grow a tree from a set of data to predict its label column.`,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := log.Logger.WithContext(context.Background())
			trainingSet, err := config.input.dataset(ctx)
			if err != nil {
				fail(2, err)
			}
			log.Info().
				Int("rows", trainingSet.Len()).
				Int("attributes", len(trainingSet.Attributes())).
				Msg("Growing tree")
			t, err := sapling.Build(trainingSet)
			if err != nil {
				fail(3, fmt.Errorf("growing the tree: %w", err))
			}
			log.Info().
				Int("depth", t.Depth()).
				Int("nodes", t.Size()).
				Msg("Done")
			log.Debug().Msgf("\n%v", t)
			err = json.WriteFile(config.output, t)
			if err != nil {
				fail(4, err)
			}
		},
	}
	addInputFlags(cmd, &(config.input), "grow the tree")
	cmd.Flags().StringVarP(&(config.output), "output", "o", "", "path to a file to which the generated tree will be written in JSON format (defaults to STDOUT)")
	return cmd
}

func addInputFlags(cmd *cobra.Command, s *source, purpose string) {
	s.target = -1
	cmd.Flags().StringVarP(&(s.location), "input", "i", "", fmt.Sprintf("path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with data to %s (defaults to STDIN, interpreted as CSV)", purpose))
	cmd.Flags().IntVarP(&(s.target), "target", "t", s.target, "index of the label column on the rows (-1 for the last column)")
	cmd.Flags().BoolVar(&(s.header), "header", false, "skip the first line of CSV inputs as a header")
	cmd.Flags().StringVar(&(s.table), "table", "rows", "table or collection holding the rows on database inputs")
}
