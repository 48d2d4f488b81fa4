package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sapling-ml/sapling"
	"github.com/sapling-ml/sapling/config"
	"github.com/sapling-ml/sapling/dataset"
	"github.com/sapling-ml/sapling/evaluation"
	"github.com/sapling-ml/sapling/report"
	"github.com/sapling-ml/sapling/report/redisstore"
)

const algorithm = "ID3 decision tree"

type runCmdConfig struct {
	configFile  string
	printConfig bool
	run         *config.Run
}

func runCmd() *cobra.Command {
	return newRunCmd(&runCmdConfig{run: config.Default()})
}

func newRunCmd(cc *runCmdConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate trees with two-fold cross validation",
		Long: `Grow a tree on dataset A and test it on dataset B, then grow a tree on
dataset B and test it on dataset A, printing the confusion matrix and
accuracy of each fold.`,
		Run: func(cmd *cobra.Command, args []string) {
			err := cc.load(cmd)
			if err != nil {
				fail(1, err)
			}
			if cc.printConfig {
				err = cc.writeConfig(os.Stdout)
				if err != nil {
					fail(1, err)
				}
			}
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()
			ctx = log.Logger.WithContext(ctx)

			a, b, err := cc.datasets(ctx)
			if err != nil {
				fail(2, err)
			}
			space, err := cc.labelSpace(a, b)
			if err != nil {
				fail(3, err)
			}
			reports, err := sapling.RunFolds(ctx, sapling.Folds(a, b), space)
			if err != nil {
				fail(4, err)
			}
			stored, err := cc.publish(ctx, reports)
			if err != nil {
				fail(5, err)
			}
			err = cc.print(os.Stdout, stored)
			if err != nil {
				fail(6, err)
			}
		},
	}
	cmd.Flags().StringVarP(&(cc.configFile), "config", "c", "", "path to a YML file with the run settings")
	cmd.Flags().BoolVar(&(cc.printConfig), "print-config", false, "print the effective run settings as YML before running")
	cmd.Flags().StringVarP(&(cc.run.DatasetA), "dataset-a", "a", "", "path to a CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with the rows of dataset A")
	cmd.Flags().StringVarP(&(cc.run.DatasetB), "dataset-b", "b", "", "path to a CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with the rows of dataset B")
	cmd.Flags().IntVarP(&(cc.run.TargetIndex), "target", "t", cc.run.TargetIndex, "index of the label column on the rows (-1 for the last column)")
	cmd.Flags().BoolVar(&(cc.run.Header), "header", cc.run.Header, "skip the first line of CSV inputs as a header")
	cmd.Flags().StringVar(&(cc.run.Table), "table", cc.run.Table, "table or collection holding the rows on database inputs")
	cmd.Flags().BoolVarP(&(cc.run.PrintDetails), "print-details", "d", cc.run.PrintDetails, "print the guess and the original label of every test row")
	cmd.Flags().StringVar(&(cc.run.LabelDomain), "label-domain", cc.run.LabelDomain, "labels on the confusion matrices: digits or observed")
	cmd.Flags().IntVar(&(cc.run.Classes), "classes", cc.run.Classes, "number of digit labels when label-domain is digits")
	cmd.Flags().StringVar(&(cc.run.Report.Redis), "redis", cc.run.Report.Redis, "redis URL on which to publish the fold reports")
	cmd.Flags().StringVar(&(cc.run.Report.Prefix), "redis-prefix", cc.run.Report.Prefix, "prefix for the redis keys of the fold reports")
	return cmd
}

// load reads the config file if any and lays the flags that were set on top of it
func (cc *runCmdConfig) load(cmd *cobra.Command) error {
	if cc.configFile == "" {
		return cc.run.Validate()
	}
	flags := *cc.run
	loaded, err := config.Load(cc.configFile)
	if err != nil {
		return err
	}
	set := func(name string, apply func()) {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}
	set("dataset-a", func() { loaded.DatasetA = flags.DatasetA })
	set("dataset-b", func() { loaded.DatasetB = flags.DatasetB })
	set("target", func() { loaded.TargetIndex = flags.TargetIndex })
	set("header", func() { loaded.Header = flags.Header })
	set("table", func() { loaded.Table = flags.Table })
	set("print-details", func() { loaded.PrintDetails = flags.PrintDetails })
	set("label-domain", func() { loaded.LabelDomain = flags.LabelDomain })
	set("classes", func() { loaded.Classes = flags.Classes })
	set("redis", func() { loaded.Report.Redis = flags.Report.Redis })
	set("redis-prefix", func() { loaded.Report.Prefix = flags.Report.Prefix })
	cc.run = loaded
	return cc.run.Validate()
}

func (cc *runCmdConfig) datasets(ctx context.Context) (*dataset.Dataset, *dataset.Dataset, error) {
	var a, b *dataset.Dataset
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		a, err = cc.source(cc.run.DatasetA).dataset(gctx)
		if err != nil {
			return fmt.Errorf("reading dataset A: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		b, err = cc.source(cc.run.DatasetB).dataset(gctx)
		if err != nil {
			return fmt.Errorf("reading dataset B: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if a.Len() > 0 && b.Len() > 0 && a.TargetIndex() != b.TargetIndex() {
		return nil, nil, fmt.Errorf("datasets A and B have rows with %d and %d fields", a.TargetIndex()+1, b.TargetIndex()+1)
	}
	return a, b, nil
}

func (cc *runCmdConfig) source(location string) *source {
	return &source{location: location, table: cc.run.Table, header: cc.run.Header, target: cc.run.TargetIndex}
}

func (cc *runCmdConfig) labelSpace(a, b *dataset.Dataset) (evaluation.LabelSpace, error) {
	switch cc.run.LabelDomain {
	case config.DigitsDomain:
		return evaluation.DigitSpace(cc.run.Classes), nil
	case config.ObservedDomain:
		return evaluation.ObservedSpace(a, b), nil
	}
	return nil, fmt.Errorf("unknown label domain %q", cc.run.LabelDomain)
}

func (cc *runCmdConfig) writeConfig(w io.Writer) error {
	doc, err := cc.run.YAML()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "---\n%s\n", doc)
	return err
}

func (cc *runCmdConfig) print(w io.Writer, reports []*report.FoldReport) error {
	for _, r := range reports {
		err := report.WriteMatrix(w, r)
		if err != nil {
			return err
		}
		if cc.run.PrintDetails {
			err = report.WriteDetails(w, r)
			if err != nil {
				return err
			}
		}
	}
	return report.WriteSummary(w, algorithm, reports)
}

// store returns the store fold reports are kept on: redis when configured, memory otherwise
func (cc *runCmdConfig) store() (report.Store, error) {
	if cc.run.Report.Redis == "" {
		return report.NewMemoryStore(), nil
	}
	return redisstore.Dial(cc.run.Report.Redis, cc.run.Report.Prefix)
}

/*
publish saves the reports on the store and returns the reports listed
back from it.
*/
func (cc *runCmdConfig) publish(ctx context.Context, reports []*report.FoldReport) ([]*report.FoldReport, error) {
	store, err := cc.store()
	if err != nil {
		return nil, err
	}
	defer store.Close(ctx)
	for _, r := range reports {
		err = store.Save(ctx, r)
		if err != nil {
			return nil, fmt.Errorf("publishing report of %s: %v", r.Fold, err)
		}
	}
	stored, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing published reports: %v", err)
	}
	if cc.run.Report.Redis != "" {
		log.Ctx(ctx).Info().
			Int("reports", len(stored)).
			Str("prefix", cc.run.Report.Prefix).
			Msg("Reports published")
	}
	return stored, nil
}
