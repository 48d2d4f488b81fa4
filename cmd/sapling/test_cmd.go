package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sapling-ml/sapling"
	"github.com/sapling-ml/sapling/dataset"
	"github.com/sapling-ml/sapling/evaluation"
	"github.com/sapling-ml/sapling/report"
	"github.com/sapling-ml/sapling/tree"
	"github.com/sapling-ml/sapling/tree/json"
)

type testCmdConfig struct {
	input        source
	treeInput    string
	classes      int
	observed     bool
	printDetails bool
}

func testCmd() *cobra.Command {
	config := &testCmdConfig{}
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the performance of a tree",
		Long:  `Test the performance of a tree against a test data set`,
		Run: func(cmd *cobra.Command, args []string) {
			if config.treeInput == "" {
				fail(1, fmt.Errorf("required tree flag was not set"))
			}
			ctx := log.Logger.WithContext(context.Background())
			t, err := json.ReadFile(config.treeInput)
			if err != nil {
				fail(2, err)
			}
			testingSet, err := config.input.dataset(ctx)
			if err != nil {
				fail(3, err)
			}
			log.Info().Int("rows", testingSet.Len()).Msg("Testing tree")
			r, err := config.test(ctx, t, testingSet)
			if err != nil {
				fail(4, fmt.Errorf("testing tree: %w", err))
			}
			err = config.print(os.Stdout, r)
			if err != nil {
				fail(5, err)
			}
		},
	}
	addInputFlags(cmd, &(config.input), "test the tree against")
	cmd.Flags().StringVarP(&(config.treeInput), "tree", "r", "", "path to a file from which the tree to test will be read and parsed as JSON (required)")
	cmd.Flags().IntVar(&(config.classes), "classes", 10, "number of digit labels on the confusion matrix")
	cmd.Flags().BoolVar(&(config.observed), "observed", false, "use the labels found on the input and the tree instead of digit labels")
	cmd.Flags().BoolVarP(&(config.printDetails), "print-details", "d", false, "print the guess and the original label of every test row")
	return cmd
}

// labelSpace returns the classes of the confusion matrix for a tree tested on a dataset
func (tcc *testCmdConfig) labelSpace(t *tree.Tree, testingSet *dataset.Dataset) (evaluation.LabelSpace, error) {
	if tcc.observed {
		return evaluation.TreeSpace(t, testingSet)
	}
	return evaluation.DigitSpace(tcc.classes), nil
}

func (tcc *testCmdConfig) test(ctx context.Context, t *tree.Tree, testingSet *dataset.Dataset) (*report.FoldReport, error) {
	space, err := tcc.labelSpace(t, testingSet)
	if err != nil {
		return nil, err
	}
	result, err := evaluation.Evaluate(ctx, t, testingSet, space)
	if err != nil {
		return nil, err
	}
	return sapling.NewReport(tcc.treeInput, 0, t, testingSet, result)
}

func (tcc *testCmdConfig) print(w io.Writer, r *report.FoldReport) error {
	err := report.WriteMatrix(w, r)
	if err != nil {
		return err
	}
	if tcc.printDetails {
		err = report.WriteDetails(w, r)
		if err != nil {
			return err
		}
	}
	return report.WriteSummary(w, algorithm, []*report.FoldReport{r})
}
