package sapling

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/sapling-ml/sapling/dataset"
	"github.com/sapling-ml/sapling/evaluation"
	"github.com/sapling-ml/sapling/report"
	"github.com/sapling-ml/sapling/tree"
)

// Fold is a train/test assignment of two datasets
type Fold struct {
	Name  string
	Train *dataset.Dataset
	Test  *dataset.Dataset
}

/*
Folds takes two datasets and returns the two folds they make: training
on a and testing on b, and training on b and testing on a.
*/
func Folds(a, b *dataset.Dataset) []Fold {
	return []Fold{
		{Name: "Fold 1", Train: a, Test: b},
		{Name: "Fold 2", Train: b, Test: a},
	}
}

/*
RunFold takes a context, a fold and a label space, grows a tree on the
fold's training set and evaluates it on its test set. It returns a report
with the resulting confusion matrix and accuracy, or an error if the tree
cannot be grown, the test set cannot be evaluated or no test row could be
counted on the matrix.
*/
func RunFold(ctx context.Context, f Fold, space evaluation.LabelSpace) (*report.FoldReport, error) {
	logger := zerolog.Ctx(ctx).With().Str("fold", f.Name).Logger()
	ctx = logger.WithContext(ctx)
	logger.Info().
		Int("rows", f.Train.Len()).
		Int("attributes", len(f.Train.Attributes())).
		Msg("Growing tree")
	t, err := Build(f.Train)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Name, err)
	}
	logger.Info().
		Int("depth", t.Depth()).
		Int("nodes", t.Size()).
		Int("leaves", t.Leaves()).
		Int("testRows", f.Test.Len()).
		Msg("Testing tree")
	result, err := evaluation.Evaluate(ctx, t, f.Test, space)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Name, err)
	}
	r, err := NewReport(f.Name, f.Train.Len(), t, f.Test, result)
	if err != nil {
		return nil, fmt.Errorf("%s: %d test rows, %d rejected: %w", f.Name, f.Test.Len(), len(result.Rejected), err)
	}
	logger.Info().
		Float64("accuracy", r.Accuracy).
		Int("fallbacks", r.Fallbacks).
		Int("rejected", r.Rejected).
		Msg("Done")
	return r, nil
}

/*
NewReport takes the name of a fold, the number of rows the tree was grown
from, the tree, the test set and the result of evaluating the tree on it
and returns the report of the fold, with the precision and recall of every
class of the confusion matrix. An error is returned if the matrix counted
no prediction.
*/
func NewReport(name string, trainRows int, t *tree.Tree, test *dataset.Dataset, result *evaluation.Result) (*report.FoldReport, error) {
	accuracy, err := result.Matrix.Accuracy()
	if err != nil {
		return nil, err
	}
	r := &report.FoldReport{
		Fold:        name,
		TrainRows:   trainRows,
		TestRows:    test.Len(),
		TreeDepth:   t.Depth(),
		TreeSize:    t.Size(),
		Labels:      result.Matrix.Labels(),
		Matrix:      result.Matrix.Counts(),
		Accuracy:    accuracy,
		Fallbacks:   result.Fallbacks,
		Rejected:    len(result.Rejected),
		Classes:     make([]report.ClassMetrics, 0, len(result.Matrix.Labels())),
		Predictions: make([]report.PredictionDetail, 0, len(result.Predictions)),
	}
	for i, l := range result.Matrix.Labels() {
		r.Classes = append(r.Classes, report.ClassMetrics{
			Label:     l,
			Precision: result.Matrix.Precision(i),
			Recall:    result.Matrix.Recall(i),
		})
	}
	for _, p := range result.Predictions {
		r.Predictions = append(r.Predictions, report.PredictionDetail{
			Row:       p.Row,
			Actual:    p.Actual,
			Predicted: p.Predicted,
			Fallback:  p.Fallback != nil,
		})
	}
	return r, nil
}

/*
RunFolds takes a context, a slice of folds and a label space and runs
every fold concurrently with RunFold. Folds share no state: each grows its
own tree and fills its own confusion matrix. It returns the reports in
the order of the given folds or the first error any fold returned.
*/
func RunFolds(ctx context.Context, folds []Fold, space evaluation.LabelSpace) ([]*report.FoldReport, error) {
	reports := make([]*report.FoldReport, len(folds))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range folds {
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := RunFold(gctx, f, space)
			if err != nil {
				return err
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
