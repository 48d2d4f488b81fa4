/*
Package evaluation tests decision trees against labeled datasets,
accumulating their predictions in confusion matrices.
*/
package evaluation

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sapling-ml/sapling/dataset"
	"github.com/sapling-ml/sapling/tree"
)

// PredictionDetail records the prediction made for a row of a test set
type PredictionDetail struct {
	Row       int
	Actual    string
	Predicted string
	Fallback  *tree.Fallback
}

/*
Result holds the outcome of evaluating a tree over a test set:
 * the confusion matrix of the rows whose labels belong to the label space,
 * the prediction made for every row,
 * the number of predictions that fell back on a majority label,
 * an *UnparsableLabelError for every row left out of the matrix.
*/
type Result struct {
	Matrix      *ConfusionMatrix
	Predictions []PredictionDetail
	Fallbacks   int
	Rejected    []*UnparsableLabelError
}

/*
Evaluate takes a context, a tree, a test dataset and a label space and
predicts the label of every row of the dataset with the tree, counting
each prediction on a new confusion matrix over the label space.

Rows whose actual or predicted label is not a class of the label space
are skipped and reported in the Rejected field of the result.
Predictions that fall back on a majority label are logged at debug level
on the logger in the context and counted.

An error is returned if the dataset target index does not match the
tree's or a row cannot be predicted.
*/
func Evaluate(ctx context.Context, t *tree.Tree, test *dataset.Dataset, space LabelSpace) (*Result, error) {
	if test.Len() > 0 && test.TargetIndex() != t.TargetIndex {
		return nil, fmt.Errorf("evaluating tree: test set target index %d does not match tree target index %d", test.TargetIndex(), t.TargetIndex)
	}
	logger := zerolog.Ctx(ctx)
	result := &Result{
		Matrix:      NewConfusionMatrix(space),
		Predictions: make([]PredictionDetail, 0, test.Len()),
	}
	for i, row := range test.Rows() {
		p, err := t.Predict(row)
		if err != nil {
			return nil, fmt.Errorf("evaluating tree: row %d: %w", i, err)
		}
		actual := row.Label(test.TargetIndex())
		if p.Fallback != nil {
			result.Fallbacks++
			logger.Debug().
				Int("row", i).
				Int("attribute", p.Fallback.Attribute).
				Str("value", p.Fallback.Value).
				Str("majority", p.Fallback.Majority).
				Msg("Fallback to majority class")
		}
		result.Predictions = append(result.Predictions, PredictionDetail{i, actual, p.Label, p.Fallback})
		err = result.Matrix.Add(actual, p.Label)
		if err != nil {
			var ule *UnparsableLabelError
			if !errors.As(err, &ule) {
				return nil, err
			}
			ule.Row = i
			logger.Warn().Err(ule).Msg("Skipping row")
			result.Rejected = append(result.Rejected, ule)
		}
	}
	return result, nil
}
