package sapling

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sapling-ml/sapling/dataset"
	"github.com/sapling-ml/sapling/evaluation"
	"github.com/sapling-ml/sapling/report"
)

func TestFolds(t *testing.T) {
	a := exampleDataset(t)
	b := newDataset(t, 2, dataset.Row{"b", "y", "1"})
	folds := Folds(a, b)
	require.Len(t, folds, 2)
	require.Equal(t, a, folds[0].Train)
	require.Equal(t, b, folds[0].Test)
	require.Equal(t, b, folds[1].Train)
	require.Equal(t, a, folds[1].Test)
}

func TestRunFold(t *testing.T) {
	test := newDataset(t, 2,
		dataset.Row{"a", "q", "0"},
		dataset.Row{"b", "q", "1"},
		dataset.Row{"c", "q", "1"},
	)
	r, err := RunFold(context.Background(), Fold{"Fold 1", exampleDataset(t), test}, evaluation.DigitSpace(10))
	require.NoError(t, err)
	require.Equal(t, "Fold 1", r.Fold)
	require.Equal(t, 3, r.TrainRows)
	require.Equal(t, 3, r.TestRows)
	require.Equal(t, 1, r.TreeDepth)
	require.Equal(t, 3, r.TreeSize)
	require.Equal(t, 1, r.Fallbacks)
	require.Len(t, r.Matrix, 10)
	require.Equal(t, 1, r.Matrix[1][0])
	require.InDelta(t, 2.0/3.0, r.Accuracy, 1e-12)
	require.True(t, r.Predictions[2].Fallback)
	require.Len(t, r.Classes, 10)
	require.Equal(t, report.ClassMetrics{Label: "0", Precision: 0.5, Recall: 1}, r.Classes[0])
	require.Equal(t, report.ClassMetrics{Label: "1", Precision: 1, Recall: 0.5}, r.Classes[1])
	require.Equal(t, report.ClassMetrics{Label: "2"}, r.Classes[2])
}

func TestRunFoldEmptyTrainingSet(t *testing.T) {
	_, err := RunFold(context.Background(), Fold{"Fold 1", newDataset(t, 2), exampleDataset(t)}, evaluation.DigitSpace(10))
	require.True(t, errors.Is(err, ErrEmptyTrainingSet))
}

func TestRunFoldEmptyTestSet(t *testing.T) {
	_, err := RunFold(context.Background(), Fold{"Fold 1", exampleDataset(t), newDataset(t, 2)}, evaluation.DigitSpace(10))
	require.True(t, errors.Is(err, evaluation.ErrEmptyTestSet))
}

func TestRunFolds(t *testing.T) {
	a := exampleDataset(t)
	b := newDataset(t, 2,
		dataset.Row{"a", "x", "0"},
		dataset.Row{"b", "y", "1"},
		dataset.Row{"b", "x", "1"},
	)
	reports, err := RunFolds(context.Background(), Folds(a, b), evaluation.ObservedSpace(a, b))
	require.NoError(t, err)
	require.Len(t, reports, 2)
	require.Equal(t, "Fold 1", reports[0].Fold)
	require.Equal(t, "Fold 2", reports[1].Fold)
	require.Equal(t, []string{"0", "1"}, reports[0].Labels)
	require.Equal(t, 1.0, reports[0].Accuracy)
	require.Equal(t, 1.0, reports[1].Accuracy)
}

func TestRunFoldsPropagatesErrors(t *testing.T) {
	_, err := RunFolds(context.Background(), Folds(exampleDataset(t), newDataset(t, 2)), evaluation.DigitSpace(10))
	require.Error(t, err)
}
