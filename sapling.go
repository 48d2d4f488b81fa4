/*
Package sapling grows categorical decision trees from labeled rows by
recursive partitioning on the attribute with the greatest information
gain, and evaluates them over train/test folds.
*/
package sapling

import (
	"fmt"

	"github.com/sapling-ml/sapling/dataset"
	"github.com/sapling-ml/sapling/tree"
)

// BuildError represents an error that prevents growing a tree
type BuildError string

/*
ErrEmptyTrainingSet is the error returned when trying to grow a tree
from a dataset without rows: there is no label to predict.
*/
const ErrEmptyTrainingSet = BuildError("cannot build tree from empty training set")

func (be BuildError) Error() string {
	return string(be)
}

/*
Build takes a training dataset and grows a tree that predicts its target
label using all its attribute columns. It returns an error wrapping
ErrEmptyTrainingSet if the dataset has no rows.
*/
func Build(s *dataset.Dataset) (*tree.Tree, error) {
	return BuildWith(s, s.Attributes())
}

/*
BuildWith takes a training dataset and a slice of attribute column
indices and grows a tree that predicts the dataset's target label
splitting only on the given attributes.

Nodes are developed as follows:
 * a dataset whose rows share one label becomes a leaf with that label,
 * with no attributes left, the dataset becomes a leaf with its majority label,
 * otherwise the dataset is partitioned on the available attribute with the
 greatest information gain into an internal node with a child for every
 observed value, grown from the matching rows without that attribute.

The attribute used on a node is never used again below it, so the depth of
the tree is bounded by the number of attributes.
*/
func BuildWith(s *dataset.Dataset, available []int) (*tree.Tree, error) {
	if s.Len() == 0 {
		return nil, fmt.Errorf("building tree from %d rows with %d attributes: %w", s.Len(), len(available), ErrEmptyTrainingSet)
	}
	seen := make(map[int]bool, len(available))
	for _, a := range available {
		if a < 0 || a >= s.TargetIndex() {
			return nil, fmt.Errorf("building tree: attribute %d outside [0, %d)", a, s.TargetIndex())
		}
		if seen[a] {
			return nil, fmt.Errorf("building tree: attribute %d given more than once", a)
		}
		seen[a] = true
	}
	root, err := branchOut(s, available)
	if err != nil {
		return nil, fmt.Errorf("building tree from %d rows with %d attributes: %w", s.Len(), len(available), err)
	}
	return tree.New(root, s.TargetIndex()), nil
}

func branchOut(s *dataset.Dataset, available []int) (*tree.Node, error) {
	if s.Len() == 0 {
		return nil, ErrEmptyTrainingSet
	}
	if label, ok := s.Pure(); ok {
		return tree.NewLeaf(label), nil
	}
	majority, err := s.MajorityLabel()
	if err != nil {
		return nil, err
	}
	if len(available) == 0 {
		return tree.NewLeaf(majority), nil
	}
	selected, err := SelectBest(s, available)
	if err != nil {
		return nil, err
	}
	stAvailable := without(available, selected.Attribute)
	children := make(map[string]*tree.Node, len(selected.Values))
	for _, v := range selected.Values {
		child, err := branchOut(selected.Subsets[v], stAvailable)
		if err != nil {
			return nil, err
		}
		children[v] = child
	}
	return tree.NewInternal(selected.Attribute, majority, children), nil
}
