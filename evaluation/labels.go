package evaluation

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/sapling-ml/sapling/dataset"
	"github.com/sapling-ml/sapling/tree"
)

/*
LabelSpace represents the set of classes a confusion matrix is indexed by.

Its Index method maps a label to its row/column in the matrix or returns
an *UnparsableLabelError if the label is not a class of the space.

Its Labels method returns the labels of the classes in index order.
*/
type LabelSpace interface {
	Index(label string) (int, error)
	Labels() []string
}

/*
UnparsableLabelError is returned for a label that cannot be interpreted
as a class of a LabelSpace.
*/
type UnparsableLabelError struct {
	// Index of the offending row in the evaluated dataset, -1 if unknown
	Row   int
	Label string
	// Whether the offending label was the predicted one
	Predicted bool
}

func (e *UnparsableLabelError) Error() string {
	kind := "actual"
	if e.Predicted {
		kind = "predicted"
	}
	if e.Row < 0 {
		return fmt.Sprintf("unparsable %s label %q", kind, e.Label)
	}
	return fmt.Sprintf("row %d: unparsable %s label %q", e.Row, kind, e.Label)
}

type digitSpace int

/*
DigitSpace returns the LabelSpace of labels that are the decimal
representation of an integer in [0, n), as in digit recognition
datasets with n = 10.
*/
func DigitSpace(n int) LabelSpace {
	return digitSpace(n)
}

func (ds digitSpace) Index(label string) (int, error) {
	i, err := strconv.Atoi(label)
	if err != nil || i < 0 || i >= int(ds) {
		return 0, &UnparsableLabelError{Row: -1, Label: label}
	}
	return i, nil
}

func (ds digitSpace) Labels() []string {
	labels := make([]string, int(ds))
	for i := range labels {
		labels[i] = strconv.Itoa(i)
	}
	return labels
}

type observedSpace struct {
	labels  []string
	indices map[string]int
}

/*
ObservedSpace returns the LabelSpace of the labels observed on the given
datasets, sorted in ascending order. It lets confusion matrices be sized
after any label alphabet.
*/
func ObservedSpace(datasets ...*dataset.Dataset) LabelSpace {
	seen := make(map[string]bool)
	for _, d := range datasets {
		for _, l := range d.Labels() {
			seen[l] = true
		}
	}
	return sortedSpace(seen)
}

/*
TreeSpace returns the LabelSpace of the labels observed on the given
datasets plus every label the tree can predict: the labels of its leaves
and the majority labels its internal nodes fall back on.
*/
func TreeSpace(t *tree.Tree, datasets ...*dataset.Dataset) (LabelSpace, error) {
	seen := make(map[string]bool)
	for _, d := range datasets {
		for _, l := range d.Labels() {
			seen[l] = true
		}
	}
	err := t.Traverse(context.Background(), false, func(_ context.Context, _ []tree.Step, n *tree.Node) error {
		if n.IsLeaf() {
			seen[n.Label] = true
		} else {
			seen[n.Majority] = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sortedSpace(seen), nil
}

func sortedSpace(seen map[string]bool) LabelSpace {
	labels := make([]string, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return NewSpace(labels)
}

// NewSpace returns a LabelSpace with the given labels in the given order
func NewSpace(labels []string) LabelSpace {
	obs := &observedSpace{labels: labels, indices: make(map[string]int, len(labels))}
	for i, l := range labels {
		obs.indices[l] = i
	}
	return obs
}

func (obs *observedSpace) Index(label string) (int, error) {
	i, ok := obs.indices[label]
	if !ok {
		return 0, &UnparsableLabelError{Row: -1, Label: label}
	}
	return i, nil
}

func (obs *observedSpace) Labels() []string {
	return obs.labels
}
