package dataset

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"

	"gonum.org/v1/gonum/stat"
)

/*
Dataset represents an immutable collection of rows that share the index
of their target label column.

Its Entropy method returns the entropy of the dataset labels: a
measure of the disinformation we have on the classes of rows that belong to
it. It is computed once and may be called from several goroutines.

Its Partition method takes an attribute column and returns the subsets
of rows for each value observed on that column.
*/
type Dataset struct {
	rows        []Row
	target      int
	entropyOnce sync.Once
	entropy     float64
}

// DatasetError represents an error related with datasets
type DatasetError string

/*
ErrEmptyDataset is the error returned when a computation that needs
at least one row, like the majority label, is attempted on an empty
dataset.
*/
const ErrEmptyDataset = DatasetError("dataset has no rows")

func (de DatasetError) Error() string {
	return string(de)
}

/*
MalformedRowError is returned when a row does not have the width
expected for the dataset: one field per attribute plus the target label.
*/
type MalformedRowError struct {
	Row      int
	Width    int
	Expected int
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("row %d has %d fields, expected %d", e.Row, e.Width, e.Expected)
}

/*
New takes a slice of rows and the index of the target label column and
returns a dataset built with them. Every row must have exactly target+1
fields, otherwise a *MalformedRowError for the first offending row is
returned.
*/
func New(rows []Row, target int) (*Dataset, error) {
	if target < 0 {
		return nil, fmt.Errorf("invalid target index %d", target)
	}
	for i, r := range rows {
		if len(r) != target+1 {
			return nil, &MalformedRowError{Row: i, Width: len(r), Expected: target + 1}
		}
	}
	return &Dataset{rows: rows, target: target}, nil
}

/*
NewFromLastColumn returns a dataset whose target label is the last column
of the first row. An empty slice of rows yields an empty dataset with
target index 0.
*/
func NewFromLastColumn(rows []Row) (*Dataset, error) {
	if len(rows) == 0 {
		return &Dataset{target: 0}, nil
	}
	return New(rows, len(rows[0])-1)
}

// Len returns the number of rows in the dataset
func (d *Dataset) Len() int {
	return len(d.rows)
}

// Rows returns the rows in the dataset. Callers must not modify them.
func (d *Dataset) Rows() []Row {
	return d.rows
}

// TargetIndex returns the index of the target label column
func (d *Dataset) TargetIndex() int {
	return d.target
}

/*
Attributes returns the indices of the attribute columns of the dataset
in ascending order.
*/
func (d *Dataset) Attributes() []int {
	attrs := make([]int, d.target)
	for i := range attrs {
		attrs[i] = i
	}
	return attrs
}

// Label returns the target label of the i-th row
func (d *Dataset) Label(i int) string {
	return d.rows[i].Label(d.target)
}

/*
CountLabels returns a map with the number of rows for every target label
in the dataset.
*/
func (d *Dataset) CountLabels() map[string]int {
	result := make(map[string]int)
	for _, r := range d.rows {
		result[r[d.target]]++
	}
	return result
}

// Labels returns the distinct target labels in the dataset in ascending order
func (d *Dataset) Labels() []string {
	counts := d.CountLabels()
	labels := make([]string, 0, len(counts))
	for l := range counts {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

/*
Entropy returns the entropy in bits of the target labels of the dataset.
It is 0 for an empty dataset and for a dataset whose rows share a single
label.
*/
func (d *Dataset) Entropy() float64 {
	d.entropyOnce.Do(func() {
		counts := d.CountLabels()
		if len(counts) <= 1 {
			return
		}
		total := float64(len(d.rows))
		probs := make([]float64, 0, len(counts))
		for _, c := range counts {
			probs = append(probs, float64(c)/total)
		}
		d.entropy = stat.Entropy(probs) / math.Ln2
	})
	return d.entropy
}

/*
MajorityLabel returns the most frequent target label in the dataset.
Ties are resolved in favour of the smallest label in ascending string
order. ErrEmptyDataset is returned for a dataset without rows.
*/
func (d *Dataset) MajorityLabel() (string, error) {
	if len(d.rows) == 0 {
		return "", ErrEmptyDataset
	}
	counts := d.CountLabels()
	var majority string
	best := -1
	for _, l := range d.Labels() {
		if counts[l] > best {
			majority = l
			best = counts[l]
		}
	}
	return majority, nil
}

/*
Pure returns whether all rows in the dataset share the same target label,
along with that label. An empty dataset is not pure.
*/
func (d *Dataset) Pure() (string, bool) {
	if len(d.rows) == 0 {
		return "", false
	}
	label := d.rows[0][d.target]
	for _, r := range d.rows[1:] {
		if r[d.target] != label {
			return "", false
		}
	}
	return label, true
}

/*
Partition takes an attribute column index and returns the distinct values
observed for it in ascending order along with a map from each of those
values to the subset of rows holding it. The subsets are disjoint and
together hold every row of the dataset.
*/
func (d *Dataset) Partition(attr int) ([]string, map[string]*Dataset) {
	groups := make(map[string][]Row)
	for _, r := range d.rows {
		groups[r[attr]] = append(groups[r[attr]], r)
	}
	values := make([]string, 0, len(groups))
	subsets := make(map[string]*Dataset, len(groups))
	for v, rows := range groups {
		values = append(values, v)
		subsets[v] = &Dataset{rows: rows, target: d.target}
	}
	sort.Strings(values)
	return values, subsets
}

/*
Split takes a probability p and a random source and distributes the rows
of the dataset into two datasets: each row goes to the second one with
probability p and to the first one otherwise.
*/
func (d *Dataset) Split(p float64, r *rand.Rand) (*Dataset, *Dataset) {
	var a, b []Row
	for _, row := range d.rows {
		if r.Float64() < p {
			b = append(b, row)
		} else {
			a = append(a, row)
		}
	}
	return &Dataset{rows: a, target: d.target}, &Dataset{rows: b, target: d.target}
}

func (d *Dataset) String() string {
	return fmt.Sprintf("dataset with %d rows and %d attributes", len(d.rows), d.target)
}
