package sapling

import (
	"fmt"
	"sort"

	"github.com/sapling-ml/sapling/dataset"
)

/*
Partition represents a partition of a dataset according to the values
of an attribute column, with the information gain it brings to predict
the target label.
*/
type Partition struct {
	Attribute       int
	Values          []string
	Subsets         map[string]*dataset.Dataset
	InformationGain float64
}

/*
NewPartition takes a dataset and an attribute column index and returns
the partition of the dataset for that attribute: one subset per distinct
value observed on the column, and the information gain
  Entropy(S) - Σv (|Sv| / |S|) x Entropy(Sv)
of splitting on it. The gain of a partition of an empty dataset is 0.
*/
func NewPartition(s *dataset.Dataset, attr int) *Partition {
	values, subsets := s.Partition(attr)
	informationGain := s.Entropy()
	totalCount := float64(s.Len())
	for _, v := range values {
		ss := subsets[v]
		informationGain -= ss.Entropy() * float64(ss.Len()) / totalCount
	}
	return &Partition{attr, values, subsets, informationGain}
}

// InformationGain returns the information gain of partitioning the dataset on the given attribute
func InformationGain(s *dataset.Dataset, attr int) float64 {
	return NewPartition(s, attr).InformationGain
}

/*
SelectBest takes a dataset and a non-empty slice of available attribute
indices and returns the partition on the attribute with the greatest
information gain. Attributes are evaluated in ascending index order and
only a strictly greater gain replaces the current best, so ties go to
the smallest index.
*/
func SelectBest(s *dataset.Dataset, available []int) (*Partition, error) {
	if len(available) == 0 {
		return nil, fmt.Errorf("selecting attribute: no attributes available")
	}
	attrs := make([]int, len(available))
	copy(attrs, available)
	sort.Ints(attrs)
	var selected *Partition
	for _, a := range attrs {
		part := NewPartition(s, a)
		if selected == nil || part.InformationGain > selected.InformationGain {
			selected = part
		}
	}
	return selected, nil
}

// without returns a copy of attrs that does not hold attr
func without(attrs []int, attr int) []int {
	result := make([]int, 0, len(attrs))
	for _, a := range attrs {
		if a != attr {
			result = append(result, a)
		}
	}
	return result
}
