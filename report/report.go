/*
Package report holds the results of evaluating trees over folds, renders
them as text tables and keeps them in stores.
*/
package report

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

/*
FoldReport is the result of growing a tree on the training set of a fold
and evaluating it on the fold's test set.
*/
type FoldReport struct {
	Fold        string             `json:"fold"`
	TrainRows   int                `json:"trainRows"`
	TestRows    int                `json:"testRows"`
	TreeDepth   int                `json:"treeDepth"`
	TreeSize    int                `json:"treeSize"`
	Labels      []string           `json:"labels"`
	Matrix      [][]int            `json:"matrix"`
	Accuracy    float64            `json:"accuracy"`
	Fallbacks   int                `json:"fallbacks"`
	Rejected    int                `json:"rejected"`
	Classes     []ClassMetrics     `json:"classes,omitempty"`
	Predictions []PredictionDetail `json:"predictions,omitempty"`
}

// ClassMetrics holds the precision and recall of a class of the confusion matrix
type ClassMetrics struct {
	Label     string  `json:"label"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
}

// PredictionDetail is the guess made for a test row along its original label
type PredictionDetail struct {
	Row       int    `json:"row"`
	Actual    string `json:"actual"`
	Predicted string `json:"predicted"`
	Fallback  bool   `json:"fallback,omitempty"`
}

/*
Store is an interface to keep fold reports.

All its methods take a context that may allow cancelling the
operation if the implementation allows it.
*/
type Store interface {
	// Save takes a report and stores it under its fold name,
	// replacing any previous report for that fold.
	Save(ctx context.Context, r *FoldReport) error
	// List returns the stored reports sorted by fold name
	List(ctx context.Context) ([]*FoldReport, error)
	// Close frees any resources in use by the store
	Close(ctx context.Context) error
}

type memoryStore struct {
	reports map[string]*FoldReport
	lock    *sync.RWMutex
}

// NewMemoryStore returns an implementation of Store
// with the process memory space as underlying backend
func NewMemoryStore() Store {
	return &memoryStore{
		reports: make(map[string]*FoldReport),
		lock:    &sync.RWMutex{},
	}
}

func (ms *memoryStore) Save(ctx context.Context, r *FoldReport) error {
	if r.Fold == "" {
		return fmt.Errorf("saving report: report has no fold name")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	ms.lock.Lock()
	defer ms.lock.Unlock()
	ms.reports[r.Fold] = r
	return nil
}

func (ms *memoryStore) List(ctx context.Context) ([]*FoldReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ms.lock.RLock()
	defer ms.lock.RUnlock()
	result := make([]*FoldReport, 0, len(ms.reports))
	for _, r := range ms.reports {
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Fold < result[j].Fold })
	return result, nil
}

func (ms *memoryStore) Close(ctx context.Context) error {
	return nil
}
