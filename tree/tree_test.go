package tree

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sapling-ml/sapling/dataset"
)

func sampleTree() *Tree {
	return New(NewInternal(0, "0", map[string]*Node{
		"a": NewLeaf("0"),
		"b": NewInternal(1, "1", map[string]*Node{
			"x": NewLeaf("1"),
			"y": NewLeaf("2"),
		}),
	}), 2)
}

func TestPredict(t *testing.T) {
	tr := sampleTree()
	tests := []struct {
		name     string
		row      dataset.Row
		label    string
		depth    int
		fallback *Fallback
	}{
		{"leaf under root", dataset.Row{"a", "z", "?"}, "0", 1, nil},
		{"nested leaf", dataset.Row{"b", "y", "?"}, "2", 2, nil},
		{"unseen at root", dataset.Row{"c", "x", "?"}, "0", 0, &Fallback{0, "c", "0"}},
		{"unseen below root", dataset.Row{"b", "z", "?"}, "1", 1, &Fallback{1, "z", "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tr.Predict(tt.row)
			require.NoError(t, err)
			require.Equal(t, tt.label, p.Label)
			require.Equal(t, tt.depth, p.Depth)
			require.Equal(t, tt.fallback, p.Fallback)
		})
	}
}

func TestPredictShortRow(t *testing.T) {
	_, err := sampleTree().Predict(dataset.Row{"b"})
	require.Error(t, err)
}

func TestPredictNilTree(t *testing.T) {
	var tr *Tree
	_, err := tr.Predict(dataset.Row{"a"})
	require.Error(t, err)
}

func TestPredictLeafTree(t *testing.T) {
	p, err := New(NewLeaf("4"), 2).Predict(dataset.Row{"q", "r", "?"})
	require.NoError(t, err)
	require.Equal(t, "4", p.Label)
	require.Nil(t, p.Fallback)
}

func TestTraverse(t *testing.T) {
	var visited []string
	err := sampleTree().Traverse(context.Background(), false, func(_ context.Context, path []Step, n *Node) error {
		visited = append(visited, n.String())
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{
		"split on attribute 0 (majority 0)",
		"predict 0",
		"split on attribute 1 (majority 1)",
		"predict 1",
		"predict 2",
	}, visited)

	var paths [][]Step
	err = sampleTree().Traverse(context.Background(), true, func(_ context.Context, path []Step, n *Node) error {
		paths = append(paths, path)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []Step{{0, "b"}, {1, "y"}}, paths[2])
	require.Nil(t, paths[len(paths)-1])
}

func TestTraverseAborts(t *testing.T) {
	stop := errors.New("stop")
	count := 0
	err := sampleTree().Traverse(context.Background(), false, func(context.Context, []Step, *Node) error {
		count++
		if count == 2 {
			return stop
		}
		return nil
	})
	require.Equal(t, stop, err)
	require.Equal(t, 2, count)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = sampleTree().Traverse(ctx, false, func(context.Context, []Step, *Node) error { return nil })
	require.Equal(t, context.Canceled, err)
}

func TestShape(t *testing.T) {
	tr := sampleTree()
	require.Equal(t, 2, tr.Depth())
	require.Equal(t, 5, tr.Size())
	require.Equal(t, 3, tr.Leaves())
	require.Equal(t, 0, New(NewLeaf("1"), 1).Depth())
}

func TestValidate(t *testing.T) {
	require.NoError(t, sampleTree().Validate())
	require.Error(t, (&Tree{}).Validate())
	require.Error(t, New(NewInternal(3, "0", map[string]*Node{"a": NewLeaf("0")}), 2).Validate())
	require.Error(t, New(NewInternal(0, "0", nil), 2).Validate())
	require.Error(t, New(NewInternal(0, "0", map[string]*Node{"a": nil}), 2).Validate())
	require.Error(t, New(&Node{Kind: Kind(7)}, 2).Validate())
}

func TestString(t *testing.T) {
	expected := "{ split on attribute 0 (majority 0) }\n" +
		"|\n" +
		"|__[0 = a] { predict 0 }\n" +
		"|__[0 = b] { split on attribute 1 (majority 1) }\n" +
		"   |\n" +
		"   |__[1 = x] { predict 1 }\n" +
		"   |__[1 = y] { predict 2 }\n"
	require.Equal(t, expected, sampleTree().String())
}
