package tree

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sapling-ml/sapling/dataset"
)

// Tree represents a categorical decision tree. It is composed of the
// root node and the index of the target label column on the rows it
// was grown from. Trees are not modified once built.
type Tree struct {
	Root        *Node
	TargetIndex int
}

// Step is an edge on the path from the root of a tree to a node
type Step struct {
	Attribute int
	Value     string
}

// New takes the root Node and the target index and returns a tree.
func New(root *Node, targetIndex int) *Tree {
	return &Tree{root, targetIndex}
}

/*
Predict takes a row and descends the tree from the root following, on
every internal node, the child for the row's value on the node's split
attribute. It returns the label of the reached leaf, or the majority
label of the first internal node with no child for the row's value; in
the latter case the Fallback of the returned prediction describes it.

An error is returned only for a nil tree or if the row is too short to
hold an attribute the tree splits on.
*/
func (t *Tree) Predict(row dataset.Row) (*Prediction, error) {
	if t == nil || t.Root == nil {
		return nil, fmt.Errorf("nil tree cannot predict rows")
	}
	n := t.Root
	depth := 0
	for !n.IsLeaf() {
		v, ok := row.Value(n.Attribute)
		if !ok {
			return nil, fmt.Errorf("row with %d fields has no value for attribute %d", len(row), n.Attribute)
		}
		child, ok := n.Children[v]
		if !ok {
			return &Prediction{
				Label: n.Majority,
				Depth: depth,
				Fallback: &Fallback{
					Attribute: n.Attribute,
					Value:     v,
					Majority:  n.Majority,
				},
			}, nil
		}
		n = child
		depth++
	}
	return &Prediction{Label: n.Label, Depth: depth}, nil
}

/*
Traverse takes a context, a bottomUp boolean and an error-returning
function and goes through the tree calling the function with the
context, the path from the root and every traversed node.
Traverse will call the function with a parent node before calling it
for its children if bottomUp is false, and after its children if
bottomUp is true. Children are visited in ascending order of their
attribute value.
If the given context is cancelled, the context error is returned.
If the call to the function returns an error, the traversing is aborted
and the error is returned.
*/
func (t *Tree) Traverse(ctx context.Context, bottomUp bool, f func(context.Context, []Step, *Node) error) error {
	if t.Root == nil {
		return nil
	}
	return traverse(ctx, nil, t.Root, bottomUp, f)
}

func traverse(ctx context.Context, path []Step, n *Node, bottomUp bool, f func(context.Context, []Step, *Node) error) error {
	err := ctx.Err()
	if err != nil {
		return err
	}
	if !bottomUp {
		err = f(ctx, path, n)
		if err != nil {
			return err
		}
	}
	for _, v := range n.values() {
		childPath := make([]Step, len(path), len(path)+1)
		copy(childPath, path)
		childPath = append(childPath, Step{n.Attribute, v})
		err = traverse(ctx, childPath, n.Children[v], bottomUp, f)
		if err != nil {
			return err
		}
	}
	if bottomUp {
		return f(ctx, path, n)
	}
	return nil
}

// Depth returns the number of edges on the longest path from the root to a leaf
func (t *Tree) Depth() int {
	if t.Root == nil {
		return 0
	}
	return depth(t.Root)
}

func depth(n *Node) int {
	var result int
	for _, c := range n.Children {
		if d := depth(c) + 1; d > result {
			result = d
		}
	}
	return result
}

// Size returns the number of nodes in the tree
func (t *Tree) Size() int {
	var count int
	t.Traverse(context.Background(), false, func(context.Context, []Step, *Node) error {
		count++
		return nil
	})
	return count
}

// Leaves returns the number of leaf nodes in the tree
func (t *Tree) Leaves() int {
	var count int
	t.Traverse(context.Background(), false, func(_ context.Context, _ []Step, n *Node) error {
		if n.IsLeaf() {
			count++
		}
		return nil
	})
	return count
}

/*
Validate checks the structure of the tree: it must have a root, internal
nodes must split on an attribute column before the target column and
have at least one child, and no node may be nil.
*/
func (t *Tree) Validate() error {
	if t.Root == nil {
		return fmt.Errorf("tree has no root node")
	}
	return t.Traverse(context.Background(), false, func(_ context.Context, path []Step, n *Node) error {
		if n == nil {
			return fmt.Errorf("nil node at %v", path)
		}
		switch n.Kind {
		case LeafKind:
			return nil
		case InternalKind:
			if n.Attribute < 0 || n.Attribute >= t.TargetIndex {
				return fmt.Errorf("node at %v splits on attribute %d outside [0, %d)", path, n.Attribute, t.TargetIndex)
			}
			if len(n.Children) == 0 {
				return fmt.Errorf("internal node at %v has no children", path)
			}
			for v, c := range n.Children {
				if c == nil {
					return fmt.Errorf("nil child for value %q of node at %v", v, path)
				}
			}
			return nil
		}
		return fmt.Errorf("node at %v has unknown %v", path, n.Kind)
	})
}

func (t *Tree) String() string {
	if t.Root == nil {
		return ""
	}
	return subtreeString(t.Root)
}

func subtreeString(n *Node) string {
	result := fmt.Sprintf("{ %v }\n", n)
	if n.IsLeaf() {
		return result
	}
	result = fmt.Sprintf("%s|\n", result)
	values := n.values()
	for i, v := range values {
		for j, line := range strings.Split(subtreeString(n.Children[v]), "\n") {
			if len(line) == 0 {
				continue
			}
			if j == 0 {
				result = fmt.Sprintf("%s|__[%d = %s] %s\n", result, n.Attribute, v, line)
			} else if i == len(values)-1 {
				result = fmt.Sprintf("%s   %s\n", result, line)
			} else {
				result = fmt.Sprintf("%s|  %s\n", result, line)
			}
		}
	}
	return result
}

func (n *Node) values() []string {
	values := make([]string, 0, len(n.Children))
	for v := range n.Children {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
