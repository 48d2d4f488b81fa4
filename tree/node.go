package tree

import "fmt"

// Kind tells the two shapes of a Node apart.
type Kind int

const (
	// LeafKind nodes carry a final label.
	LeafKind Kind = iota
	// InternalKind nodes split rows on an attribute.
	InternalKind
)

func (k Kind) String() string {
	switch k {
	case LeafKind:
		return "leaf"
	case InternalKind:
		return "internal"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

/*
Node is a node of the tree. It is either a leaf or an internal node,
as told by its Kind:
 * a leaf node only carries Label, the prediction for any row reaching it.
 * an internal node carries the Attribute it splits rows on, the Majority
 label among the training rows that reached it and one child per
 attribute value observed on those rows.

Every node is owned by its parent alone.
*/
type Node struct {
	Kind Kind
	// The prediction of a leaf node
	Label string
	// The attribute column an internal node splits on
	Attribute int
	// The most frequent label among the training rows of an internal
	// node, used when a row holds a value with no child.
	Majority string
	// Children of an internal node, keyed by attribute value
	Children map[string]*Node
}

// NewLeaf returns a leaf node predicting the given label
func NewLeaf(label string) *Node {
	return &Node{Kind: LeafKind, Label: label}
}

/*
NewInternal takes an attribute index, a majority label and a map of
attribute values to child nodes and returns an internal node with them.
*/
func NewInternal(attribute int, majority string, children map[string]*Node) *Node {
	if children == nil {
		children = make(map[string]*Node)
	}
	return &Node{Kind: InternalKind, Attribute: attribute, Majority: majority, Children: children}
}

// IsLeaf returns whether the node is a leaf
func (n *Node) IsLeaf() bool {
	return n.Kind == LeafKind
}

func (n *Node) String() string {
	if n.IsLeaf() {
		return fmt.Sprintf("predict %s", n.Label)
	}
	return fmt.Sprintf("split on attribute %d (majority %s)", n.Attribute, n.Majority)
}
