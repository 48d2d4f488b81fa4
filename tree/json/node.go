package json

import (
	"fmt"

	"github.com/sapling-ml/sapling/tree"
)

const (
	leafType     = "leaf"
	internalType = "internal"
)

type node struct {
	Type      string           `json:"t"`
	Label     string           `json:"l,omitempty"`
	Attribute *int             `json:"a,omitempty"`
	Majority  string           `json:"m,omitempty"`
	Children  map[string]*node `json:"c,omitempty"`
}

func encodeNode(n *tree.Node) (*node, error) {
	switch n.Kind {
	case tree.LeafKind:
		return &node{Type: leafType, Label: n.Label}, nil
	case tree.InternalKind:
		attr := n.Attribute
		jn := &node{
			Type:      internalType,
			Attribute: &attr,
			Majority:  n.Majority,
			Children:  make(map[string]*node, len(n.Children)),
		}
		for v, c := range n.Children {
			jc, err := encodeNode(c)
			if err != nil {
				return nil, err
			}
			jn.Children[v] = jc
		}
		return jn, nil
	}
	return nil, fmt.Errorf("encoding node: unknown %v", n.Kind)
}

func decodeNode(jn *node) (*tree.Node, error) {
	if jn == nil {
		return nil, fmt.Errorf("decoding node: null node")
	}
	switch jn.Type {
	case leafType:
		return tree.NewLeaf(jn.Label), nil
	case internalType:
		if jn.Attribute == nil {
			return nil, fmt.Errorf("decoding internal node: no attribute")
		}
		children := make(map[string]*tree.Node, len(jn.Children))
		for v, jc := range jn.Children {
			c, err := decodeNode(jc)
			if err != nil {
				return nil, fmt.Errorf("decoding child %q of node on attribute %d: %v", v, *jn.Attribute, err)
			}
			children[v] = c
		}
		return tree.NewInternal(*jn.Attribute, jn.Majority, children), nil
	}
	return nil, fmt.Errorf("decoding node: unknown node type %q", jn.Type)
}
