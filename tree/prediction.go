package tree

import "fmt"

/*
Prediction represents the label predicted by a Tree for a row.
Depth is the number of edges descended from the root before the label
was decided. Fallback is not nil when the label is the majority label
of an internal node that had no child for the row's value.
*/
type Prediction struct {
	Label    string
	Depth    int
	Fallback *Fallback
}

/*
Fallback describes a prediction made with the majority label of an
internal node because the row's value for its split attribute was never
observed when the node was grown.
*/
type Fallback struct {
	Attribute int
	Value     string
	Majority  string
}

func (p *Prediction) String() string {
	if p.Fallback != nil {
		return fmt.Sprintf("%s (%v)", p.Label, p.Fallback)
	}
	return p.Label
}

func (f *Fallback) String() string {
	return fmt.Sprintf("fallback to majority class %s at node splitting on attribute %d (value %q)", f.Majority, f.Attribute, f.Value)
}
