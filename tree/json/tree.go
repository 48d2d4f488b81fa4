/*
Package json reads and writes trees as JSON documents.
*/
package json

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sapling-ml/sapling/tree"
)

type jsonTree struct {
	TargetIndex *int  `json:"targetIndex"`
	Root        *node `json:"root"`
}

/*
WriteTree takes an io.Writer and a pointer to a tree.Tree and serializes
the given tree as JSON onto the io.Writer.
A tree is serialized as a JSON object with the following fields:
* "targetIndex": the index of the label column on the rows the tree predicts
* "root": the root node of the tree.
Nodes are JSON objects with a "t" field set to "leaf" or "internal". Leaf
nodes hold their label in "l". Internal nodes hold their split attribute in
"a", their majority label in "m" and their children by attribute value in
the "c" object.
An error is returned if the tree cannot be serialized or written onto the
io.Writer.
*/
func WriteTree(w io.Writer, t *tree.Tree) error {
	if t == nil || t.Root == nil {
		return fmt.Errorf("writing tree: empty tree")
	}
	root, err := encodeNode(t.Root)
	if err != nil {
		return err
	}
	target := t.TargetIndex
	enc := json.NewEncoder(w)
	return enc.Encode(&jsonTree{TargetIndex: &target, Root: root})
}

/*
ReadTree takes an io.Reader and unmarshals a tree from its contents,
as written by WriteTree.
An error is returned if the JSON cannot be read from the io.Reader,
unmarshalled or does not describe a valid tree.
*/
func ReadTree(r io.Reader) (*tree.Tree, error) {
	jt := &jsonTree{}
	err := json.NewDecoder(r).Decode(jt)
	if err != nil {
		return nil, err
	}
	if jt.TargetIndex == nil {
		return nil, fmt.Errorf("no target index available")
	}
	if jt.Root == nil {
		return nil, fmt.Errorf("no root node available")
	}
	root, err := decodeNode(jt.Root)
	if err != nil {
		return nil, err
	}
	t := tree.New(root, *jt.TargetIndex)
	err = t.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid tree: %v", err)
	}
	return t, nil
}

/*
WriteFile takes a filepath and a tree and writes the tree as JSON on the
file, creating or truncating it. If the filepath is "" the tree is written
onto os.Stdout.
*/
func WriteFile(filepath string, t *tree.Tree) error {
	if filepath == "" {
		return WriteTree(os.Stdout, t)
	}
	f, err := os.Create(filepath)
	if err != nil {
		return err
	}
	err = WriteTree(f, t)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

// ReadFile takes a filepath and reads a tree from the JSON file in it
func ReadFile(filepath string) (*tree.Tree, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading tree in JSON from %s: %v", filepath, err)
	}
	defer f.Close()
	t, err := ReadTree(f)
	if err != nil {
		err = fmt.Errorf("parsing tree in JSON from %s: %v", filepath, err)
	}
	return t, err
}
