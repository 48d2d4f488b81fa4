package json

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sapling-ml/sapling/tree"
)

func sampleTree() *tree.Tree {
	return tree.New(tree.NewInternal(0, "0", map[string]*tree.Node{
		"a": tree.NewLeaf("0"),
		"b": tree.NewInternal(1, "1", map[string]*tree.Node{
			"x": tree.NewLeaf("1"),
			"y": tree.NewLeaf("2"),
		}),
	}), 2)
}

func TestWriteAndReadTree(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTree(&buf, sampleTree()))
	require.Contains(t, buf.String(), `"targetIndex":2`)
	read, err := ReadTree(&buf)
	require.NoError(t, err)
	require.Equal(t, sampleTree(), read)
}

func TestWriteAndReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.json")
	require.NoError(t, WriteFile(path, sampleTree()))
	read, err := ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, sampleTree(), read)
}

func TestReadTreeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{`},
		{"no target", `{"root":{"t":"leaf","l":"0"}}`},
		{"no root", `{"targetIndex":2}`},
		{"unknown type", `{"targetIndex":2,"root":{"t":"branch"}}`},
		{"internal without attribute", `{"targetIndex":2,"root":{"t":"internal","c":{"a":{"t":"leaf","l":"0"}}}}`},
		{"attribute out of range", `{"targetIndex":2,"root":{"t":"internal","a":2,"c":{"a":{"t":"leaf","l":"0"}}}}`},
		{"internal without children", `{"targetIndex":2,"root":{"t":"internal","a":0,"m":"0"}}`},
		{"null child", `{"targetIndex":2,"root":{"t":"internal","a":0,"m":"0","c":{"a":null}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTree(strings.NewReader(tt.doc))
			require.Error(t, err)
		})
	}
}

func TestWriteEmptyTree(t *testing.T) {
	var buf bytes.Buffer
	require.Error(t, WriteTree(&buf, &tree.Tree{}))
}
