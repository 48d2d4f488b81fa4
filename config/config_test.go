package config

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	r, err := Parse([]byte(`
datasetA: a.csv
datasetB: b.csv
header: true
printDetails: true
labelDomain: observed
report:
  redis: redis://localhost:6379/0
`))
	require.NoError(t, err)
	require.Equal(t, &Run{
		DatasetA:     "a.csv",
		DatasetB:     "b.csv",
		TargetIndex:  -1,
		Header:       true,
		Table:        DefaultTable,
		PrintDetails: true,
		LabelDomain:  ObservedDomain,
		Classes:      DefaultClasses,
		Report:       Report{Redis: "redis://localhost:6379/0", Prefix: DefaultReportPrefix},
	}, r)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not yaml", "datasetA: [a"},
		{"unknown key", "datasetA: a.csv\ndatasetB: b.csv\nfolds: 3\n"},
		{"missing dataset", "datasetA: a.csv\n"},
		{"bad target", "datasetA: a.csv\ndatasetB: b.csv\ntargetIndex: -2\n"},
		{"bad domain", "datasetA: a.csv\ndatasetB: b.csv\nlabelDomain: letters\n"},
		{"no classes", "datasetA: a.csv\ndatasetB: b.csv\nclasses: 0\n"},
		{"empty table", "datasetA: a.csv\ndatasetB: b.csv\ntable: \"\"\n"},
		{"no prefix", "datasetA: a.csv\ndatasetB: b.csv\nreport:\n  redis: redis://localhost\n  prefix: \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yml")
	r := Default()
	r.DatasetA, r.DatasetB = "a.csv", "b.csv"
	doc, err := r.YAML()
	require.NoError(t, err)
	require.NoError(t, ioutil.WriteFile(path, doc, 0644))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, r, loaded)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}
