package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sapling-ml/sapling"
	"github.com/sapling-ml/sapling/config"
	"github.com/sapling-ml/sapling/dataset"
	"github.com/sapling-ml/sapling/dataset/csv"
	"github.com/sapling-ml/sapling/report"
	"github.com/sapling-ml/sapling/tree"
)

func grow(t *testing.T, target int, rs ...dataset.Row) *tree.Tree {
	rows, err := dataset.MoveToLast(rs, target)
	require.NoError(t, err)
	d, err := dataset.NewFromLastColumn(rows)
	require.NoError(t, err)
	tr, err := sapling.Build(d)
	require.NoError(t, err)
	return tr
}

func TestSourceKind(t *testing.T) {
	tests := []struct {
		location string
		kind     sourceKind
	}{
		{"", csvSource},
		{"-", csvSource},
		{"data/a.csv", csvSource},
		{"data/a.db", sqlite3Source},
		{"postgresql://localhost/sapling", postgreSQLSource},
		{"postgres://localhost/sapling", postgreSQLSource},
		{"mongodb://localhost/sapling", mongoDBSource},
	}
	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			require.Equal(t, tt.kind, (&source{location: tt.location}).kind())
		})
	}
}

func TestSourceDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.csv")
	require.NoError(t, ioutil.WriteFile(path, []byte("label,f1,f2\n0,a,x\n1,b,y\n"), 0644))
	s := &source{location: path, header: true, target: 0}
	d, err := s.dataset(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, d.TargetIndex())
	require.Equal(t, dataset.Row{"a", "x", "0"}, d.Rows()[0])
}

func TestSetupLogging(t *testing.T) {
	require.NoError(t, setupLogging("debug", "json"))
	require.NoError(t, setupLogging("info", "pretty"))
	require.Error(t, setupLogging("trace", "json"))
	require.Error(t, setupLogging("info", "xml"))
}

func TestRunConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yml")
	require.NoError(t, ioutil.WriteFile(path, []byte("datasetA: a.csv\ndatasetB: b.csv\nclasses: 4\n"), 0644))

	cc := &runCmdConfig{run: config.Default()}
	cmd := newRunCmd(cc)
	require.NoError(t, cmd.Flags().Parse([]string{"--config", path, "--dataset-b", "c.csv", "--label-domain", "observed"}))
	require.NoError(t, cc.load(cmd))
	require.Equal(t, "a.csv", cc.run.DatasetA)
	require.Equal(t, "c.csv", cc.run.DatasetB)
	require.Equal(t, 4, cc.run.Classes)
	require.Equal(t, config.ObservedDomain, cc.run.LabelDomain)
}

func TestRunConfigWithoutDatasets(t *testing.T) {
	cc := &runCmdConfig{run: config.Default()}
	cmd := newRunCmd(cc)
	require.NoError(t, cmd.Flags().Parse(nil))
	require.Error(t, cc.load(cmd))
}

func TestTestWithObservedLabelsCountsTreeOnlyLabels(t *testing.T) {
	tr := grow(t, -1,
		dataset.Row{"a", "x", "dog"},
		dataset.Row{"a", "y", "dog"},
		dataset.Row{"b", "x", "cat"},
	)
	testingSet, err := dataset.NewFromLastColumn([]dataset.Row{{"b", "x", "dog"}, {"a", "x", "dog"}})
	require.NoError(t, err)

	tcc := &testCmdConfig{observed: true, treeInput: "tree.json"}
	r, err := tcc.test(context.Background(), tr, testingSet)
	require.NoError(t, err)
	require.Equal(t, []string{"cat", "dog"}, r.Labels)
	require.Equal(t, [][]int{{0, 0}, {1, 1}}, r.Matrix)
	require.Equal(t, 0.5, r.Accuracy)
	require.Equal(t, 0, r.Rejected)

	var buf bytes.Buffer
	require.NoError(t, tcc.print(&buf, r))
	require.Contains(t, buf.String(), "Accuracy (tree.json): 50.00%")
	require.Contains(t, buf.String(), "Rejected")
}

func TestPredictAlignsMovedLabelColumn(t *testing.T) {
	tr := grow(t, 0,
		dataset.Row{"dog", "a", "x"},
		dataset.Row{"dog", "a", "y"},
		dataset.Row{"cat", "b", "x"},
	)
	pcc := &predictCmdConfig{input: source{target: 0}}
	rows, err := pcc.align(tr, []dataset.Row{{"cat", "b", "x"}, {"dog", "a", "y"}})
	require.NoError(t, err)

	var buf bytes.Buffer
	fallbacks, err := predict(context.Background(), tr, rows, &buf)
	require.NoError(t, err)
	require.Equal(t, 0, fallbacks)
	require.Equal(t, "cat\ndog\n", buf.String())
}

func TestPredictAlignChecksRowWidth(t *testing.T) {
	tr := grow(t, -1,
		dataset.Row{"a", "x", "dog"},
		dataset.Row{"b", "x", "cat"},
	)
	unlabelled := &predictCmdConfig{input: source{target: -1}}
	rows, err := unlabelled.align(tr, []dataset.Row{{"b", "x"}})
	require.NoError(t, err)
	var buf bytes.Buffer
	_, err = predict(context.Background(), tr, rows, &buf)
	require.NoError(t, err)
	require.Equal(t, "cat\n", buf.String())

	var mre *dataset.MalformedRowError
	_, err = unlabelled.align(tr, []dataset.Row{{"b"}})
	require.ErrorAs(t, err, &mre)
	_, err = unlabelled.align(tr, []dataset.Row{{"b", "x", "cat", "extra"}})
	require.ErrorAs(t, err, &mre)

	moved := &predictCmdConfig{input: source{target: 0}}
	_, err = moved.align(tr, []dataset.Row{{"cat", "b"}})
	require.ErrorAs(t, err, &mre)
}

func TestSplitToCSVFiles(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.csv")
	require.NoError(t, ioutil.WriteFile(input, []byte("f1,label\na,0\nb,1\nc,0\nd,1\n"), 0644))
	scc := &splitCmdConfig{
		input:            source{location: input, header: true, target: -1},
		setOutput:        source{location: filepath.Join(dir, "a.csv")},
		splitOutput:      source{location: filepath.Join(dir, "b.csv")},
		splitProbability: 50,
		seed:             7,
	}
	require.NoError(t, scc.Validate())
	require.NoError(t, scc.split(context.Background()))

	ha, a, err := csv.ReadFile(scc.setOutput.location, true)
	require.NoError(t, err)
	hb, b, err := csv.ReadFile(scc.splitOutput.location, true)
	require.NoError(t, err)
	require.Equal(t, []string{"f1", "label"}, ha)
	require.Equal(t, []string{"f1", "label"}, hb)
	require.Len(t, append(a, b...), 4)
}

func TestSplitToSQLite3(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.csv")
	require.NoError(t, ioutil.WriteFile(input, []byte("a,x,0\nb,y,1\nc,x,0\n"), 0644))
	db := filepath.Join(dir, "folds.db")
	scc := &splitCmdConfig{
		input:            source{location: input, target: -1},
		setOutput:        source{location: db, table: "output"},
		splitOutput:      source{location: db, table: "split"},
		splitProbability: 100,
		seed:             1,
	}
	require.NoError(t, scc.Validate())
	require.NoError(t, scc.split(context.Background()))

	ctx := context.Background()
	columns, rows, err := (&source{location: db, table: "split"}).rows(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"attribute0", "attribute1", "label"}, columns)
	require.Equal(t, []dataset.Row{{"a", "x", "0"}, {"b", "y", "1"}, {"c", "x", "0"}}, rows)

	_, rows, err = (&source{location: db, table: "output"}).rows(ctx)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestSplitRejectsSharedTable(t *testing.T) {
	scc := &splitCmdConfig{
		setOutput:        source{location: "folds.db", table: "rows"},
		splitOutput:      source{location: "folds.db", table: "rows"},
		splitProbability: 50,
	}
	require.Error(t, scc.Validate())
}

func TestRunPublishListsStoredReports(t *testing.T) {
	a, err := dataset.NewFromLastColumn([]dataset.Row{{"a", "0"}, {"b", "1"}})
	require.NoError(t, err)
	cc := &runCmdConfig{run: config.Default()}
	cc.run.LabelDomain = config.ObservedDomain
	space, err := cc.labelSpace(a, a)
	require.NoError(t, err)
	reports, err := sapling.RunFolds(context.Background(), sapling.Folds(a, a), space)
	require.NoError(t, err)

	stored, err := cc.publish(context.Background(), []*report.FoldReport{reports[1], reports[0]})
	require.NoError(t, err)
	require.Len(t, stored, 2)
	require.Equal(t, "Fold 1", stored[0].Fold)
	require.Equal(t, "Fold 2", stored[1].Fold)

	var buf bytes.Buffer
	require.NoError(t, cc.print(&buf, stored))
	require.Contains(t, buf.String(), "Confusion Matrix (Fold 2)")
	require.Contains(t, buf.String(), "Summary of Results")
}

func TestWriteConfig(t *testing.T) {
	cc := &runCmdConfig{run: config.Default()}
	cc.run.DatasetA, cc.run.DatasetB = "a.csv", "b.csv"
	var buf bytes.Buffer
	require.NoError(t, cc.writeConfig(&buf))
	require.Contains(t, buf.String(), "datasetA: a.csv")

	parsed, err := config.Parse(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, cc.run, parsed)
}

func TestFormatFieldValue(t *testing.T) {
	require.Equal(t, "1", formatFieldValue(json.Number("1")))
	require.Equal(t, "0.667", formatFieldValue(json.Number("0.6666666666666666")))
	require.Equal(t, "dog", formatFieldValue("dog"))
}
