package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tarstars/uncertain_decision_tree/golang/udt/dataio"
	"github.com/tarstars/uncertain_decision_tree/golang/udt/store"
	"github.com/tarstars/uncertain_decision_tree/golang/udt/udtl"
)

func writeFourPoints(t *testing.T, dir string) string {
	t.Helper()
	ds := udtl.DataSet{AttributeNames: []string{"x"}, ClassNames: []string{"A", "B"}}
	for ind, x := range []float64{0.1, 0.4, 0.6, 0.9} {
		value, err := udtl.NewPointDistribution(0, 1, x)
		require.NoError(t, err)
		ds.Instances = append(ds.Instances, udtl.Instance{Values: []udtl.Distribution{value}, Class: ind / 2, Weight: 1})
	}
	filename := filepath.Join(dir, "data.json")
	require.NoError(t, dataio.SaveDataSet(ds, filename))
	return filename
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	cmd := cliParser()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestTrainTestPredict(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("UDT_STORE_PATH", filepath.Join(dir, "udt.db"))
	t.Setenv("UDT_LOG_LEVEL", "warn")
	data := writeFourPoints(t, dir)
	model := filepath.Join(dir, "tree.json")
	metricsFile := filepath.Join(dir, "udt.prom")

	require.NoError(t, execute(t, "train", "--data", data, "--model", model, "--name", "four", "--min-node-weight", "1",
		"--metrics-file", metricsFile))
	tree, err := udtl.LoadTree(model)
	require.NoError(t, err)
	assert.Len(t, tree.LeafNodes, 2)

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "udt_trees_built_total 1")

	require.NoError(t, execute(t, "test", "--data", data, "--name", "four"))
	prediction := filepath.Join(dir, "pred.npy")
	require.NoError(t, execute(t, "predict", "--data", data, "--model", model, "--out", prediction))
	m, err := dataio.ReadNpy(prediction)
	require.NoError(t, err)
	rows, cols := m.Dims()
	assert.Equal(t, 4, rows)
	assert.Equal(t, 2, cols)

	treeStore, err := store.Open(filepath.Join(dir, "udt.db"))
	require.NoError(t, err)
	names, err := treeStore.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"four"}, names)
	require.NoError(t, treeStore.Close())
}

func TestXval(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("UDT_LOG_LEVEL", "warn")
	data := writeFourPoints(t, dir)

	assert.NoError(t, execute(t, "xval", "--data", data, "--folds", "2", "--min-node-weight", "1"))
	assert.Error(t, execute(t, "xval", "--data", data, "--folds", "5"))
	assert.Error(t, execute(t, "xval", "--data", data, "--purity", "1.5"))
}

func TestRequiredFlags(t *testing.T) {
	t.Setenv("UDT_LOG_LEVEL", "warn")
	assert.Error(t, execute(t, "train"))
	assert.Error(t, execute(t, "test", "--data", "data.json"))
	assert.Error(t, execute(t, "gen", "--input", "points.csv"))
}
