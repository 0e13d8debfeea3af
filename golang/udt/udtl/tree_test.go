package udtl

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestBuildTreeFourPoints(t *testing.T) {
	ds := pointDataSet(t, []float64{0.1, 0.4, 0.6, 0.9}, []int{0, 0, 1, 1})

	tree, metrics, err := BuildTree(ds, entropyParams(t, 1))
	require.NoError(t, err)
	require.Len(t, tree.TreeNodes, 3)
	require.Len(t, tree.LeafNodes, 2)

	root := tree.TreeNodes[0]
	assert.False(t, root.IsLeaf())
	assert.Equal(t, 0, root.AttributeIndex)
	assert.Equal(t, 0.4, root.Threshold)
	assert.Equal(t, 1, root.LeftIndex)
	assert.Equal(t, 2, root.RightIndex)

	assert.Equal(t, []float64{2, 0}, tree.Leaf(root.LeftIndex).ClassDistribution)
	assert.Equal(t, []float64{0, 2}, tree.Leaf(root.RightIndex).ClassDistribution)
	assert.Equal(t, BuildMetrics{Nodes: 3, Leaves: 2, Depth: 1, HistogramBins: 4, DispersionEvaluations: 3}, metrics)

	classification, err := tree.Classify(ds)
	require.NoError(t, err)
	assert.Equal(t, 1.0, classification.Accuracy)
	assert.Equal(t, []int{0, 0, 1, 1}, classification.Predicted)
}

func TestPartitionSplitsMass(t *testing.T) {
	d, err := NewSampleDistribution(0, 1, []Sample{{0, 0}, {0.3, 0.3}, {1, 1}})
	require.NoError(t, err)
	straddling := Instance{Values: []Distribution{d}, Class: 1, Weight: 2}
	leftOnly := Instance{Values: []Distribution{point(t, 0.2)}, Class: 0, Weight: 1}

	left, right, copies := partition([]Instance{straddling, leftOnly}, 0, 0.3)
	assert.Equal(t, 1, copies)
	require.Len(t, left, 2)
	require.Len(t, right, 1)

	assert.InDelta(t, 0.6, left[0].Weight, 1e-12)
	assert.InDelta(t, 1.4, right[0].Weight, 1e-12)
	assert.InDelta(t, 2.0, left[0].Weight+right[0].Weight, 1e-12)
	assert.Equal(t, leftOnly, left[1])

	leftValue := left[0].Values[0].(*SampleDistribution)
	rightValue := right[0].Values[0].(*SampleDistribution)
	assert.InDelta(t, 0.3, leftValue.WindowEnd(), 1e-12)
	assert.InDelta(t, 0.3, rightValue.WindowStart(), 1e-12)
	assert.InDelta(t, 1.0, leftValue.GetFrac(0, 1), 1e-12)
	assert.InDelta(t, 1.0, rightValue.GetFrac(0, 1), 1e-12)

	assert.Same(t, d, straddling.Values[0].(*SampleDistribution))
	assert.Equal(t, 2.0, straddling.Weight)
}

func TestBuildTreeConservesMass(t *testing.T) {
	ds := overlappingDataSet(t)

	for _, dispersion := range DispersionNames() {
		params := entropyParams(t, 0.5)
		search, err := NewSplitSearch("udt", dispersion, 2)
		require.NoError(t, err)
		params.Search = search

		tree, metrics, err := BuildTree(ds, params)
		require.NoError(t, err)
		assert.Greater(t, metrics.FractionalCopies, 0, dispersion)
		assert.Equal(t, len(tree.TreeNodes), metrics.Nodes)
		assert.Equal(t, len(tree.LeafNodes), metrics.Leaves)

		total := 0.0
		for _, leaf := range tree.LeafNodes {
			assert.InDelta(t, leaf.WeightedCount, floats.Sum(leaf.ClassDistribution), 1e-9)
			total += leaf.WeightedCount
		}
		assert.InDelta(t, ds.TotalWeight(), total, 1e-9, dispersion)
		assert.Equal(t, len(tree.LeafNodes)-1, len(tree.TreeNodes)-len(tree.LeafNodes))
	}
}

func TestBuildTreeSeparablePoints(t *testing.T) {
	rows := [][]float64{{0.1, 0.9}, {0.2, 0.1}, {0.3, 0.8}, {0.35, 0.3}, {0.5, 0.2}, {0.6, 0.7}, {0.7, 0.4}, {0.8, 0.6}}
	classes := []int{0, 1, 0, 1, 1, 0, 1, 0}
	ds := pointRows(t, rows, classes)

	tree, _, err := BuildTree(ds, entropyParams(t, 0))
	require.NoError(t, err)
	classification, err := tree.Classify(ds)
	require.NoError(t, err)
	assert.Equal(t, 1.0, classification.Accuracy)
	for _, leaf := range tree.LeafNodes {
		assert.Equal(t, 0.0, leaf.Error)
	}
}

func TestBuildTreeMaxDepth(t *testing.T) {
	ds := overlappingDataSet(t)
	params := entropyParams(t, 0)
	params.MaxDepth = 2

	tree, metrics, err := BuildTree(ds, params)
	require.NoError(t, err)
	assert.LessOrEqual(t, metrics.Depth, 2)
	for _, node := range tree.TreeNodes {
		if node.Depth == 2 {
			assert.True(t, node.IsLeaf())
		}
	}
}

func TestBuildTreeDataErrors(t *testing.T) {
	valid := pointDataSet(t, []float64{0.1, 0.9}, []int{0, 1})

	cases := map[string]DataSet{
		"empty":         {AttributeNames: valid.AttributeNames, ClassNames: valid.ClassNames},
		"no classes":    {AttributeNames: valid.AttributeNames, Instances: valid.Instances},
		"no attributes": {ClassNames: valid.ClassNames, Instances: valid.Instances},
		"bad class": {AttributeNames: valid.AttributeNames, ClassNames: valid.ClassNames,
			Instances: []Instance{{Values: valid.Instances[0].Values, Class: 2, Weight: 1}}},
		"zero weight": {AttributeNames: valid.AttributeNames, ClassNames: valid.ClassNames,
			Instances: []Instance{{Values: valid.Instances[0].Values, Class: 0, Weight: 0}}},
		"missing value": {AttributeNames: valid.AttributeNames, ClassNames: valid.ClassNames,
			Instances: []Instance{{Values: []Distribution{nil}, Class: 0, Weight: 1}}},
	}
	for name, ds := range cases {
		tree, _, err := BuildTree(ds, entropyParams(t, 1))
		assert.Nil(t, tree, name)
		var dataErr *DataError
		assert.True(t, errors.As(err, &dataErr), name)
	}

	_, _, err := BuildTree(valid, TreeParams{MinNodeWeight: 1, PurityThreshold: 1})
	assert.Error(t, err)
}

func TestTreeString(t *testing.T) {
	ds := pointDataSet(t, []float64{0.1, 0.4, 0.6, 0.9}, []int{0, 0, 1, 1})
	tree, _, err := BuildTree(ds, entropyParams(t, 1))
	require.NoError(t, err)

	text := tree.String()
	assert.Contains(t, text, "x ( <= 0.4 ) : A ( 2.0000, 0.0000 )")
	assert.Contains(t, text, "x ( > 0.4 ) : B ( 2.0000, 0.0000 )")

	assert.True(t, strings.HasSuffix(tree.GraphDescription(0), "x <= 0.40000"))
	assert.Contains(t, tree.GraphDescription(1), "A\nerr: 0.0000")
}
