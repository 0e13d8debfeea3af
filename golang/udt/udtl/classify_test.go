package udtl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func fourPointTree(t *testing.T) *DecisionTree {
	t.Helper()
	ds := pointDataSet(t, []float64{0.1, 0.4, 0.6, 0.9}, []int{0, 0, 1, 1})
	tree, _, err := BuildTree(ds, entropyParams(t, 1))
	require.NoError(t, err)
	return tree
}

func TestClassDistributionIntegratesOverValue(t *testing.T) {
	tree := fourPointTree(t)

	straddling := Instance{Values: []Distribution{uniform(t, 0, 1, 0.3, 0.5, 5)}, Class: 0, Weight: 1}
	distribution, err := tree.ClassDistribution(straddling)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, distribution, 1e-12)

	skewed := Instance{Values: []Distribution{uniform(t, 0, 1, 0.2, 1, 9)}, Class: 1, Weight: 1}
	distribution, err = tree.ClassDistribution(skewed)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.25, 0.75}, distribution, 1e-12)
	assert.InDelta(t, 1.0, floats.Sum(distribution), 1e-12)

	predicted, err := tree.Predict(skewed)
	require.NoError(t, err)
	assert.Equal(t, 1, predicted)
}

func TestClassifyWeightedAccuracy(t *testing.T) {
	tree := fourPointTree(t)

	ds := pointDataSet(t, []float64{0.2, 0.3, 0.8}, []int{0, 1, 1})
	ds.Instances[0].Weight = 2
	ds.Instances[1].Weight = 1
	ds.Instances[2].Weight = 3

	classification, err := tree.Classify(ds)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 1}, classification.Predicted)
	assert.Equal(t, 5.0, classification.WeightedCorrect)
	assert.Equal(t, 6.0, classification.TotalWeight)
	assert.InDelta(t, 5.0/6.0, classification.Accuracy, 1e-12)

	rows, cols := classification.Distributions.Dims()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, []float64{0, 1}, classification.Distributions.RawRowView(2))
}

func TestClassifyMismatch(t *testing.T) {
	tree := fourPointTree(t)

	_, err := tree.ClassDistribution(Instance{Values: []Distribution{point(t, 0.1), point(t, 0.2)}, Weight: 1})
	var dataErr *DataError
	assert.True(t, errors.As(err, &dataErr))

	ds := pointDataSet(t, []float64{0.2}, []int{0})
	ds.ClassNames = []string{"A", "B", "C"}
	_, err = tree.Classify(ds)
	assert.True(t, errors.As(err, &dataErr))
}
