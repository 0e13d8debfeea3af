package udtl

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	os.Exit(m.Run())
}

func point(t *testing.T, x float64) Distribution {
	t.Helper()
	d, err := NewPointDistribution(0, 1, x)
	require.NoError(t, err)
	return d
}

//uniform creates n evenly spaced samples with linear cumulative mass on [lo, hi].
func uniform(t *testing.T, absStart, absEnd, lo, hi float64, n int) *SampleDistribution {
	t.Helper()
	samples := make([]Sample, n)
	for ind := 0; ind < n; ind++ {
		frac := float64(ind) / float64(n-1)
		samples[ind] = Sample{Value: lo + frac*(hi-lo), CDist: frac}
	}
	d, err := NewSampleDistribution(absStart, absEnd, samples)
	require.NoError(t, err)
	return d
}

//pointDataSet builds a one attribute data set with classes named A, B, ...
func pointDataSet(t *testing.T, values []float64, classes []int) DataSet {
	t.Helper()
	rows := make([][]float64, len(values))
	for ind, value := range values {
		rows[ind] = []float64{value}
	}
	return pointRows(t, rows, classes)
}

func pointRows(t *testing.T, rows [][]float64, classes []int) DataSet {
	t.Helper()
	ds := DataSet{ClassNames: []string{"A", "B"}}
	for attr := range rows[0] {
		ds.AttributeNames = append(ds.AttributeNames, string(rune('x'+attr)))
	}
	for ind, row := range rows {
		inst := Instance{Class: classes[ind], Weight: 1}
		for _, value := range row {
			inst.Values = append(inst.Values, point(t, value))
		}
		ds.Instances = append(ds.Instances, inst)
	}
	return ds
}

//overlappingDataSet places ten uncertain instances of width 0.3 on [0, 1], five of each class.
func overlappingDataSet(t *testing.T) DataSet {
	t.Helper()
	ds := DataSet{AttributeNames: []string{"x"}, ClassNames: []string{"A", "B"}}
	for ind := 0; ind < 10; ind++ {
		center := 0.05 + 0.1*float64(ind)
		class := 0
		if ind >= 5 {
			class = 1
		}
		if ind == 4 || ind == 6 {
			class = 1 - class
		}
		ds.Instances = append(ds.Instances, Instance{
			Values: []Distribution{uniform(t, -0.2, 1.2, center-0.15, center+0.15, 7)},
			Class:  class,
			Weight: 1,
		})
	}
	return ds
}

func entropyParams(t *testing.T, minNodeWeight float64) TreeParams {
	t.Helper()
	search, err := NewSplitSearch("udt", "entropy", 1)
	require.NoError(t, err)
	return TreeParams{MinNodeWeight: minNodeWeight, PurityThreshold: 1, Search: search}
}
