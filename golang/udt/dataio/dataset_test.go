package dataio

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tarstars/uncertain_decision_tree/golang/udt/udtl"
)

const twoInstances = `{
 "attributes": ["x"],
 "classes": ["A", "B"],
 "instances": [
  {"class": "A", "values": [{"abs_start": 0, "abs_end": 1, "samples": [[0.1, 1]]}]},
  {"class": "B", "weight": 0.5, "values": [{"abs_start": 0, "abs_end": 1, "samples": [[0.5, 0], [0.7, 2], [0.9, 4]]}]}
 ]
}`

func TestDecodeDataSet(t *testing.T) {
	ds, err := DecodeDataSet(strings.NewReader(twoInstances))
	require.NoError(t, err)
	require.Len(t, ds.Instances, 2)

	assert.Equal(t, 1.0, ds.Instances[0].Weight)
	assert.Equal(t, 0.5, ds.Instances[1].Weight)
	assert.Equal(t, 1, ds.Instances[1].Class)

	value := ds.Instances[1].Values[0].(*udtl.SampleDistribution)
	assert.Equal(t, []udtl.Sample{{Value: 0.5, CDist: 0}, {Value: 0.7, CDist: 0.5}, {Value: 0.9, CDist: 1}}, value.Samples)
}

func TestEncodeDecodeDataSet(t *testing.T) {
	ds, err := DecodeDataSet(strings.NewReader(twoInstances))
	require.NoError(t, err)

	filename := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, SaveDataSet(ds, filename))
	loaded, err := LoadDataSet(filename)
	require.NoError(t, err)
	assert.Equal(t, ds, loaded)
}

func TestDecodeDataSetErrors(t *testing.T) {
	var dataErr *udtl.DataError

	_, err := DecodeDataSet(strings.NewReader(strings.Replace(twoInstances, `"class": "B"`, `"class": "C"`, 1)))
	assert.True(t, errors.As(err, &dataErr))

	_, err = DecodeDataSet(strings.NewReader(strings.Replace(twoInstances, `[0.7, 2]`, `[0.95, 2]`, 1)))
	assert.True(t, errors.As(err, &dataErr))

	_, err = DecodeDataSet(strings.NewReader(`{"attributes": ["x"], "classes": ["A"], "instances": []}`))
	assert.True(t, errors.As(err, &dataErr))

	_, err = DecodeDataSet(strings.NewReader(`{"attributes": `))
	assert.Error(t, err)

	_, err = LoadDataSet(filepath.Join(t.TempDir(), "missing.json"))
	var persistenceErr *udtl.PersistenceError
	assert.True(t, errors.As(err, &persistenceErr))
}

type otherDistribution struct {
	udtl.Distribution
}

func TestEncodeRejectsForeignDistribution(t *testing.T) {
	ds := udtl.DataSet{
		AttributeNames: []string{"x"},
		ClassNames:     []string{"A"},
		Instances:      []udtl.Instance{{Values: []udtl.Distribution{otherDistribution{}}, Weight: 1}},
	}
	assert.Error(t, EncodeDataSet(&bytes.Buffer{}, ds))
}
