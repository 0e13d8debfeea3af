package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tarstars/uncertain_decision_tree/golang/udt/udtl"
)

func TestObserveBuild(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewWithRegistry(registry, registry)

	m.ObserveBuild(udtl.BuildMetrics{Nodes: 6, Leaves: 4, Depth: 3, HistogramBins: 40, DispersionEvaluations: 35, FractionalCopies: 7}, 2, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.TreesBuilt))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.TreeDepth))
	assert.Equal(t, 40.0, testutil.ToFloat64(m.HistogramBins))
	assert.Equal(t, 35.0, testutil.ToFloat64(m.DispersionEvaluations))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.FractionalCopies))
	assert.Equal(t, 1, testutil.CollectAndCount(m.TreeNodes))
}

func TestObserveEvaluation(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewWithRegistry(registry, registry)

	m.ObserveEvaluation("test", 10, 0.9)
	m.ObserveEvaluation("test", 5, 0.8)
	m.ObserveEvaluation("xval", 20, 0.75)

	assert.Equal(t, 15.0, testutil.ToFloat64(m.ClassifiedInstances.WithLabelValues("test")))
	assert.Equal(t, 0.8, testutil.ToFloat64(m.Accuracy.WithLabelValues("test")))
	assert.Equal(t, 0.75, testutil.ToFloat64(m.Accuracy.WithLabelValues("xval")))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.ErrorsTotal.Inc()

	filename := filepath.Join(t.TempDir(), "udt.prom")
	require.NoError(t, m.WriteTextfile(filename))

	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Contains(t, string(data), "udt_errors_total 1")
}

func TestWriteTextfileBadPath(t *testing.T) {
	err := New().WriteTextfile(filepath.Join(t.TempDir(), "missing", "udt.prom"))
	var persistenceErr *udtl.PersistenceError
	assert.ErrorAs(t, err, &persistenceErr)
}
