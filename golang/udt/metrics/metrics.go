//Package metrics exposes the work of tree induction and evaluation as prometheus metrics.
//The numbers come from udtl.BuildMetrics values returned by the library, the library itself
//keeps no global counters.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/tarstars/uncertain_decision_tree/golang/udt/udtl"
)

//Metrics holds collectors of one run of the tool.
type Metrics struct {
	TreesBuilt            prometheus.Counter
	TreeNodes             prometheus.Histogram
	TreeDepth             prometheus.Gauge
	HistogramBins         prometheus.Counter
	DispersionEvaluations prometheus.Counter
	FractionalCopies      prometheus.Counter
	BuildDuration         prometheus.Histogram

	ClassifiedInstances *prometheus.CounterVec
	Accuracy            *prometheus.GaugeVec
	ErrorsTotal         prometheus.Counter

	gatherer prometheus.Gatherer
}

//New registers metrics in a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	return NewWithRegistry(registry, registry)
}

//NewWithRegistry registers metrics with the given registerer. The gatherer is used by WriteTextfile.
func NewWithRegistry(registerer prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		TreesBuilt: factory.NewCounter(prometheus.CounterOpts{
			Name: "udt_trees_built_total",
			Help: "Total number of induced trees",
		}),
		TreeNodes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "udt_tree_nodes",
			Help:    "Number of nodes of induced trees",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		TreeDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "udt_tree_depth",
			Help: "Depth of the last induced tree",
		}),
		HistogramBins: factory.NewCounter(prometheus.CounterOpts{
			Name: "udt_histogram_bins_total",
			Help: "Total number of merged histogram bins scanned by split search",
		}),
		DispersionEvaluations: factory.NewCounter(prometheus.CounterOpts{
			Name: "udt_dispersion_evaluations_total",
			Help: "Total number of evaluated split candidates",
		}),
		FractionalCopies: factory.NewCounter(prometheus.CounterOpts{
			Name: "udt_fractional_copies_total",
			Help: "Total number of instances split between both branches of a node",
		}),
		BuildDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "udt_build_duration_seconds",
			Help:    "Duration of tree induction in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		ClassifiedInstances: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "udt_classified_instances_total",
			Help: "Total number of classified instances",
		}, []string{"mode"}),
		Accuracy: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "udt_accuracy",
			Help: "Weighted accuracy of the last evaluation",
		}, []string{"mode"}),
		ErrorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "udt_errors_total",
			Help: "Total number of failed commands",
		}),
		gatherer: gatherer,
	}
}

//ObserveBuild records the metrics of one induction. Metrics summed over several trees,
//for example by cross-validation, are recorded as they are, with trees counting the builds.
func (m *Metrics) ObserveBuild(build udtl.BuildMetrics, trees int, duration time.Duration) {
	m.TreesBuilt.Add(float64(trees))
	if trees > 0 {
		m.TreeNodes.Observe(float64(build.Nodes) / float64(trees))
	}
	m.TreeDepth.Set(float64(build.Depth))
	m.HistogramBins.Add(float64(build.HistogramBins))
	m.DispersionEvaluations.Add(float64(build.DispersionEvaluations))
	m.FractionalCopies.Add(float64(build.FractionalCopies))
	m.BuildDuration.Observe(duration.Seconds())
}

//ObserveEvaluation records the accuracy of a test or a cross-validation.
func (m *Metrics) ObserveEvaluation(mode string, instances int, accuracy float64) {
	m.ClassifiedInstances.WithLabelValues(mode).Add(float64(instances))
	m.Accuracy.WithLabelValues(mode).Set(accuracy)
}

//WriteTextfile stores all gathered metrics in the text exposition format,
//suitable for the node exporter textfile collector.
func (m *Metrics) WriteTextfile(filename string) error {
	if err := prometheus.WriteToTextfile(filename, m.gatherer); err != nil {
		return &udtl.PersistenceError{Op: "write metrics", Path: filename, Err: err}
	}
	return nil
}
