package udtl

//BuildMetrics describes the work done while a tree was induced.
type BuildMetrics struct {
	Nodes                 int
	Leaves                int
	Depth                 int
	HistogramBins         int
	DispersionEvaluations int
	FractionalCopies      int
}

//Add accumulates metrics of another build. Depth keeps the maximum.
func (m *BuildMetrics) Add(other BuildMetrics) {
	m.Nodes += other.Nodes
	m.Leaves += other.Leaves
	if other.Depth > m.Depth {
		m.Depth = other.Depth
	}
	m.HistogramBins += other.HistogramBins
	m.DispersionEvaluations += other.DispersionEvaluations
	m.FractionalCopies += other.FractionalCopies
}

func (m *BuildMetrics) addSearch(stats SearchStats) {
	m.HistogramBins += stats.HistogramBins
	m.DispersionEvaluations += stats.DispersionEvaluations
}
