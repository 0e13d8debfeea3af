package udtl

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

//tieEpsilon is the improvement a candidate needs to replace the current best one.
const tieEpsilon = 1e-12

//SearchStats counts the work done by a split search.
type SearchStats struct {
	HistogramBins         int
	DispersionEvaluations int
}

func (s *SearchStats) add(other SearchStats) {
	s.HistogramBins += other.HistogramBins
	s.DispersionEvaluations += other.DispersionEvaluations
}

//SplitResult contains results of the split selection algorithm.
//Valid is false when no attribute has a usable threshold.
type SplitResult struct {
	AttributeIndex int
	Threshold      float64
	Dispersion     float64
	Valid          bool
	Stats          SearchStats
}

func noSplit() SplitResult {
	return SplitResult{AttributeIndex: -1, Dispersion: math.Inf(1)}
}

//SplitSearch selects the best attribute and threshold for a set of instances.
type SplitSearch interface {
	FindBestAttribute(instances []Instance, noClasses, noAttributes int) SplitResult
}

//HistogramSplitSearch scans merged per-attribute histograms.
//Mode "udt" uses every breakpoint of a distribution, mode "avg" uses only its mean.
//The zero value is a sequential "udt" search with entropy.
type HistogramSplitSearch struct {
	mode       string
	dispersion string
	threadsNum int

	newMeasure    func() DispersionMeasure
	contributions contributionsFunc
}

var splitSearchModes = map[string]contributionsFunc{
	"udt": breakpointContributions,
	"avg": meanContributions,
}

//NewSplitSearch creates a search by names of the mode and of the dispersion measure.
func NewSplitSearch(mode, dispersion string, threadsNum int) (*HistogramSplitSearch, error) {
	contributions, ok := splitSearchModes[strings.ToLower(mode)]
	if !ok {
		return nil, fmt.Errorf("unknown split search %q, expected udt or avg", mode)
	}
	newMeasure, err := LookupDispersion(dispersion)
	if err != nil {
		return nil, err
	}
	if threadsNum < 1 {
		threadsNum = 1
	}
	return &HistogramSplitSearch{
		mode:          strings.ToLower(mode),
		dispersion:    strings.ToLower(dispersion),
		threadsNum:    threadsNum,
		newMeasure:    newMeasure,
		contributions: contributions,
	}, nil
}

//Mode returns the name of the histogram mode.
func (search *HistogramSplitSearch) Mode() string {
	if search.mode == "" {
		return "udt"
	}
	return search.mode
}

//Dispersion returns the name of the dispersion measure.
func (search *HistogramSplitSearch) Dispersion() string {
	if search.dispersion == "" {
		return "entropy"
	}
	return search.dispersion
}

func (search *HistogramSplitSearch) measure() DispersionMeasure {
	if search.newMeasure == nil {
		return &Entropy{}
	}
	return search.newMeasure()
}

func (search *HistogramSplitSearch) binContributions(instances []Instance, attr int) []contribution {
	if search.contributions == nil {
		return breakpointContributions(instances, attr)
	}
	return search.contributions(instances, attr)
}

//FindBestAttribute scans all attributes, in parallel when more than one thread is set, and reduces
//the per-attribute results in attribute order so the lowest index wins ties.
func (search *HistogramSplitSearch) FindBestAttribute(instances []Instance, noClasses, noAttributes int) SplitResult {
	result := make([]SplitResult, noAttributes)

	if search.threadsNum <= 1 || noAttributes == 1 {
		for attr := 0; attr < noAttributes; attr++ {
			result[attr] = search.scanAttribute(instances, attr, noClasses)
		}
	} else {
		taskPool := NewPool(search.threadsNum)
		for attr := 0; attr < noAttributes; attr++ {
			bestSplitFunc := func(localAttr int) SplitResult {
				return search.scanAttribute(instances, localAttr, noClasses)
			}
			taskPool.AddTask(&TaskFindBestSplit{result, attr, bestSplitFunc})
		}
		taskPool.Close()
		taskPool.WaitAll()
	}

	best := noSplit()
	var stats SearchStats
	for _, currentSplit := range result {
		stats.add(currentSplit.Stats)
		if currentSplit.Valid && best.Dispersion-currentSplit.Dispersion > tieEpsilon {
			best = currentSplit
		}
	}
	best.Stats = stats
	return best
}

func (search *HistogramSplitSearch) scanAttribute(instances []Instance, attr, noClasses int) SplitResult {
	bins := mergeContributions(search.binContributions(instances, attr), noClasses)
	result := noSplit()
	result.Stats.HistogramBins = len(bins)
	if len(bins) <= 1 {
		return result
	}

	measure := search.measure()
	dispersion, binIndex, evaluations := scanBins(bins, measure, noClasses)
	result.Stats.DispersionEvaluations = evaluations
	if binIndex < 0 {
		return result
	}

	result.AttributeIndex = attr
	result.Threshold = bins[binIndex].Value
	result.Dispersion = dispersion
	result.Valid = true
	return result
}

//scanBins moves the split point through the first n-1 bins and returns the minimal average
//dispersion and the index of its bin, or -1 when no candidate is finite.
func scanBins(bins []HistogramBin, measure DispersionMeasure, noClasses int) (minDispersion float64, binIndex int, evaluations int) {
	left := make([]float64, noClasses)
	right := binsTotal(bins, noClasses)
	measure.Init(floats.Sum(right), noClasses)

	minDispersion, binIndex = math.Inf(1), -1
	for ind := 0; ind < len(bins)-1; ind++ {
		floats.Add(left, bins[ind].ClassWeights)
		floats.Sub(right, bins[ind].ClassWeights)
		for cls := range right {
			if right[cls] < 0 {
				right[cls] = 0
			}
		}

		current := measure.AverageDispersion(left, right)
		evaluations++
		if minDispersion-current > tieEpsilon {
			minDispersion = current
			binIndex = ind
		}
	}
	return
}
