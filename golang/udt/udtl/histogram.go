package udtl

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

//HistogramBin is the per-class weight located exactly at Value.
type HistogramBin struct {
	Value        float64
	ClassWeights []float64
}

type contribution struct {
	value  float64
	class  int
	weight float64
}

type contributionsFunc func(instances []Instance, attr int) []contribution

//breakpointContributions spreads every instance over the breakpoints of its distribution.
func breakpointContributions(instances []Instance, attr int) []contribution {
	result := make([]contribution, 0, len(instances))
	for _, inst := range instances {
		if inst.Weight <= 0 {
			continue
		}
		for _, point := range inst.Values[attr].Breakpoints() {
			result = append(result, contribution{point.Value, inst.Class, inst.Weight * point.Mass})
		}
	}
	return result
}

//meanContributions places the whole weight of an instance at its expected value.
func meanContributions(instances []Instance, attr int) []contribution {
	result := make([]contribution, 0, len(instances))
	for _, inst := range instances {
		if inst.Weight <= 0 {
			continue
		}
		result = append(result, contribution{inst.Values[attr].Mean(), inst.Class, inst.Weight})
	}
	return result
}

//mergeContributions sorts contributions by value and merges equal values into one bin.
func mergeContributions(contributions []contribution, noClasses int) []HistogramBin {
	sort.SliceStable(contributions, func(i, j int) bool {
		return contributions[i].value < contributions[j].value
	})

	bins := make([]HistogramBin, 0)
	for _, current := range contributions {
		if len(bins) == 0 || bins[len(bins)-1].Value != current.value {
			bins = append(bins, HistogramBin{Value: current.value, ClassWeights: make([]float64, noClasses)})
		}
		bins[len(bins)-1].ClassWeights[current.class] += current.weight
	}
	return bins
}

//BuildHistogram returns merged breakpoint bins of one attribute.
func BuildHistogram(instances []Instance, attr, noClasses int) []HistogramBin {
	return mergeContributions(breakpointContributions(instances, attr), noClasses)
}

func binsTotal(bins []HistogramBin, noClasses int) []float64 {
	total := make([]float64, noClasses)
	for _, bin := range bins {
		floats.Add(total, bin.ClassWeights)
	}
	return total
}
