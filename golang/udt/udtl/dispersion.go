package udtl

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
)

//DispersionMeasure is an impurity function over vectors of per-class weights.
//A measure may keep scratch state between Init calls, so one object serves one scan at a time.
type DispersionMeasure interface {
	Init(totalWeight float64, noClasses int)
	Dispersion(classWeights []float64) float64
	AverageDispersion(left, right []float64) float64
}

var dispersionMeasures = map[string]func() DispersionMeasure{
	"entropy":   func() DispersionMeasure { return &Entropy{} },
	"gini":      func() DispersionMeasure { return &Gini{} },
	"gainratio": func() DispersionMeasure { return &GainRatio{} },
}

//DispersionNames lists measures known to NewDispersionMeasure.
func DispersionNames() []string {
	names := make([]string, 0, len(dispersionMeasures))
	for name := range dispersionMeasures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

//LookupDispersion returns a constructor of the named measure.
func LookupDispersion(name string) (func() DispersionMeasure, error) {
	newMeasure, ok := dispersionMeasures[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown dispersion measure %q, expected one of %v", name, DispersionNames())
	}
	return newMeasure, nil
}

//NewDispersionMeasure creates the named measure.
func NewDispersionMeasure(name string) (DispersionMeasure, error) {
	newMeasure, err := LookupDispersion(name)
	if err != nil {
		return nil, err
	}
	return newMeasure(), nil
}

//weightedAverage combines dispersions of two partitions proportionally to their weights.
func weightedAverage(measure DispersionMeasure, left, right []float64) float64 {
	leftWeight, rightWeight := floats.Sum(left), floats.Sum(right)
	total := leftWeight + rightWeight
	if total <= 0 {
		return 0
	}
	return (leftWeight*measure.Dispersion(left) + rightWeight*measure.Dispersion(right)) / total
}

//Entropy is -sum(p * log2(p)) over normalized class fractions. It keeps no state.
type Entropy struct{}

//Init does nothing, every vector is normalized by its own sum.
func (e *Entropy) Init(totalWeight float64, noClasses int) {}

func (e *Entropy) Dispersion(classWeights []float64) float64 {
	return entropy(classWeights)
}

func (e *Entropy) AverageDispersion(left, right []float64) float64 {
	return weightedAverage(e, left, right)
}

func entropy(classWeights []float64) float64 {
	total := floats.Sum(classWeights)
	if total <= 0 {
		return 0
	}
	result := 0.0
	for _, weight := range classWeights {
		if weight > 0 {
			p := weight / total
			result -= p * math.Log2(p)
		}
	}
	return result
}

//Gini is 1 - sum(p^2) over normalized class fractions. It keeps no state.
type Gini struct{}

//Init does nothing, every vector is normalized by its own sum.
func (g *Gini) Init(totalWeight float64, noClasses int) {}

func (g *Gini) Dispersion(classWeights []float64) float64 {
	total := floats.Sum(classWeights)
	if total <= 0 {
		return 0
	}
	result := 1.0
	for _, weight := range classWeights {
		p := weight / total
		result -= p * p
	}
	return result
}

func (g *Gini) AverageDispersion(left, right []float64) float64 {
	return weightedAverage(g, left, right)
}

//GainRatio is the information gain of a split divided by its split information.
//AverageDispersion returns the negated ratio so that smaller is better like for the other measures.
//A split that leaves one side empty scores +Inf.
type GainRatio struct {
	parent []float64
}

//Init allocates the scratch vector of the parent class weights.
func (g *GainRatio) Init(totalWeight float64, noClasses int) {
	g.parent = make([]float64, noClasses)
}

//Dispersion of a single partition is its entropy.
func (g *GainRatio) Dispersion(classWeights []float64) float64 {
	return entropy(classWeights)
}

func (g *GainRatio) AverageDispersion(left, right []float64) float64 {
	leftWeight, rightWeight := floats.Sum(left), floats.Sum(right)
	total := leftWeight + rightWeight
	if leftWeight <= 0 || rightWeight <= 0 {
		return math.Inf(1)
	}
	if len(g.parent) != len(left) {
		g.parent = make([]float64, len(left))
	}
	floats.AddTo(g.parent, left, right)

	pl, pr := leftWeight/total, rightWeight/total
	splitInfo := -pl*math.Log2(pl) - pr*math.Log2(pr)
	gain := entropy(g.parent) - (pl*entropy(left) + pr*entropy(right))
	return -gain / splitInfo
}
