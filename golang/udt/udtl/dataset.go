package udtl

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

//fracEpsilon is the smallest fraction of an instance that is still propagated to a branch.
const fracEpsilon = 1e-12

//Instance is one training or test record. Values holds one distribution per attribute.
//Weight starts at 1 and shrinks when the instance is split between branches.
type Instance struct {
	Values []Distribution
	Class  int
	Weight float64
}

//withValue returns a copy of the instance with a replaced attribute value and weight.
//Other distributions are shared, they are immutable.
func (inst Instance) withValue(attr int, value Distribution, weight float64) Instance {
	values := make([]Distribution, len(inst.Values))
	copy(values, inst.Values)
	values[attr] = value
	return Instance{Values: values, Class: inst.Class, Weight: weight}
}

//DataSet is a list of instances together with attribute and class names.
type DataSet struct {
	AttributeNames []string
	ClassNames     []string
	Instances      []Instance
}

func (ds DataSet) NoClasses() int {
	return len(ds.ClassNames)
}

func (ds DataSet) NoAttributes() int {
	return len(ds.AttributeNames)
}

//Validate checks that the data set can be used for induction.
func (ds DataSet) Validate() error {
	if ds.NoClasses() == 0 {
		return dataErrorf("no classes")
	}
	if ds.NoAttributes() == 0 {
		return dataErrorf("no attributes")
	}
	if len(ds.Instances) == 0 {
		return dataErrorf("empty instance set")
	}
	for ind, inst := range ds.Instances {
		if len(inst.Values) != ds.NoAttributes() {
			return dataErrorf("instance %d has %d attributes instead of %d", ind, len(inst.Values), ds.NoAttributes())
		}
		for attr, value := range inst.Values {
			if value == nil {
				return dataErrorf("instance %d attribute %d has no value", ind, attr)
			}
		}
		if inst.Class < 0 || inst.Class >= ds.NoClasses() {
			return dataErrorf("instance %d class %d is out of range", ind, inst.Class)
		}
		if inst.Weight < 0 || math.IsNaN(inst.Weight) || math.IsInf(inst.Weight, 0) {
			return dataErrorf("instance %d weight %g", ind, inst.Weight)
		}
	}
	if ds.TotalWeight() <= 0 {
		return dataErrorf("total weight is zero")
	}
	return nil
}

//TotalWeight sums weights of all instances.
func (ds DataSet) TotalWeight() float64 {
	total := 0.0
	for _, inst := range ds.Instances {
		total += inst.Weight
	}
	return total
}

//Subset creates a data set with selected instances. Names are shared.
func (ds DataSet) Subset(indices []int) DataSet {
	result := DataSet{AttributeNames: ds.AttributeNames, ClassNames: ds.ClassNames}
	result.Instances = make([]Instance, 0, len(indices))
	for _, ind := range indices {
		result.Instances = append(result.Instances, ds.Instances[ind])
	}
	return result
}

func classWeights(instances []Instance, noClasses int) []float64 {
	result := make([]float64, noClasses)
	for _, inst := range instances {
		result[inst.Class] += inst.Weight
	}
	return result
}

//partition splits instances by the attribute threshold. An instance that straddles the threshold
//goes to both sides with weights proportional to its mass on each side.
func partition(instances []Instance, attr int, threshold float64) (left, right []Instance, fractionalCopies int) {
	for _, inst := range instances {
		value := inst.Values[attr]
		start, end := value.AbsoluteStart(), value.AbsoluteEnd()
		rawLeft := value.GetFrac(start, threshold)
		fracLeft := rawLeft
		if fracLeft < fracEpsilon {
			fracLeft = 0
		} else if fracLeft > 1-fracEpsilon {
			fracLeft = 1
		}
		fracRight := 1 - fracLeft

		switch {
		case fracRight == 0:
			if rawLeft < 1 {
				inst = inst.withValue(attr, value.CutCopy(start, threshold), inst.Weight)
			}
			left = append(left, inst)
		case fracLeft == 0:
			if rawLeft > 0 {
				inst = inst.withValue(attr, value.CutCopy(threshold, end), inst.Weight)
			}
			right = append(right, inst)
		default:
			fractionalCopies++
			left = append(left, inst.withValue(attr, value.CutCopy(start, threshold), inst.Weight*fracLeft))
			right = append(right, inst.withValue(attr, value.CutCopy(threshold, end), inst.Weight*fracRight))
		}
	}
	return
}

//majority returns the first class with the largest weight and its fraction of the total.
func majority(weights []float64) (class int, fraction float64) {
	class = floats.MaxIdx(weights)
	total := floats.Sum(weights)
	if total <= 0 {
		return class, 0
	}
	return class, weights[class] / total
}
