package udtl

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

type classifyTask struct {
	nodeIndex int
	inst      Instance
	fraction  float64
}

//ClassDistribution propagates an uncertain instance through the tree. At every split the instance
//goes to both children with the fractions of its mass on each side, so the result is the class
//distribution integrated over the uncertain values. The result sums to 1.
func (tree *DecisionTree) ClassDistribution(inst Instance) ([]float64, error) {
	if len(tree.TreeNodes) == 0 {
		return nil, dataErrorf("empty tree")
	}
	if len(inst.Values) != len(tree.AttributeNames) {
		return nil, dataErrorf("instance has %d attributes, the tree expects %d", len(inst.Values), len(tree.AttributeNames))
	}

	result := make([]float64, len(tree.ClassNames))
	stack := []classifyTask{{nodeIndex: 0, inst: inst, fraction: 1}}
	for len(stack) > 0 {
		task := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := tree.TreeNodes[task.nodeIndex]
		if node.IsLeaf() {
			leaf := tree.LeafNodes[node.LeafIndex]
			if leaf.WeightedCount > 0 {
				floats.AddScaled(result, task.fraction/leaf.WeightedCount, leaf.ClassDistribution)
			}
			continue
		}

		value := task.inst.Values[node.AttributeIndex]
		if value == nil {
			return nil, dataErrorf("attribute %d has no value", node.AttributeIndex)
		}
		start, end := value.AbsoluteStart(), value.AbsoluteEnd()

		if fracRight := value.GetFrac(node.Threshold, end); fracRight >= fracEpsilon {
			rightInst := task.inst.withValue(node.AttributeIndex, value.CutCopy(node.Threshold, end), task.inst.Weight)
			stack = append(stack, classifyTask{node.RightIndex, rightInst, task.fraction * fracRight})
		}
		if fracLeft := value.GetFrac(start, node.Threshold); fracLeft >= fracEpsilon {
			leftInst := task.inst.withValue(node.AttributeIndex, value.CutCopy(start, node.Threshold), task.inst.Weight)
			stack = append(stack, classifyTask{node.LeftIndex, leftInst, task.fraction * fracLeft})
		}
	}
	return result, nil
}

//Predict returns the most probable class of the instance.
func (tree *DecisionTree) Predict(inst Instance) (int, error) {
	distribution, err := tree.ClassDistribution(inst)
	if err != nil {
		return -1, err
	}
	return floats.MaxIdx(distribution), nil
}

//Classification holds class distributions of a classified data set.
type Classification struct {
	//Distributions has one row per instance and one column per class.
	Distributions   *mat.Dense
	Predicted       []int
	WeightedCorrect float64
	TotalWeight     float64
	Accuracy        float64
}

//Classify computes class distributions of all instances of the data set and the weighted accuracy
//of the majority classes against the instance labels.
func (tree *DecisionTree) Classify(ds DataSet) (*Classification, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	if ds.NoClasses() != len(tree.ClassNames) {
		return nil, dataErrorf("data set has %d classes, the tree expects %d", ds.NoClasses(), len(tree.ClassNames))
	}

	result := &Classification{
		Distributions: mat.NewDense(len(ds.Instances), ds.NoClasses(), nil),
		Predicted:     make([]int, len(ds.Instances)),
	}
	for ind, inst := range ds.Instances {
		distribution, err := tree.ClassDistribution(inst)
		if err != nil {
			return nil, err
		}
		result.Distributions.SetRow(ind, distribution)
		result.Predicted[ind] = floats.MaxIdx(distribution)

		result.TotalWeight += inst.Weight
		if result.Predicted[ind] == inst.Class {
			result.WeightedCorrect += inst.Weight
		}
	}
	result.Accuracy = result.WeightedCorrect / result.TotalWeight
	return result, nil
}
