package udtl

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

//CrossValidation is the result of k-fold cross-validation.
type CrossValidation struct {
	//Accuracy is the mean of the fold accuracies.
	Accuracy       float64
	FoldAccuracies []float64
	//Confusion has the shape (folds, classes, classes) and holds weights of
	//instances by the actual class (second axis) and the predicted class (third axis).
	Confusion *tensor.Dense
	Metrics   BuildMetrics
}

//foldIndices returns indices of the held-out fold and of the training part.
//Fold f holds instances f, f+k, f+2k and so on.
func foldIndices(fold, n, k int) (test, train []int) {
	test = collect(NewRange(fold, n, k))
	train = make([]int, 0, n-len(test))
	for other := 0; other < k; other++ {
		if other != fold {
			train = append(train, collect(NewRange(other, n, k))...)
		}
	}
	sort.Ints(train)
	return
}

//CrossValidate trains k trees, each on k-1 folds, and classifies the held-out folds.
func CrossValidate(ds DataSet, k int, params TreeParams) (*CrossValidation, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	n := len(ds.Instances)
	if k < 2 || k > n {
		return nil, dataErrorf("can not split %d instances into %d folds", n, k)
	}

	noClasses := ds.NoClasses()
	result := &CrossValidation{
		FoldAccuracies: make([]float64, k),
		Confusion:      tensor.New(tensor.WithShape(k, noClasses, noClasses), tensor.Of(tensor.Float64)),
	}

	for fold := 0; fold < k; fold++ {
		testIndices, trainIndices := foldIndices(fold, n, k)
		testSet := ds.Subset(testIndices)

		tree, metrics, err := BuildTree(ds.Subset(trainIndices), params)
		if err != nil {
			return nil, fmt.Errorf("fold %d: %w", fold, err)
		}
		result.Metrics.Add(metrics)
		if event := log.Debug(); event.Enabled() {
			event.Int("fold", fold).Msg("tree:" + tree.String())
		}

		classification, err := tree.Classify(testSet)
		if err != nil {
			return nil, fmt.Errorf("fold %d: %w", fold, err)
		}
		result.FoldAccuracies[fold] = classification.Accuracy

		for ind, inst := range testSet.Instances {
			predicted := classification.Predicted[ind]
			current, err := result.Confusion.At(fold, inst.Class, predicted)
			if err != nil {
				return nil, err
			}
			if err := result.Confusion.SetAt(current.(float64)+inst.Weight, fold, inst.Class, predicted); err != nil {
				return nil, err
			}
		}

		log.Info().Int("fold", fold).Int("train", len(trainIndices)).Int("test", len(testIndices)).
			Int("nodes", metrics.Nodes).Float64("accuracy", classification.Accuracy).Msg("cross-validation fold")
	}

	result.Accuracy = floats.Sum(result.FoldAccuracies) / float64(k)
	return result, nil
}

//ConfusionMatrix sums the confusion weights over all folds.
func (cv *CrossValidation) ConfusionMatrix() (*mat.Dense, error) {
	shape := cv.Confusion.Shape()
	folds, noClasses := shape[0], shape[1]
	result := mat.NewDense(noClasses, noClasses, nil)
	for fold := 0; fold < folds; fold++ {
		for actual := 0; actual < noClasses; actual++ {
			for predicted := 0; predicted < noClasses; predicted++ {
				value, err := cv.Confusion.At(fold, actual, predicted)
				if err != nil {
					return nil, err
				}
				result.Set(actual, predicted, result.At(actual, predicted)+value.(float64))
			}
		}
	}
	return result, nil
}
