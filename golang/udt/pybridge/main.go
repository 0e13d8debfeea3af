// SPDX-License-Identifier: Apache-2.0

package main

/*
#cgo CFLAGS: -I.
#include <stdlib.h>
*/
import "C"

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/rs/zerolog"
	"github.com/tarstars/uncertain_decision_tree/golang/udt/datagen"
	"github.com/tarstars/uncertain_decision_tree/golang/udt/dataio"
	"github.com/tarstars/uncertain_decision_tree/golang/udt/udtl"
	"gonum.org/v1/gonum/mat"
)

var (
	handleMu   sync.Mutex
	nextHandle uint64 = 1
	trees             = make(map[uint64]*udtl.DecisionTree)

	lastErrorMu sync.Mutex
	lastError   string

	logSilenceOnce sync.Once
)

//uncertainty describes how point features passed from Python become distributions.
type uncertainty struct {
	errorModel string
	samples    int
	width      float64
	seed       int64
}

func setLastError(err error) {
	lastErrorMu.Lock()
	defer lastErrorMu.Unlock()
	if err != nil {
		lastError = err.Error()
	} else {
		lastError = ""
	}
}

func getLastError() string {
	lastErrorMu.Lock()
	defer lastErrorMu.Unlock()
	return lastError
}

func storeTree(tree *udtl.DecisionTree) uint64 {
	handleMu.Lock()
	defer handleMu.Unlock()
	handle := nextHandle
	trees[handle] = tree
	nextHandle++
	return handle
}

func fetchTree(handle uint64) (*udtl.DecisionTree, error) {
	handleMu.Lock()
	defer handleMu.Unlock()
	tree, ok := trees[handle]
	if !ok {
		return nil, errors.New("invalid tree handle")
	}
	return tree, nil
}

//export FreeModel
func FreeModel(handle C.ulonglong) {
	handleMu.Lock()
	defer handleMu.Unlock()
	delete(trees, uint64(handle))
}

func copyFloatSlice(ptr *C.double, length int) ([]float64, error) {
	if length < 0 {
		return nil, errors.New("negative length")
	}
	if length == 0 {
		return nil, nil
	}
	if ptr == nil {
		return nil, errors.New("null pointer for non-empty slice")
	}
	src := unsafe.Slice((*float64)(unsafe.Pointer(ptr)), length)
	dst := make([]float64, length)
	copy(dst, src)
	return dst, nil
}

func sliceFromPtr(ptr *C.double, length int) ([]float64, error) {
	if length < 0 {
		return nil, errors.New("negative length")
	}
	if length == 0 {
		return nil, nil
	}
	if ptr == nil {
		return nil, errors.New("null pointer for non-empty slice")
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(ptr)), length), nil
}

//buildPoints joins the feature matrix and the class column into one matrix
//in the layout read by dataio.PointDataFromMatrix.
func buildPoints(featuresPtr *C.double, rows, cols C.int, labelsPtr *C.double) (*mat.Dense, error) {
	r, c := int(rows), int(cols)
	if r <= 0 || c <= 0 {
		return nil, errors.New("invalid matrix dimensions")
	}
	features, err := copyFloatSlice(featuresPtr, r*c)
	if err != nil {
		return nil, err
	}
	labels, err := copyFloatSlice(labelsPtr, r)
	if err != nil {
		return nil, err
	}

	points := mat.NewDense(r, c+1, nil)
	for p := 0; p < r; p++ {
		points.SetRow(p, append(features[p*c:(p+1)*c:(p+1)*c], labels[p]))
	}
	return points, nil
}

func metadata(cols, classes int) dataio.Metadata {
	md := dataio.Metadata{}
	for attr := 0; attr < cols; attr++ {
		md.Attributes = append(md.Attributes, dataio.AttributeMeta{Name: fmt.Sprintf("f_%d", attr)})
	}
	for class := 0; class < classes; class++ {
		md.Classes = append(md.Classes, fmt.Sprintf("%d", class))
	}
	return md
}

//buildDataSet converts point features into uncertain instances. Domains are taken from the data.
func buildDataSet(featuresPtr *C.double, rows, cols C.int, labelsPtr *C.double, classes C.int, u uncertainty) (udtl.DataSet, error) {
	if classes <= 0 {
		return udtl.DataSet{}, errors.New("number of classes must be positive")
	}
	points, err := buildPoints(featuresPtr, rows, cols, labelsPtr)
	if err != nil {
		return udtl.DataSet{}, err
	}
	pd, err := dataio.PointDataFromMatrix(points, metadata(int(cols), int(classes)))
	if err != nil {
		return udtl.DataSet{}, err
	}
	generator, err := datagen.NewGenerator(u.errorModel, u.samples, u.width, u.seed)
	if err != nil {
		return udtl.DataSet{}, err
	}
	return generator.DataSet(pd)
}

func buildParams(minNodeWeight, purity C.double, maxDepth C.int, dispersion *C.char, threadsNum C.int) (udtl.TreeParams, error) {
	name := "entropy"
	if dispersion != nil {
		if goName := C.GoString(dispersion); goName != "" {
			name = goName
		}
	}
	search, err := udtl.NewSplitSearch("udt", name, int(threadsNum))
	if err != nil {
		return udtl.TreeParams{}, err
	}
	return udtl.TreeParams{
		MinNodeWeight:   float64(minNodeWeight),
		PurityThreshold: float64(purity),
		MaxDepth:        int(maxDepth),
		Search:          search,
	}, nil
}

func buildUncertainty(errorModel *C.char, samples C.int, width C.double, seed C.longlong) uncertainty {
	u := uncertainty{errorModel: "gaussian", samples: int(samples), width: float64(width), seed: int64(seed)}
	if errorModel != nil {
		if model := C.GoString(errorModel); model != "" {
			u.errorModel = model
		}
	}
	return u
}

//export TrainModel
func TrainModel(
	featuresPtr *C.double,
	rows C.int,
	cols C.int,
	labelsPtr *C.double,
	classes C.int,
	errorModel *C.char,
	samples C.int,
	width C.double,
	seed C.longlong,
	minNodeWeight C.double,
	purity C.double,
	maxDepth C.int,
	dispersion *C.char,
	threadsNum C.int,
) C.ulonglong {
	setLastError(nil)
	logSilenceOnce.Do(func() {
		zerolog.SetGlobalLevel(zerolog.Disabled)
	})

	ds, err := buildDataSet(featuresPtr, rows, cols, labelsPtr, classes, buildUncertainty(errorModel, samples, width, seed))
	if err != nil {
		setLastError(err)
		return 0
	}
	params, err := buildParams(minNodeWeight, purity, maxDepth, dispersion, threadsNum)
	if err != nil {
		setLastError(err)
		return 0
	}

	tree, _, err := udtl.BuildTree(ds, params)
	if err != nil {
		setLastError(err)
		return 0
	}
	return C.ulonglong(storeTree(tree))
}

//export Predict
func Predict(
	handle C.ulonglong,
	featuresPtr *C.double,
	rows C.int,
	cols C.int,
	errorModel *C.char,
	samples C.int,
	width C.double,
	seed C.longlong,
	outputPtr *C.double,
) C.int {
	setLastError(nil)
	tree, err := fetchTree(uint64(handle))
	if err != nil {
		setLastError(err)
		return 1
	}

	// labels are unknown, every instance gets class 0 and the accuracy is ignored
	labels := make([]float64, int(rows))
	var labelsPtr *C.double
	if len(labels) > 0 {
		labelsPtr = (*C.double)(unsafe.Pointer(&labels[0]))
	}
	ds, err := buildDataSet(featuresPtr, rows, cols, labelsPtr, C.int(len(tree.ClassNames)), buildUncertainty(errorModel, samples, width, seed))
	if err != nil {
		setLastError(err)
		return 2
	}
	ds.AttributeNames = tree.AttributeNames

	classification, err := tree.Classify(ds)
	if err != nil {
		setLastError(err)
		return 3
	}

	outSlice, err := sliceFromPtr(outputPtr, int(rows)*len(tree.ClassNames))
	if err != nil {
		setLastError(err)
		return 4
	}
	copy(outSlice, classification.Distributions.RawMatrix().Data)
	return 0
}

//export CrossValidate
func CrossValidate(
	featuresPtr *C.double,
	rows C.int,
	cols C.int,
	labelsPtr *C.double,
	classes C.int,
	errorModel *C.char,
	samples C.int,
	width C.double,
	seed C.longlong,
	folds C.int,
	minNodeWeight C.double,
	purity C.double,
	maxDepth C.int,
	dispersion *C.char,
	threadsNum C.int,
	accuracyPtr *C.double,
) C.int {
	setLastError(nil)
	logSilenceOnce.Do(func() {
		zerolog.SetGlobalLevel(zerolog.Disabled)
	})

	ds, err := buildDataSet(featuresPtr, rows, cols, labelsPtr, classes, buildUncertainty(errorModel, samples, width, seed))
	if err != nil {
		setLastError(err)
		return 1
	}
	params, err := buildParams(minNodeWeight, purity, maxDepth, dispersion, threadsNum)
	if err != nil {
		setLastError(err)
		return 2
	}
	cv, err := udtl.CrossValidate(ds, int(folds), params)
	if err != nil {
		setLastError(err)
		return 3
	}
	if accuracyPtr == nil {
		setLastError(errors.New("null accuracy pointer"))
		return 4
	}
	*accuracyPtr = C.double(cv.Accuracy)
	return 0
}

//export SaveModel
func SaveModel(handle C.ulonglong, path *C.char) C.int {
	setLastError(nil)
	tree, err := fetchTree(uint64(handle))
	if err != nil {
		setLastError(err)
		return 1
	}
	if err := udtl.SaveTree(tree, C.GoString(path)); err != nil {
		setLastError(err)
		return 2
	}
	return 0
}

//export RenderTree
func RenderTree(handle C.ulonglong, figureType, filename *C.char) C.int {
	setLastError(nil)
	tree, err := fetchTree(uint64(handle))
	if err != nil {
		setLastError(err)
		return 1
	}
	goFigureType := C.GoString(figureType)
	if goFigureType == "" {
		goFigureType = "svg"
	}
	if err := udtl.RenderTree(tree, goFigureType, C.GoString(filename)); err != nil {
		setLastError(err)
		return 2
	}
	return 0
}

//export LoadModel
func LoadModel(path *C.char) C.ulonglong {
	setLastError(nil)
	tree, err := udtl.LoadTree(C.GoString(path))
	if err != nil {
		setLastError(err)
		return 0
	}
	return C.ulonglong(storeTree(tree))
}

//export GetLastError
func GetLastError() *C.char {
	errStr := getLastError()
	if errStr == "" {
		return nil
	}
	return C.CString(errStr)
}

//export FreeCString
func FreeCString(str *C.char) {
	if str != nil {
		C.free(unsafe.Pointer(str))
	}
}

func main() {}
