//Package dataio reads and writes data sets of uncertain instances and point data they are
//generated from.
package dataio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/tarstars/uncertain_decision_tree/golang/udt/udtl"
)

type jsonDistribution struct {
	AbsStart float64      `json:"abs_start"`
	AbsEnd   float64      `json:"abs_end"`
	Samples  [][2]float64 `json:"samples"`
}

type jsonInstance struct {
	Class  string             `json:"class"`
	Weight *float64           `json:"weight,omitempty"`
	Values []jsonDistribution `json:"values"`
}

type jsonDataSet struct {
	Attributes []string       `json:"attributes"`
	Classes    []string       `json:"classes"`
	Instances  []jsonInstance `json:"instances"`
}

//DecodeDataSet reads a JSON data set. Instances without weight get the weight 1.
func DecodeDataSet(r io.Reader) (udtl.DataSet, error) {
	var raw jsonDataSet
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return udtl.DataSet{}, fmt.Errorf("decoding data set: %w", err)
	}

	classIndex := make(map[string]int, len(raw.Classes))
	for ind, name := range raw.Classes {
		classIndex[name] = ind
	}

	ds := udtl.DataSet{AttributeNames: raw.Attributes, ClassNames: raw.Classes}
	ds.Instances = make([]udtl.Instance, 0, len(raw.Instances))
	for ind, rawInstance := range raw.Instances {
		class, ok := classIndex[rawInstance.Class]
		if !ok {
			return udtl.DataSet{}, &udtl.DataError{Reason: fmt.Sprintf("instance %d has unknown class %q", ind, rawInstance.Class)}
		}
		inst := udtl.Instance{Class: class, Weight: 1}
		if rawInstance.Weight != nil {
			inst.Weight = *rawInstance.Weight
		}
		for attr, rawValue := range rawInstance.Values {
			samples := make([]udtl.Sample, len(rawValue.Samples))
			for pos, pair := range rawValue.Samples {
				samples[pos] = udtl.Sample{Value: pair[0], CDist: pair[1]}
			}
			value, err := udtl.NewSampleDistribution(rawValue.AbsStart, rawValue.AbsEnd, samples)
			if err != nil {
				return udtl.DataSet{}, fmt.Errorf("instance %d attribute %d: %w", ind, attr, err)
			}
			inst.Values = append(inst.Values, value)
		}
		ds.Instances = append(ds.Instances, inst)
	}

	return ds, ds.Validate()
}

//EncodeDataSet writes a data set in the format read by DecodeDataSet.
func EncodeDataSet(w io.Writer, ds udtl.DataSet) error {
	raw := jsonDataSet{Attributes: ds.AttributeNames, Classes: ds.ClassNames}
	raw.Instances = make([]jsonInstance, 0, len(ds.Instances))
	for ind, inst := range ds.Instances {
		if inst.Class < 0 || inst.Class >= len(ds.ClassNames) {
			return &udtl.DataError{Reason: fmt.Sprintf("instance %d class %d is out of range", ind, inst.Class)}
		}
		weight := inst.Weight
		rawInstance := jsonInstance{Class: ds.ClassNames[inst.Class], Weight: &weight}
		for attr, value := range inst.Values {
			distribution, ok := value.(*udtl.SampleDistribution)
			if !ok {
				return fmt.Errorf("instance %d attribute %d: can not encode %T", ind, attr, value)
			}
			rawValue := jsonDistribution{AbsStart: distribution.AbsStart, AbsEnd: distribution.AbsEnd}
			rawValue.Samples = make([][2]float64, len(distribution.Samples))
			for pos, sample := range distribution.Samples {
				rawValue.Samples[pos] = [2]float64{sample.Value, sample.CDist}
			}
			rawInstance.Values = append(rawInstance.Values, rawValue)
		}
		raw.Instances = append(raw.Instances, rawInstance)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", " ")
	return encoder.Encode(raw)
}

//LoadDataSet reads a JSON data set file.
func LoadDataSet(filename string) (udtl.DataSet, error) {
	f, err := os.Open(filename)
	if err != nil {
		return udtl.DataSet{}, &udtl.PersistenceError{Op: "open", Path: filename, Err: err}
	}
	defer f.Close()

	ds, err := DecodeDataSet(f)
	if err != nil {
		return udtl.DataSet{}, fmt.Errorf("loading %s: %w", filename, err)
	}
	return ds, nil
}

//SaveDataSet writes a JSON data set file.
func SaveDataSet(ds udtl.DataSet, filename string) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return &udtl.PersistenceError{Op: "create", Path: filename, Err: err}
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = &udtl.PersistenceError{Op: "close", Path: filename, Err: closeErr}
		}
	}()

	if err := EncodeDataSet(f, ds); err != nil {
		return fmt.Errorf("saving %s: %w", filename, err)
	}
	return nil
}
