package dataio

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/sbinet/npyio"
	"github.com/tarstars/uncertain_decision_tree/golang/udt/udtl"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"
)

//AttributeMeta describes one attribute. Domain is optional, [lo, hi] when present.
type AttributeMeta struct {
	Name   string    `yaml:"name"`
	Domain []float64 `yaml:"domain,omitempty"`
}

//Metadata describes columns of point data.
//For CSV files ClassColumn names the class column, "class" when empty.
type Metadata struct {
	ClassColumn string          `yaml:"class_column"`
	Classes     []string        `yaml:"classes"`
	Attributes  []AttributeMeta `yaml:"attributes"`
}

//ParseMetadata parses YAML metadata.
func ParseMetadata(data []byte) (Metadata, error) {
	var md Metadata
	if err := yaml.Unmarshal(data, &md); err != nil {
		return md, fmt.Errorf("parsing metadata: %w", err)
	}
	if len(md.Classes) == 0 {
		return md, &udtl.DataError{Reason: "metadata has no classes"}
	}
	if len(md.Attributes) == 0 {
		return md, &udtl.DataError{Reason: "metadata has no attributes"}
	}
	for _, attr := range md.Attributes {
		if len(attr.Domain) != 0 && (len(attr.Domain) != 2 || attr.Domain[1] <= attr.Domain[0]) {
			return md, &udtl.DataError{Reason: fmt.Sprintf("attribute %s has bad domain %v", attr.Name, attr.Domain)}
		}
	}
	if md.ClassColumn == "" {
		md.ClassColumn = "class"
	}
	return md, nil
}

//LoadMetadata reads a YAML metadata file.
func LoadMetadata(filename string) (Metadata, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Metadata{}, &udtl.PersistenceError{Op: "read", Path: filename, Err: err}
	}
	md, err := ParseMetadata(data)
	if err != nil {
		return md, fmt.Errorf("metadata %s: %w", filename, err)
	}
	return md, nil
}

//PointData is a table of exact attribute values.
type PointData struct {
	AttributeNames []string
	ClassNames     []string
	//Domains holds [lo, hi] of every attribute.
	Domains [][2]float64
	Rows    [][]float64
	Classes []int
}

func (pd *PointData) resolveDomains(md Metadata) {
	pd.Domains = make([][2]float64, len(pd.AttributeNames))
	for attr := range pd.AttributeNames {
		if domain := md.Attributes[attr].Domain; len(domain) == 2 {
			pd.Domains[attr] = [2]float64{domain[0], domain[1]}
			continue
		}
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, row := range pd.Rows {
			lo, hi = math.Min(lo, row[attr]), math.Max(hi, row[attr])
		}
		if !(hi > lo) {
			lo, hi = lo-0.5, lo+0.5
		}
		pd.Domains[attr] = [2]float64{lo, hi}
	}
}

func (pd *PointData) check() error {
	if len(pd.Rows) == 0 {
		return &udtl.DataError{Reason: "point data has no rows"}
	}
	for ind, row := range pd.Rows {
		for attr, value := range row {
			domain := pd.Domains[attr]
			if math.IsNaN(value) || value < domain[0] || value > domain[1] {
				return &udtl.DataError{Reason: fmt.Sprintf("row %d attribute %s value %g is outside of %v", ind, pd.AttributeNames[attr], value, domain)}
			}
		}
	}
	return nil
}

//DataSet converts points into a data set of point distributions.
func (pd *PointData) DataSet() (udtl.DataSet, error) {
	ds := udtl.DataSet{AttributeNames: pd.AttributeNames, ClassNames: pd.ClassNames}
	for ind, row := range pd.Rows {
		inst := udtl.Instance{Class: pd.Classes[ind], Weight: 1}
		for attr, value := range row {
			distribution, err := udtl.NewPointDistribution(pd.Domains[attr][0], pd.Domains[attr][1], value)
			if err != nil {
				return udtl.DataSet{}, fmt.Errorf("row %d: %w", ind, err)
			}
			inst.Values = append(inst.Values, distribution)
		}
		ds.Instances = append(ds.Instances, inst)
	}
	return ds, ds.Validate()
}

func newPointData(md Metadata) *PointData {
	pd := &PointData{ClassNames: md.Classes}
	for _, attr := range md.Attributes {
		pd.AttributeNames = append(pd.AttributeNames, attr.Name)
	}
	return pd
}

//ReadPointCSV reads a CSV stream whose header contains the attribute names and the class column.
//Columns not mentioned in the metadata are ignored.
func ReadPointCSV(reader io.Reader, md Metadata) (*PointData, error) {
	r := csv.NewReader(reader)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for ind, name := range header {
		columns[strings.TrimSpace(name)] = ind
	}
	classColumn, ok := columns[md.ClassColumn]
	if !ok {
		return nil, &udtl.DataError{Reason: fmt.Sprintf("header has no class column %q", md.ClassColumn)}
	}
	attrColumns := make([]int, len(md.Attributes))
	for attr, meta := range md.Attributes {
		if attrColumns[attr], ok = columns[meta.Name]; !ok {
			return nil, &udtl.DataError{Reason: fmt.Sprintf("header has no attribute column %q", meta.Name)}
		}
	}
	classIndex := make(map[string]int, len(md.Classes))
	for ind, name := range md.Classes {
		classIndex[name] = ind
	}

	pd := newPointData(md)
	for l := 2; ; l++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading line %d: %w", l, err)
		}
		class, ok := classIndex[strings.TrimSpace(record[classColumn])]
		if !ok {
			return nil, &udtl.DataError{Reason: fmt.Sprintf("line %d has unknown class %q", l, record[classColumn])}
		}
		row := make([]float64, len(attrColumns))
		for attr, column := range attrColumns {
			if row[attr], err = strconv.ParseFloat(strings.TrimSpace(record[column]), 64); err != nil {
				return nil, &udtl.DataError{Reason: fmt.Sprintf("line %d attribute %s: %v", l, md.Attributes[attr].Name, err)}
			}
		}
		pd.Rows = append(pd.Rows, row)
		pd.Classes = append(pd.Classes, class)
	}

	pd.resolveDomains(md)
	return pd, pd.check()
}

//ReadNpy reads the content of npy file
func ReadNpy(filename string) (*mat.Dense, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, &udtl.PersistenceError{Op: "open", Path: filename, Err: err}
	}
	defer f.Close()

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, &udtl.PersistenceError{Op: "read", Path: filename, Err: err}
	}

	denseMat := &mat.Dense{}
	if err := r.Read(denseMat); err != nil {
		return nil, &udtl.PersistenceError{Op: "read", Path: filename, Err: err}
	}
	return denseMat, nil
}

//PointDataFromMatrix takes attributes from the first columns of the matrix and the class index
//from the last one.
func PointDataFromMatrix(m mat.Matrix, md Metadata) (*PointData, error) {
	h, w := m.Dims()
	if w != len(md.Attributes)+1 {
		return nil, &udtl.DataError{Reason: fmt.Sprintf("matrix has %d columns, expected %d attributes and a class", w, len(md.Attributes))}
	}

	pd := newPointData(md)
	for p := 0; p < h; p++ {
		class := m.At(p, w-1)
		if class != math.Trunc(class) || class < 0 || int(class) >= len(md.Classes) {
			return nil, &udtl.DataError{Reason: fmt.Sprintf("row %d has bad class index %g", p, class)}
		}
		row := make([]float64, w-1)
		for q := range row {
			row[q] = m.At(p, q)
		}
		pd.Rows = append(pd.Rows, row)
		pd.Classes = append(pd.Classes, int(class))
	}

	pd.resolveDomains(md)
	return pd, pd.check()
}

//LoadPointData reads point data from a .csv or a .npy file.
func LoadPointData(filename string, md Metadata) (*PointData, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".npy") {
		m, err := ReadNpy(filename)
		if err != nil {
			return nil, err
		}
		return PointDataFromMatrix(m, md)
	}

	f, err := os.Open(filename)
	if err != nil {
		return nil, &udtl.PersistenceError{Op: "open", Path: filename, Err: err}
	}
	defer f.Close()
	pd, err := ReadPointCSV(f, md)
	if err != nil {
		return nil, fmt.Errorf("parsing CSV file %s: %w", filename, err)
	}
	return pd, nil
}
