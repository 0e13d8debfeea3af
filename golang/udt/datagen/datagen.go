//Package datagen turns exact point data into uncertain data: every value becomes a distribution
//around it whose width is a fraction of the attribute domain.
package datagen

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/tarstars/uncertain_decision_tree/golang/udt/dataio"
	"github.com/tarstars/uncertain_decision_tree/golang/udt/udtl"
	"gonum.org/v1/gonum/stat/distuv"
)

//NumStdev is the number of standard deviations covered by the width of a gaussian error.
const NumStdev = 4.0

//Generator creates uncertain values. It is not safe for concurrent use.
type Generator struct {
	Kind    string
	Samples int
	//Width is the size of the uncertain interval as a fraction of the domain size.
	Width float64

	rnd *rand.Rand
}

//NewGenerator creates a generator of the kind "gaussian" or "uniform".
func NewGenerator(kind string, samples int, width float64, seed int64) (*Generator, error) {
	kind = strings.ToLower(kind)
	if kind != "gaussian" && kind != "uniform" {
		return nil, fmt.Errorf("unknown error model %q, expected gaussian or uniform", kind)
	}
	if samples < 1 {
		return nil, fmt.Errorf("number of samples %d must be positive", samples)
	}
	if width < 0 {
		return nil, fmt.Errorf("negative width %g", width)
	}
	return &Generator{Kind: kind, Samples: samples, Width: width, rnd: rand.New(rand.NewSource(seed))}, nil
}

//offsets returns sorted offsets in units of the width with cumulative masses.
func (g *Generator) offsets() []udtl.Sample {
	result := make([]udtl.Sample, g.Samples)
	if g.Kind == "uniform" {
		for ind := range result {
			frac := float64(ind) / float64(g.Samples-1)
			result[ind] = udtl.Sample{Value: frac - 0.5, CDist: frac}
		}
		return result
	}

	lo, hi := distuv.UnitNormal.CDF(-NumStdev/2), distuv.UnitNormal.CDF(NumStdev/2)
	draws := make([]float64, g.Samples)
	for ind := range draws {
		draws[ind] = distuv.UnitNormal.Quantile(lo+g.rnd.Float64()*(hi-lo)) / NumStdev
	}
	sort.Float64s(draws)
	for ind, draw := range draws {
		result[ind] = udtl.Sample{Value: draw, CDist: float64(ind+1) / float64(g.Samples)}
	}
	return result
}

//Distribution creates an uncertain value around x inside the domain [absStart, absEnd].
func (g *Generator) Distribution(x, absStart, absEnd float64) (*udtl.SampleDistribution, error) {
	width := g.Width * (absEnd - absStart)
	if width == 0 || g.Samples == 1 {
		return udtl.NewPointDistribution(absStart, absEnd, x)
	}

	samples := make([]udtl.Sample, 0, g.Samples)
	for _, offset := range g.offsets() {
		value := x + offset.Value*width
		if len(samples) > 0 && value <= samples[len(samples)-1].Value {
			samples[len(samples)-1].CDist = offset.CDist
			continue
		}
		samples = append(samples, udtl.Sample{Value: value, CDist: offset.CDist})
	}

	lo, hi := absStart, absEnd
	if first := samples[0].Value; first < lo {
		lo = first
	}
	if last := samples[len(samples)-1].Value; last > hi {
		hi = last
	}
	wide, err := udtl.NewSampleDistribution(lo, hi, samples)
	if err != nil {
		return nil, err
	}

	cut := wide.CutCopy(absStart, absEnd).(*udtl.SampleDistribution)
	return udtl.NewSampleDistribution(absStart, absEnd, cut.Samples)
}

//DataSet converts point data into uncertain data.
func (g *Generator) DataSet(pd *dataio.PointData) (udtl.DataSet, error) {
	ds := udtl.DataSet{AttributeNames: pd.AttributeNames, ClassNames: pd.ClassNames}
	ds.Instances = make([]udtl.Instance, 0, len(pd.Rows))
	for ind, row := range pd.Rows {
		inst := udtl.Instance{Class: pd.Classes[ind], Weight: 1}
		for attr, value := range row {
			distribution, err := g.Distribution(value, pd.Domains[attr][0], pd.Domains[attr][1])
			if err != nil {
				return udtl.DataSet{}, fmt.Errorf("row %d attribute %s: %w", ind, pd.AttributeNames[attr], err)
			}
			inst.Values = append(inst.Values, distribution)
		}
		ds.Instances = append(ds.Instances, inst)
	}
	return ds, ds.Validate()
}
