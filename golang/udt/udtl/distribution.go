package udtl

import (
	"math"
	"sort"
)

//Distribution is the value of one uncertain attribute of one instance.
//Implementations are immutable: CutCopy returns a new object.
type Distribution interface {
	AbsoluteStart() float64
	AbsoluteEnd() float64
	//GetFrac returns the probability mass inside (start, end].
	GetFrac(start, end float64) float64
	//CutCopy returns the conditional distribution of the value restricted to (start, end].
	CutCopy(start, end float64) Distribution
	//Breakpoints returns the mass carried by every distinct value of the active window.
	Breakpoints() []Breakpoint
	Mean() float64
}

//Sample is one point of an empirical cumulative distribution function.
type Sample struct {
	Value float64
	CDist float64
}

//Breakpoint is an incremental probability mass located at Value.
type Breakpoint struct {
	Value float64
	Mass  float64
}

//SampleDistribution is a piecewise linear cumulative distribution defined by sorted samples.
//The mass Samples[0].CDist is located at the first sample, the rest is spread linearly
//between neighbouring samples. The active window is [Samples[0].Value, Samples[n-1].Value]
//and the last sample always carries the cumulative mass 1. The domain [AbsStart, AbsEnd]
//never changes when the distribution is cut.
type SampleDistribution struct {
	AbsStart, AbsEnd float64
	Samples          []Sample
}

//NewSampleDistribution validates samples and normalizes them to the total mass of 1.
func NewSampleDistribution(absStart, absEnd float64, samples []Sample) (*SampleDistribution, error) {
	if math.IsNaN(absStart) || math.IsNaN(absEnd) || absEnd <= absStart {
		return nil, dataErrorf("bad domain [%g, %g]", absStart, absEnd)
	}
	if len(samples) == 0 {
		return nil, dataErrorf("distribution without samples")
	}

	prevValue, prevMass := math.Inf(-1), 0.0
	for ind, sample := range samples {
		if sample.Value < absStart || sample.Value > absEnd || math.IsNaN(sample.Value) {
			return nil, dataErrorf("sample %d value %g is outside of [%g, %g]", ind, sample.Value, absStart, absEnd)
		}
		if sample.Value <= prevValue {
			return nil, dataErrorf("sample %d value %g is not increasing", ind, sample.Value)
		}
		if !(sample.CDist >= prevMass) {
			return nil, dataErrorf("sample %d cumulative mass %g is decreasing", ind, sample.CDist)
		}
		prevValue, prevMass = sample.Value, sample.CDist
	}
	if prevMass <= 0 || math.IsInf(prevMass, 1) {
		return nil, dataErrorf("distribution total mass %g", prevMass)
	}

	normalized := make([]Sample, len(samples))
	for ind, sample := range samples {
		normalized[ind] = Sample{Value: sample.Value, CDist: sample.CDist / prevMass}
	}
	normalized[len(normalized)-1].CDist = 1

	return &SampleDistribution{AbsStart: absStart, AbsEnd: absEnd, Samples: normalized}, nil
}

//NewPointDistribution creates a distribution without uncertainty.
func NewPointDistribution(absStart, absEnd, x float64) (*SampleDistribution, error) {
	return NewSampleDistribution(absStart, absEnd, []Sample{{Value: x, CDist: 1}})
}

func (d *SampleDistribution) AbsoluteStart() float64 { return d.AbsStart }

func (d *SampleDistribution) AbsoluteEnd() float64 { return d.AbsEnd }

//WindowStart returns the lowest value that still carries mass.
func (d *SampleDistribution) WindowStart() float64 { return d.Samples[0].Value }

//WindowEnd returns the highest value that still carries mass.
func (d *SampleDistribution) WindowEnd() float64 { return d.Samples[len(d.Samples)-1].Value }

//massBelow is the mass of (-inf, x]. Everything at or below AbsStart counts as zero so
//that an atom placed exactly at AbsStart belongs to the first interval.
func (d *SampleDistribution) massBelow(x float64) float64 {
	n := len(d.Samples)
	if x <= d.AbsStart || x < d.Samples[0].Value {
		return 0
	}
	if x >= d.Samples[n-1].Value {
		return 1
	}
	pos := sort.Search(n, func(i int) bool { return d.Samples[i].Value > x })
	lo, hi := d.Samples[pos-1], d.Samples[pos]
	return lo.CDist + (hi.CDist-lo.CDist)*(x-lo.Value)/(hi.Value-lo.Value)
}

//GetFrac measures the interval (start, end] after clamping it to the domain.
func (d *SampleDistribution) GetFrac(start, end float64) float64 {
	if start < d.AbsStart {
		start = d.AbsStart
	}
	if end > d.AbsEnd {
		end = d.AbsEnd
	}
	if end <= start {
		return 0
	}
	return clampUnit(d.massBelow(end) - d.massBelow(start))
}

//CutCopy truncates the distribution to (start, end] and renormalizes it.
//A range without mass yields a point distribution at the nearest window border.
func (d *SampleDistribution) CutCopy(start, end float64) Distribution {
	if start < d.AbsStart {
		start = d.AbsStart
	}
	mass := d.GetFrac(start, end)
	hi := math.Min(end, d.WindowEnd())
	if mass <= 0 {
		x := math.Min(math.Max(end, d.WindowStart()), d.WindowEnd())
		return &SampleDistribution{AbsStart: d.AbsStart, AbsEnd: d.AbsEnd, Samples: []Sample{{Value: x, CDist: 1}}}
	}

	atomIncluded := start <= d.AbsStart || start < d.WindowStart()
	base := d.massBelow(start)
	samples := make([]Sample, 0, len(d.Samples)+2)
	if !atomIncluded {
		samples = append(samples, Sample{Value: start, CDist: 0})
	}
	for _, sample := range d.Samples {
		if sample.Value <= start && !atomIncluded {
			continue
		}
		if sample.Value >= hi {
			break
		}
		samples = append(samples, Sample{Value: sample.Value, CDist: clampUnit((sample.CDist - base) / mass)})
	}
	samples = append(samples, Sample{Value: hi, CDist: 1})

	return &SampleDistribution{AbsStart: d.AbsStart, AbsEnd: d.AbsEnd, Samples: samples}
}

//Breakpoints skips samples that add no mass.
func (d *SampleDistribution) Breakpoints() []Breakpoint {
	result := make([]Breakpoint, 0, len(d.Samples))
	prev := 0.0
	for _, sample := range d.Samples {
		if mass := sample.CDist - prev; mass > 0 {
			result = append(result, Breakpoint{Value: sample.Value, Mass: mass})
		}
		prev = sample.CDist
	}
	return result
}

//Mean is the expected value over the breakpoint masses.
func (d *SampleDistribution) Mean() float64 {
	mean := 0.0
	for _, point := range d.Breakpoints() {
		mean += point.Value * point.Mass
	}
	return mean
}

func clampUnit(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
