package report

import (
	"encoding/json"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/peekknuf/rarity/internal/output"
)

// Float is a score that survives JSON encoding when it is infinite.
type Float float64

// MarshalJSON writes finite values as numbers and the rest as strings.
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return json.Marshal(output.FormatFloat(v))
	}
	return json.Marshal(v)
}

// Distribution describes a set of scores. Infinite scores are counted but
// left out of every other statistic.
type Distribution struct {
	Count    int   `json:"count" yaml:"count"`
	Infinite int   `json:"infinite" yaml:"infinite"`
	Mean     Float `json:"mean" yaml:"mean"`
	Std      Float `json:"std" yaml:"std"`
	Min      Float `json:"min" yaml:"min"`
	Q25      Float `json:"q25" yaml:"q25"`
	Q50      Float `json:"q50" yaml:"q50"`
	Q75      Float `json:"q75" yaml:"q75"`
	Max      Float `json:"max" yaml:"max"`
}

// Describe summarizes scores with the sample standard deviation and
// linearly interpolated quartiles.
func Describe(scores []float64) Distribution {
	var d Distribution
	finite := make([]float64, 0, len(scores))
	for _, s := range scores {
		switch {
		case math.IsInf(s, 0):
			d.Infinite++
		case !math.IsNaN(s):
			finite = append(finite, s)
		}
	}

	d.Count = len(finite)
	if d.Count == 0 {
		return d
	}
	sort.Float64s(finite)

	d.Mean = Float(stat.Mean(finite, nil))
	if d.Count > 1 {
		d.Std = Float(stat.StdDev(finite, nil))
	}
	d.Min = Float(floats.Min(finite))
	d.Max = Float(floats.Max(finite))
	d.Q25 = Float(calculateQuantile(finite, 0.25))
	d.Q50 = Float(calculateQuantile(finite, 0.50))
	d.Q75 = Float(calculateQuantile(finite, 0.75))
	return d
}

// calculateQuantile interpolates between the closest ranks of sorted values.
func calculateQuantile(sortedVals []float64, quantile float64) float64 {
	if len(sortedVals) == 0 {
		return 0
	}
	if len(sortedVals) == 1 {
		return sortedVals[0]
	}

	index := quantile * float64(len(sortedVals)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))

	if lower == upper {
		return sortedVals[lower]
	}

	weight := index - float64(lower)
	return sortedVals[lower]*(1-weight) + sortedVals[upper]*weight
}
