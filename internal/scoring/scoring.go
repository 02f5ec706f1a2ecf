// Package scoring combines per-dimension sustainability scores into an overall score.
package scoring

import (
	"fmt"
	"math"
)

// Dimension is one of the fixed sustainability evaluation axes. The value is
// the key used in model output and API responses.
type Dimension string

const (
	MaterialsAndSourcing       Dimension = "materialsAndSourcing"
	ProductionAndManufacturing Dimension = "productionAndManufacturing"
	DistributionAndLogistics   Dimension = "distributionAndLogistics"
	ProductUse                 Dimension = "productUse"
	EndOfLifeManagement        Dimension = "endOfLifeManagement"
)

// Dimensions lists every dimension in canonical order.
var Dimensions = []Dimension{
	MaterialsAndSourcing,
	ProductionAndManufacturing,
	DistributionAndLogistics,
	ProductUse,
	EndOfLifeManagement,
}

// Score bounds, inclusive.
const (
	MinScore = 1.0
	MaxScore = 10.0
)

// Precision is the number of decimal places kept in an aggregate score.
const Precision = 2

var labels = map[Dimension]string{
	MaterialsAndSourcing:       "materials & sourcing",
	ProductionAndManufacturing: "production & manufacturing",
	DistributionAndLogistics:   "distribution & logistics",
	ProductUse:                 "product use",
	EndOfLifeManagement:        "end-of-life management",
}

// Label returns the human readable name of the dimension.
func (d Dimension) Label() string {
	if l, ok := labels[d]; ok {
		return l
	}
	return string(d)
}

// Valid reports whether d is one of the fixed dimensions.
func (d Dimension) Valid() bool {
	_, ok := labels[d]
	return ok
}

// ScoreError reports a missing, unknown or out-of-range dimension score.
type ScoreError struct {
	Dimension Dimension
	Message   string
}

func (e *ScoreError) Error() string {
	return fmt.Sprintf("invalid score for %s: %s", e.Dimension, e.Message)
}

// Aggregate returns the unweighted mean of the five dimension scores rounded
// to Precision decimal places. scores must hold exactly the fixed dimensions,
// each within [MinScore, MaxScore].
func Aggregate(scores map[Dimension]float64) (float64, error) {
	for d := range scores {
		if !d.Valid() {
			return 0, &ScoreError{Dimension: d, Message: "unknown dimension"}
		}
	}

	var sum float64
	for _, d := range Dimensions {
		s, ok := scores[d]
		if !ok {
			return 0, &ScoreError{Dimension: d, Message: "missing"}
		}
		if math.IsNaN(s) || s < MinScore || s > MaxScore {
			return 0, &ScoreError{Dimension: d, Message: fmt.Sprintf("%v is outside [%v, %v]", s, MinScore, MaxScore)}
		}
		sum += s
	}

	return Round(sum/float64(len(Dimensions)), Precision), nil
}

// Round rounds v half away from zero to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
