package parsing

import (
	"fmt"

	"github.com/jonathan/sustainability-evaluator/internal/llm"
	"github.com/jonathan/sustainability-evaluator/internal/schemas"
	"github.com/jonathan/sustainability-evaluator/internal/scoring"
	"github.com/jonathan/sustainability-evaluator/internal/types"
)

// MaxAlternatives is the number of alternative products kept, in model order.
const MaxAlternatives = 3

var citedClaimFields = []FieldSpec{
	{Name: "text", Kind: KindString, Required: true, NonEmpty: true},
	{Name: "citationUrl", Kind: KindString, Required: true, NonEmpty: true},
	{Name: "citationNumber", Kind: KindNumber, Required: true},
}

// AssessmentSpec checks, in order: criticisms, alternatives, dimension scores
// and recommendations. Within an item the claim text comes before the citation
// URL, which comes before the citation number.
var AssessmentSpec = SchemaSpec{
	Name: schemas.Assessment,
	Fields: []FieldSpec{
		{
			Name: "sustainabilityCriticism", Kind: KindArray, Required: true, NonEmpty: true,
			Items: append([]FieldSpec{{Name: "dimension", Kind: KindString, Required: true, NonEmpty: true}}, citedClaimFields...),
		},
		{
			Name: "alternativeProducts", Kind: KindArray, Required: true, NonEmpty: true, MaxItems: MaxAlternatives,
			Items: append([]FieldSpec{
				{Name: "productName", Kind: KindString, Required: true, NonEmpty: true},
				{Name: "purchaseUrl", Kind: KindString, Required: true},
			}, citedClaimFields...),
		},
		{Name: "dimensionScores", Kind: KindObject, Required: true, Keys: dimensionKeys()},
		{Name: "recommendations", Kind: KindArray, Required: true, NonEmpty: true, Items: citedClaimFields},
	},
}

func dimensionKeys() []string {
	keys := make([]string, len(scoring.Dimensions))
	for i, d := range scoring.Dimensions {
		keys[i] = string(d)
	}
	return keys
}

// ParseAssessment parses an analysis reply. Every dimension must carry at
// least one criticism. OverallScore is left for the caller to aggregate.
func ParseAssessment(reply *llm.ModelReply) (*types.Assessment, error) {
	assessment, err := Parse[types.Assessment](reply, AssessmentSpec)
	if err != nil {
		return nil, err
	}

	covered := make(map[scoring.Dimension]bool, len(scoring.Dimensions))
	for _, c := range assessment.Criticisms {
		covered[c.Dimension] = true
	}
	for _, d := range scoring.Dimensions {
		if !covered[d] {
			return nil, &SchemaViolationError{
				Schema:        AssessmentSpec.label(),
				MissingFields: []string{fmt.Sprintf("sustainabilityCriticism[dimension=%s]", d)},
			}
		}
	}

	assessment.OverallScore = 0
	return assessment, nil
}
