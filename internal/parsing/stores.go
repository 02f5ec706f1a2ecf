package parsing

import (
	"github.com/jonathan/sustainability-evaluator/internal/llm"
	"github.com/jonathan/sustainability-evaluator/internal/schemas"
	"github.com/jonathan/sustainability-evaluator/internal/types"
)

// MaxStores is the number of store recommendations kept.
const MaxStores = 3

// StoreRecommendationsSpec describes the sustainable-stores reply.
var StoreRecommendationsSpec = SchemaSpec{
	Name: schemas.StoreRecommendations,
	Fields: []FieldSpec{
		{Name: "productName", Kind: KindString, Required: true, NonEmpty: true},
		{
			Name: "storeRecommendations", Kind: KindArray, Required: true, MaxItems: MaxStores,
			Items: []FieldSpec{
				{Name: "storeName", Kind: KindString, Required: true, NonEmpty: true},
				{Name: "sustainabilityScore", Kind: KindNumber, Required: true},
				{Name: "reasons", Kind: KindArray, Required: true},
				{Name: "productPrice", Kind: KindString, Required: true},
				{Name: "sustainabilityInitiatives", Kind: KindArray, Required: true},
			},
		},
		{Name: "sustainabilityTips", Kind: KindArray, Required: true},
	},
}

// ParseStoreRecommendations parses a sustainable-stores reply.
func ParseStoreRecommendations(reply *llm.ModelReply) (*types.StoreRecommendations, error) {
	recs, err := Parse[types.StoreRecommendations](reply, StoreRecommendationsSpec)
	if err != nil {
		return nil, err
	}
	for i := range recs.StoreRecommendations {
		s := &recs.StoreRecommendations[i]
		if s.Reasons == nil {
			s.Reasons = []string{}
		}
		if s.SustainabilityInitiatives == nil {
			s.SustainabilityInitiatives = []string{}
		}
	}
	if recs.SustainabilityTips == nil {
		recs.SustainabilityTips = []string{}
	}
	return recs, nil
}
