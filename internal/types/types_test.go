//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"testing"

	"github.com/jonathan/sustainability-evaluator/internal/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		request   EvaluateRequest
		wantErr   bool
		wantInput string
	}{
		{"url only", EvaluateRequest{URL: "https://shop.example/p/1"}, false, "https://shop.example/p/1"},
		{"text only", EvaluateRequest{Text: " Acme widget "}, false, "Acme widget"},
		{"url wins over text", EvaluateRequest{URL: "https://a.example", Text: "b"}, false, "https://a.example"},
		{"neither", EvaluateRequest{}, true, ""},
		{"blank values", EvaluateRequest{URL: "  ", Text: "\t"}, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantInput, tt.request.Input())
		})
	}
}

func TestRecommendRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request RecommendRequest
		wantErr bool
	}{
		{"complete", RecommendRequest{Company: "Acme", Product: "Widget", SustainabilityEfforts: "Solar"}, false},
		{"missing company", RecommendRequest{Product: "Widget", SustainabilityEfforts: "Solar"}, true},
		{"missing product", RecommendRequest{Company: "Acme", SustainabilityEfforts: "Solar"}, true},
		{"blank efforts", RecommendRequest{Company: "Acme", Product: "Widget", SustainabilityEfforts: " "}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestURLAndStoresRequest_Validate(t *testing.T) {
	assert.NoError(t, (&URLRequest{URL: "https://a.example"}).Validate())
	assert.Error(t, (&URLRequest{}).Validate())
	assert.NoError(t, (&StoresRequest{Product: "tee"}).Validate())
	assert.Error(t, (&StoresRequest{Product: "  "}).Validate())
}

func TestProductInfo_NormalizeAndJSON(t *testing.T) {
	p := ProductInfo{}
	assert.True(t, p.IsEmpty())
	p.Normalize()

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"product_name": "", "product_description": "", "key_features": []}`, string(data))
}

func TestAssessment_JSONShape(t *testing.T) {
	a := Assessment{
		Criticisms: []Criticism{{
			Dimension:  scoring.ProductUse,
			CitedClaim: CitedClaim{Text: "Short lifespan", CitationURL: "https://a.example", CitationNumber: 1},
		}},
		Alternatives: []Alternative{{
			ProductName: "Durable tee",
			PurchaseURL: "https://shop.example",
			CitedClaim:  CitedClaim{Text: "Lasts longer", CitationURL: "https://b.example", CitationNumber: 2},
		}},
		OverallScore:    6,
		DimensionScores: map[scoring.Dimension]float64{scoring.ProductUse: 6},
		Recommendations: []CitedClaim{{Text: "Repair", CitationURL: "https://c.example", CitationNumber: 3}},
	}

	data, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"sustainabilityCriticism": [{"dimension": "productUse", "text": "Short lifespan", "citationUrl": "https://a.example", "citationNumber": 1}],
		"alternativeProducts": [{"productName": "Durable tee", "purchaseUrl": "https://shop.example", "text": "Lasts longer", "citationUrl": "https://b.example", "citationNumber": 2}],
		"sustainabilityScore": 6,
		"dimensionScores": {"productUse": 6},
		"recommendations": [{"text": "Repair", "citationUrl": "https://c.example", "citationNumber": 3}]
	}`, string(data))
}

func TestRating_Valid(t *testing.T) {
	for _, r := range Ratings {
		assert.True(t, r.Valid())
	}
	assert.False(t, Rating("good").Valid())
	assert.False(t, Rating("").Valid())
}
