package types

import "github.com/jonathan/sustainability-evaluator/internal/scoring"

// CitedClaim is a factual statement backed by a numbered source.
type CitedClaim struct {
	Text           string `json:"text"`
	CitationURL    string `json:"citationUrl"`
	CitationNumber int    `json:"citationNumber"`
}

// Criticism is a cited claim about one sustainability dimension.
type Criticism struct {
	Dimension scoring.Dimension `json:"dimension"`
	CitedClaim
}

// Alternative is a more sustainable product suggestion.
type Alternative struct {
	ProductName string `json:"productName"`
	PurchaseURL string `json:"purchaseUrl"`
	CitedClaim
}

// Assessment is a complete sustainability analysis of one product.
// OverallScore is derived from DimensionScores and never read from model output.
type Assessment struct {
	Criticisms      []Criticism                   `json:"sustainabilityCriticism"`
	Alternatives    []Alternative                 `json:"alternativeProducts"`
	OverallScore    float64                       `json:"sustainabilityScore"`
	DimensionScores map[scoring.Dimension]float64 `json:"dimensionScores"`
	Recommendations []CitedClaim                  `json:"recommendations"`
}

// AnalysisResult pairs the extracted product with its assessment.
type AnalysisResult struct {
	Product  *ProductInfo `json:"product"`
	Analysis *Assessment  `json:"analysis"`
}
