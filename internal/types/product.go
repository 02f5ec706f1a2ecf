// Package types provides type definitions for structured data used throughout the evaluator.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ProductInfo represents the product facts extracted from a page. An empty
// ProductInfo is a valid result for a page without product data.
type ProductInfo struct {
	Name        string   `json:"product_name"`
	Description string   `json:"product_description"`
	KeyFeatures []string `json:"key_features"`
}

// IsEmpty reports whether no product data was found.
func (p *ProductInfo) IsEmpty() bool {
	return p.Name == "" && p.Description == "" && len(p.KeyFeatures) == 0
}

// Normalize replaces a nil feature list with an empty one so the value
// always serializes as a JSON array.
func (p *ProductInfo) Normalize() {
	if p.KeyFeatures == nil {
		p.KeyFeatures = []string{}
	}
}
