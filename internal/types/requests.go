package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// EvaluateRequest asks for a merchant rating. Either URL or Text must be set.
type EvaluateRequest struct {
	URL  string `json:"url,omitempty" validate:"required_without=Text"`
	Text string `json:"text,omitempty" validate:"required_without=URL"`
}

// Input returns the value fed to the first evaluation stage.
func (r *EvaluateRequest) Input() string {
	if s := strings.TrimSpace(r.URL); s != "" {
		return s
	}
	return strings.TrimSpace(r.Text)
}

// RecommendRequest asks for a comparison and recommendations for a product.
type RecommendRequest struct {
	Company               string `json:"company" validate:"required"`
	Product               string `json:"product" validate:"required"`
	SustainabilityEfforts string `json:"sustainability_efforts" validate:"required"`
}

// URLRequest carries the product page to scrape or analyze.
type URLRequest struct {
	URL string `json:"url" validate:"required"`
}

// StoresRequest asks for sustainable stores selling a product.
type StoresRequest struct {
	Product string `json:"product" validate:"required"`
}

// Validate validates the EvaluateRequest using the validator.
func (r *EvaluateRequest) Validate() error {
	r.URL, r.Text = strings.TrimSpace(r.URL), strings.TrimSpace(r.Text)
	return validator.New().Struct(r)
}

// Validate validates the RecommendRequest using the validator.
func (r *RecommendRequest) Validate() error {
	r.Company = strings.TrimSpace(r.Company)
	r.Product = strings.TrimSpace(r.Product)
	r.SustainabilityEfforts = strings.TrimSpace(r.SustainabilityEfforts)
	return validator.New().Struct(r)
}

// Validate validates the URLRequest using the validator.
func (r *URLRequest) Validate() error {
	r.URL = strings.TrimSpace(r.URL)
	return validator.New().Struct(r)
}

// Validate validates the StoresRequest using the validator.
func (r *StoresRequest) Validate() error {
	r.Product = strings.TrimSpace(r.Product)
	return validator.New().Struct(r)
}
