package types

// StoreRecommendation describes one store selling a sustainable version of a product.
type StoreRecommendation struct {
	StoreName                 string   `json:"storeName"`
	SustainabilityScore       float64  `json:"sustainabilityScore"`
	Reasons                   []string `json:"reasons"`
	ProductPrice              string   `json:"productPrice"`
	SustainabilityInitiatives []string `json:"sustainabilityInitiatives"`
	ProductLink               string   `json:"productLink,omitempty"`
}

// StoreRecommendations is the answer to a sustainable-shopping query.
type StoreRecommendations struct {
	ProductName          string                `json:"productName"`
	StoreRecommendations []StoreRecommendation `json:"storeRecommendations"`
	SustainabilityTips   []string              `json:"sustainabilityTips"`
}
