package pipeline

import "github.com/jonathan/sustainability-evaluator/internal/llm"

// Pipeline categories
const (
	CategoryEvaluation     = "evaluation"
	CategoryAnalysis       = "analysis"
	CategoryRecommendation = "recommendation"
)

// Stage names
const (
	StageIdentifyCompany = "identify-company"
	StageResearchCompany = "research-company"
	StageClassifyRecord  = "classify-record"
	StageFetchPage       = "fetch-page"
	StageExtractProduct  = "extract-product"
	StageAnalyzeProduct  = "analyze-product"
	StageCompareProducts = "compare-products"
	StageFindStores      = "find-stores"
)

// StageDefinition defines metadata for a pipeline stage
type StageDefinition struct {
	Name         string
	Category     string
	Tier         llm.ModelTier
	Dependencies []string
}

// StageRegistry holds all stage definitions
var StageRegistry = map[string]StageDefinition{
	StageIdentifyCompany: {
		Name:     StageIdentifyCompany,
		Category: CategoryEvaluation,
		Tier:     llm.TierLite,
	},
	StageResearchCompany: {
		Name:         StageResearchCompany,
		Category:     CategoryEvaluation,
		Tier:         llm.TierAdvanced,
		Dependencies: []string{StageIdentifyCompany},
	},
	StageClassifyRecord: {
		Name:         StageClassifyRecord,
		Category:     CategoryEvaluation,
		Tier:         llm.TierLite,
		Dependencies: []string{StageResearchCompany},
	},
	StageFetchPage: {
		Name:     StageFetchPage,
		Category: CategoryAnalysis,
	},
	StageExtractProduct: {
		Name:         StageExtractProduct,
		Category:     CategoryAnalysis,
		Tier:         llm.TierStandard,
		Dependencies: []string{StageFetchPage},
	},
	StageAnalyzeProduct: {
		Name:         StageAnalyzeProduct,
		Category:     CategoryAnalysis,
		Tier:         llm.TierAdvanced,
		Dependencies: []string{StageExtractProduct},
	},
	StageCompareProducts: {
		Name:     StageCompareProducts,
		Category: CategoryRecommendation,
		Tier:     llm.TierAdvanced,
	},
	StageFindStores: {
		Name:     StageFindStores,
		Category: CategoryRecommendation,
		Tier:     llm.TierStandard,
	},
}

// GetStageDefinition returns the definition for a stage name
func GetStageDefinition(name string) (StageDefinition, bool) {
	def, ok := StageRegistry[name]
	return def, ok
}
