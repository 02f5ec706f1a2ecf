package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/sustainability-evaluator/internal/fetch"
	"github.com/jonathan/sustainability-evaluator/internal/llm"
	"github.com/jonathan/sustainability-evaluator/internal/parsing"
	"github.com/jonathan/sustainability-evaluator/internal/prompts"
	"github.com/jonathan/sustainability-evaluator/internal/scoring"
	"github.com/jonathan/sustainability-evaluator/internal/types"
)

// Analyzer extracts product information from a page and scores the product
// across the fixed sustainability dimensions.
type Analyzer struct {
	client llm.Client
	reader fetch.Reader
	run    runner
}

// NewAnalyzer creates an Analyzer that reads pages with reader.
func NewAnalyzer(client llm.Client, reader fetch.Reader, opts Options) *Analyzer {
	return &Analyzer{client: client, reader: reader, run: newRunner(opts)}
}

// Scrape returns the product information found at rawURL. A page without
// product data yields an empty ProductInfo and no error.
func (a *Analyzer) Scrape(ctx context.Context, rawURL string) (*types.ProductInfo, error) {
	page, err := runStage(ctx, a.run, a.fetchStage(), rawURL)
	if err != nil {
		return nil, err
	}
	return runStage(ctx, a.run, a.extractStage(), page)
}

// Analyze scrapes rawURL and returns the product with its scored assessment.
func (a *Analyzer) Analyze(ctx context.Context, rawURL string) (*types.AnalysisResult, error) {
	product, err := a.Scrape(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	if product.IsEmpty() {
		return nil, &StageError{Stage: StageExtractProduct, Err: ErrNoProductData}
	}

	assessment, err := runStage(ctx, a.run, a.analyzeStage(), product)
	if err != nil {
		return nil, err
	}
	return &types.AnalysisResult{Product: product, Analysis: assessment}, nil
}

func (a *Analyzer) fetchStage() Stage[string, *fetch.Page] {
	return Stage[string, *fetch.Page]{
		Name: StageFetchPage,
		Run: func(ctx context.Context, rawURL string) (*fetch.Page, error) {
			if _, err := fetch.ValidateURL(rawURL); err != nil {
				return nil, err
			}
			return a.reader.Read(ctx, rawURL)
		},
	}
}

func (a *Analyzer) extractStage() Stage[*fetch.Page, *types.ProductInfo] {
	return Stage[*fetch.Page, *types.ProductInfo]{
		Name: StageExtractProduct,
		Run: func(ctx context.Context, page *fetch.Page) (*types.ProductInfo, error) {
			key := "extract-product"
			if page.Delegated {
				key = "extract-product-delegated"
			}
			reply, err := ask(ctx, a.client, prompts.AnalysisFile, key, a.run.model(StageExtractProduct),
				map[string]string{"Text": page.Text, "URL": page.URL})
			if err != nil {
				return nil, err
			}
			return parsing.ParseProductInfo(reply)
		},
	}
}

func (a *Analyzer) analyzeStage() Stage[*types.ProductInfo, *types.Assessment] {
	return Stage[*types.ProductInfo, *types.Assessment]{
		Name: StageAnalyzeProduct,
		Run: func(ctx context.Context, product *types.ProductInfo) (*types.Assessment, error) {
			productJSON, err := json.Marshal(product)
			if err != nil {
				return nil, fmt.Errorf("failed to encode product: %w", err)
			}
			reply, err := ask(ctx, a.client, prompts.AnalysisFile, StageAnalyzeProduct, a.run.model(StageAnalyzeProduct),
				map[string]string{"Product": string(productJSON)})
			if err != nil {
				return nil, err
			}
			assessment, err := parsing.ParseAssessment(reply)
			if err != nil {
				return nil, err
			}
			assessment.OverallScore, err = scoring.Aggregate(assessment.DimensionScores)
			if err != nil {
				return nil, err
			}
			return assessment, nil
		},
	}
}
