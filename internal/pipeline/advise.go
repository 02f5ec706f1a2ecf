package pipeline

import (
	"context"
	"strings"

	"github.com/jonathan/sustainability-evaluator/internal/llm"
	"github.com/jonathan/sustainability-evaluator/internal/parsing"
	"github.com/jonathan/sustainability-evaluator/internal/prompts"
	"github.com/jonathan/sustainability-evaluator/internal/types"
)

// Advisor produces purchase recommendations.
type Advisor struct {
	client llm.Client
	run    runner
}

// NewAdvisor creates an Advisor.
func NewAdvisor(client llm.Client, opts Options) *Advisor {
	return &Advisor{client: client, run: newRunner(opts)}
}

// Recommend compares the company's sustainability efforts with similar
// products and returns the model's free-text answer.
func (a *Advisor) Recommend(ctx context.Context, req types.RecommendRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", ErrEmptyInput
	}

	stage := Stage[types.RecommendRequest, string]{
		Name: StageCompareProducts,
		Run: func(ctx context.Context, req types.RecommendRequest) (string, error) {
			reply, err := ask(ctx, a.client, prompts.RecommendFile, StageCompareProducts, a.run.model(StageCompareProducts),
				map[string]string{
					"Company":               req.Company,
					"Product":               req.Product,
					"SustainabilityEfforts": req.SustainabilityEfforts,
				})
			if err != nil {
				return "", err
			}
			return strings.TrimSpace(reply.RawText), nil
		},
	}
	return runStage(ctx, a.run, stage, req)
}

// RecommendStores finds up to three sustainable stores selling product.
func (a *Advisor) RecommendStores(ctx context.Context, product string) (*types.StoreRecommendations, error) {
	product = strings.TrimSpace(product)
	if product == "" {
		return nil, ErrEmptyInput
	}

	stage := Stage[string, *types.StoreRecommendations]{
		Name: StageFindStores,
		Run: func(ctx context.Context, product string) (*types.StoreRecommendations, error) {
			reply, err := ask(ctx, a.client, prompts.RecommendFile, "sustainable-stores", a.run.model(StageFindStores),
				map[string]string{"Product": product})
			if err != nil {
				return nil, err
			}
			return parsing.ParseStoreRecommendations(reply)
		},
	}
	return runStage(ctx, a.run, stage, product)
}
