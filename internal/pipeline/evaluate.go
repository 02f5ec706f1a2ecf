package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/sustainability-evaluator/internal/llm"
	"github.com/jonathan/sustainability-evaluator/internal/parsing"
	"github.com/jonathan/sustainability-evaluator/internal/prompts"
	"github.com/jonathan/sustainability-evaluator/internal/types"
)

// Evaluator rates a merchant's sustainability record in three stages:
// identify the company, research its record, classify the record.
type Evaluator struct {
	client llm.Client
	run    runner
}

// NewEvaluator creates an Evaluator that sends every stage to client.
func NewEvaluator(client llm.Client, opts Options) *Evaluator {
	return &Evaluator{client: client, run: newRunner(opts)}
}

// Evaluate rates the merchant behind input, a product URL or free text.
func (e *Evaluator) Evaluate(ctx context.Context, input string) (types.Rating, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", ErrEmptyInput
	}

	company, err := runStage(ctx, e.run, e.textStage(StageIdentifyCompany, ErrCompanyUndetermined), input)
	if err != nil {
		return "", err
	}

	summary, err := runStage(ctx, e.run, e.textStage(StageResearchCompany, ErrSummaryUndetermined), company)
	if err != nil {
		return "", err
	}

	return runStage(ctx, e.run, e.classifyStage(), summary)
}

// textStage sends its input verbatim as the user prompt and returns the
// trimmed reply. An empty or UNKNOWN reply fails with undeterminedErr.
func (e *Evaluator) textStage(name string, undeterminedErr error) Stage[string, string] {
	return Stage[string, string]{
		Name: name,
		Run: func(ctx context.Context, in string) (string, error) {
			reply, err := ask(ctx, e.client, prompts.EvaluateFile, name, e.run.model(name), map[string]string{"Input": in})
			if errors.Is(err, llm.ErrEmptyReply) {
				return "", fmt.Errorf("%w: %w", undeterminedErr, err)
			}
			if err != nil {
				return "", err
			}
			if undetermined(reply.RawText) {
				return "", undeterminedErr
			}
			return strings.TrimSpace(reply.RawText), nil
		},
	}
}

func (e *Evaluator) classifyStage() Stage[string, types.Rating] {
	return Stage[string, types.Rating]{
		Name: StageClassifyRecord,
		Run: func(ctx context.Context, summary string) (types.Rating, error) {
			reply, err := ask(ctx, e.client, prompts.EvaluateFile, StageClassifyRecord,
				e.run.model(StageClassifyRecord), map[string]string{"Input": summary})
			if errors.Is(err, llm.ErrEmptyReply) {
				return "", fmt.Errorf("%w: %w", ErrEvaluationUndetermined, err)
			}
			if err != nil {
				return "", err
			}
			rating, err := parsing.ParseRating(reply.RawText)
			if err != nil {
				return "", fmt.Errorf("%w: %w", ErrEvaluationUndetermined, err)
			}
			return rating, nil
		},
	}
}
