package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/sustainability-evaluator/internal/llm"
	"github.com/jonathan/sustainability-evaluator/internal/prompts"
)

// unknownMarker is the reply prompts ask for when the model cannot answer.
const unknownMarker = "UNKNOWN"

// ask renders a prompt pair and sends it to client.
func ask(ctx context.Context, client llm.Client, file, key, model string, data map[string]string) (*llm.ModelReply, error) {
	msg, err := prompts.Render(file, key, data)
	if err != nil {
		return nil, fmt.Errorf("failed to build prompt: %w", err)
	}
	return client.Complete(ctx, llm.PromptRequest{
		SystemPrompt: msg.System,
		UserInput:    msg.User,
		Model:        model,
	})
}

// undetermined reports whether a free-text reply carries no usable answer.
func undetermined(text string) bool {
	t := strings.Trim(strings.TrimSpace(text), `."'*`)
	return t == "" || strings.EqualFold(t, unknownMarker)
}
