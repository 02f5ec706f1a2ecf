package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/sustainability-evaluator/internal/llm"
	"github.com/jonathan/sustainability-evaluator/internal/llm/llmtest"
	"github.com/jonathan/sustainability-evaluator/internal/types"
)

const summary = "Acme Corp runs on renewable energy and publishes audited ESG reports [1]."

func TestEvaluate_ChainsStages(t *testing.T) {
	client := llmtest.Texts("Acme Corp", summary, "Good")
	e := NewEvaluator(client, Options{})

	rating, err := e.Evaluate(context.Background(), "https://acme.example/widget")
	require.NoError(t, err)
	assert.Equal(t, types.RatingGood, rating)

	requests := client.Requests()
	require.Len(t, requests, 3)
	assert.Equal(t, "https://acme.example/widget", requests[0].UserInput)
	assert.Equal(t, "Acme Corp", requests[1].UserInput, "each stage output is the next stage input")
	assert.Equal(t, summary, requests[2].UserInput)
	assert.Contains(t, requests[2].SystemPrompt, "Good, Decent or Bad")
}

func TestEvaluate_ModelTiers(t *testing.T) {
	client := llmtest.Texts("Acme Corp", summary, "Bad")
	e := NewEvaluator(client, Options{Models: llm.DefaultOpenAIConfig()})

	_, err := e.Evaluate(context.Background(), "Acme widget")
	require.NoError(t, err)

	requests := client.Requests()
	assert.Equal(t, "sonar", requests[0].Model)
	assert.Equal(t, "sonar-pro", requests[1].Model)
	assert.Equal(t, "sonar", requests[2].Model)
}

func TestEvaluate_FailsFast(t *testing.T) {
	tests := []struct {
		name      string
		responses []llmtest.Response
		wantErr   error
		wantStage string
		wantCalls int
	}{
		{
			name:      "empty company",
			responses: []llmtest.Response{{Text: ""}},
			wantErr:   ErrCompanyUndetermined,
			wantStage: StageIdentifyCompany,
			wantCalls: 1,
		},
		{
			name:      "unknown company",
			responses: []llmtest.Response{{Text: "UNKNOWN"}},
			wantErr:   ErrCompanyUndetermined,
			wantStage: StageIdentifyCompany,
			wantCalls: 1,
		},
		{
			name:      "blank summary",
			responses: []llmtest.Response{{Text: "Acme Corp"}, {Text: "  "}},
			wantErr:   ErrSummaryUndetermined,
			wantStage: StageResearchCompany,
			wantCalls: 2,
		},
		{
			name:      "empty evaluation",
			responses: []llmtest.Response{{Text: "Acme Corp"}, {Text: summary}, {Text: ""}},
			wantErr:   ErrEvaluationUndetermined,
			wantStage: StageClassifyRecord,
			wantCalls: 3,
		},
		{
			name:      "unrecognized label",
			responses: []llmtest.Response{{Text: "Acme Corp"}, {Text: summary}, {Text: "Excellent"}},
			wantErr:   ErrEvaluationUndetermined,
			wantStage: StageClassifyRecord,
			wantCalls: 3,
		},
		{
			name:      "missing credential",
			responses: []llmtest.Response{{Err: llm.ErrMissingCredential}},
			wantErr:   llm.ErrMissingCredential,
			wantStage: StageIdentifyCompany,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := llmtest.NewScriptedClient(tt.responses...)
			e := NewEvaluator(client, Options{})

			_, err := e.Evaluate(context.Background(), "https://acme.example/widget")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var stageErr *StageError
			require.ErrorAs(t, err, &stageErr)
			assert.Equal(t, tt.wantStage, stageErr.Stage)
			assert.Equal(t, tt.wantCalls, client.Calls())
		})
	}
}

func TestEvaluate_EmptyInput(t *testing.T) {
	client := llmtest.Texts()
	_, err := NewEvaluator(client, Options{}).Evaluate(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Zero(t, client.Calls())
}

func TestEvaluate_RetriesTransientFailures(t *testing.T) {
	upstream := &llm.UpstreamError{StatusCode: 503, Body: "overloaded"}
	client := llmtest.NewScriptedClient(
		llmtest.Response{Err: upstream},
		llmtest.Response{Text: "Acme Corp"},
		llmtest.Response{Text: summary},
		llmtest.Response{Text: "Decent"},
	)
	e := NewEvaluator(client, Options{Retry: RetryPolicy{Attempts: 2, Backoff: time.Millisecond}})

	rating, err := e.Evaluate(context.Background(), "Acme widget")
	require.NoError(t, err)
	assert.Equal(t, types.RatingDecent, rating)
	assert.Equal(t, 4, client.Calls())
}

func TestEvaluate_RetryIsBounded(t *testing.T) {
	timeout := &llm.TransportError{Op: "chat completion", Timeout: true, Cause: context.DeadlineExceeded}
	client := llmtest.NewScriptedClient(
		llmtest.Response{Err: timeout},
		llmtest.Response{Err: timeout},
		llmtest.Response{Err: timeout},
	)
	e := NewEvaluator(client, Options{Retry: RetryPolicy{Attempts: 2, Backoff: time.Millisecond}})

	_, err := e.Evaluate(context.Background(), "Acme widget")
	var transport *llm.TransportError
	require.ErrorAs(t, err, &transport)
	assert.Equal(t, 2, client.Calls())
}

func TestEvaluate_NoRetryByDefault(t *testing.T) {
	client := llmtest.NewScriptedClient(
		llmtest.Response{Err: &llm.UpstreamError{StatusCode: 500, Body: "boom"}},
		llmtest.Response{Text: "Acme Corp"},
	)
	_, err := NewEvaluator(client, Options{}).Evaluate(context.Background(), "Acme widget")
	require.Error(t, err)
	assert.Equal(t, 1, client.Calls())
}

func TestEvaluate_DoesNotRetryPermanentFailures(t *testing.T) {
	client := llmtest.NewScriptedClient(
		llmtest.Response{Err: &llm.UpstreamError{StatusCode: 401, Body: "bad key"}},
		llmtest.Response{Text: "Acme Corp"},
	)
	e := NewEvaluator(client, Options{Retry: RetryPolicy{Attempts: 3, Backoff: time.Millisecond}})

	_, err := e.Evaluate(context.Background(), "Acme widget")
	var upstream *llm.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, 1, client.Calls())
}

func TestEvaluate_ReportsProgress(t *testing.T) {
	var (
		mu     sync.Mutex
		events []ProgressEvent
	)
	ctx := WithProgress(context.Background(), func(ev ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, ev)
	})

	client := llmtest.Texts("Acme Corp", "")
	_, err := NewEvaluator(client, Options{}).Evaluate(ctx, "Acme widget")
	require.Error(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 4)
	assert.Equal(t, ProgressEvent{Step: StageIdentifyCompany, Category: CategoryEvaluation, Status: StatusStarted}, events[0])
	assert.Equal(t, StatusCompleted, events[1].Status)
	assert.Equal(t, StageResearchCompany, events[2].Step)
	assert.Equal(t, StatusFailed, events[3].Status)
	assert.NotEmpty(t, events[3].Message)
}

type stageRun struct {
	stage, status string
	attempts      int
}

type recordingMetrics struct {
	mu   sync.Mutex
	runs []stageRun
}

func (m *recordingMetrics) ObserveStage(stage, status string, _ time.Duration, attempts int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, stageRun{stage, status, attempts})
}

func TestEvaluate_RecordsStageMetrics(t *testing.T) {
	client := llmtest.NewScriptedClient(
		llmtest.Response{Err: &llm.UpstreamError{StatusCode: 429, Body: "slow down"}},
		llmtest.Response{Text: "Acme Corp"},
		llmtest.Response{Text: summary},
		llmtest.Response{Text: "maybe"},
	)
	metrics := &recordingMetrics{}
	e := NewEvaluator(client, Options{
		Retry:   RetryPolicy{Attempts: 2, Backoff: time.Millisecond},
		Metrics: metrics,
	})

	_, err := e.Evaluate(context.Background(), "Acme widget")
	require.ErrorIs(t, err, ErrEvaluationUndetermined)

	assert.Equal(t, []stageRun{
		{StageIdentifyCompany, StatusCompleted, 2},
		{StageResearchCompany, StatusCompleted, 1},
		{StageClassifyRecord, StatusFailed, 1},
	}, metrics.runs)
}
