// Package pipeline orchestrates the multi-stage model pipelines: merchant
// evaluation, scored product analysis and recommendations.
//
// Stages run strictly in sequence. Each stage's output is the next stage's
// input, and a failed stage ends the run; no pipeline returns a partial result.
package pipeline

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/jonathan/sustainability-evaluator/internal/llm"
	"github.com/jonathan/sustainability-evaluator/internal/logger"
)

// Stage is one typed step of a pipeline.
type Stage[In, Out any] struct {
	Name string
	Run  func(ctx context.Context, in In) (Out, error)
}

// Progress statuses
const (
	StatusStarted   = "started"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

type progressKey struct{}

// WithProgress returns a context whose pipeline runs report to cb.
func WithProgress(ctx context.Context, cb ProgressCallback) context.Context {
	return context.WithValue(ctx, progressKey{}, cb)
}

func progressFrom(ctx context.Context) ProgressCallback {
	cb, _ := ctx.Value(progressKey{}).(ProgressCallback)
	return cb
}

// RetryPolicy bounds how often a stage is retried after a transient model
// failure. Attempts counts the first try, so 1 disables retry.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

// NoRetry runs every stage exactly once.
var NoRetry = RetryPolicy{Attempts: 1}

func (p RetryPolicy) backoff() retry.Backoff {
	base := p.Backoff
	if base <= 0 {
		base = time.Millisecond
	}
	retries := 0
	if p.Attempts > 1 {
		retries = p.Attempts - 1
	}
	b := retry.NewExponential(base)
	b = retry.WithJitterPercent(20, b)
	return retry.WithMaxRetries(uint64(retries), b)
}

// StageRecorder receives the outcome of every stage run.
type StageRecorder interface {
	ObserveStage(stage, status string, elapsed time.Duration, attempts int)
}

type nopRecorder struct{}

func (nopRecorder) ObserveStage(string, string, time.Duration, int) {}

// Options configures a pipeline.
type Options struct {
	// Models maps stage tiers to model ids. Nil leaves the choice to the client.
	Models  *llm.Config
	Retry   RetryPolicy
	Log     logger.Logger
	Metrics StageRecorder
}

// runner carries what every stage run needs.
type runner struct {
	models  *llm.Config
	retry   RetryPolicy
	log     logger.Logger
	metrics StageRecorder
}

func newRunner(opts Options) runner {
	if opts.Log == nil {
		opts.Log = logger.NewNop()
	}
	if opts.Retry.Attempts < 1 {
		opts.Retry = NoRetry
	}
	if opts.Metrics == nil {
		opts.Metrics = nopRecorder{}
	}
	return runner{models: opts.Models, retry: opts.Retry, log: opts.Log, metrics: opts.Metrics}
}

// model returns the model id for a stage, or "" for the client default.
func (r runner) model(stage string) string {
	def, ok := GetStageDefinition(stage)
	if !ok || r.models == nil || def.Tier == "" {
		return ""
	}
	return r.models.GetModel(def.Tier)
}

// runStage runs st with logging, progress events and the retry policy.
// Only transient model failures are retried. Errors are wrapped in *StageError.
func runStage[In, Out any](ctx context.Context, r runner, st Stage[In, Out], in In) (Out, error) {
	log := logger.FromContext(ctx, r.log).With(logger.String("stage", st.Name))
	emit := func(status, message string) {
		if cb := progressFrom(ctx); cb != nil {
			def, _ := GetStageDefinition(st.Name)
			cb(ProgressEvent{Step: st.Name, Category: def.Category, Status: status, Message: message})
		}
	}

	emit(StatusStarted, "")
	log.Debug("stage started")
	start := time.Now()

	var out Out
	attempt := 0
	err := retry.Do(ctx, r.retry.backoff(), func(ctx context.Context) error {
		attempt++
		result, err := st.Run(ctx, in)
		if err == nil {
			out = result
			return nil
		}
		if llm.IsRetryable(err) && attempt < r.retry.Attempts {
			log.Warn("stage attempt failed, retrying",
				logger.Int("attempt", attempt),
				logger.Error(err),
			)
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		log.Warn("stage failed",
			logger.Int("attempts", attempt),
			logger.Duration("elapsed", time.Since(start)),
			logger.Error(err),
		)
		emit(StatusFailed, err.Error())
		r.metrics.ObserveStage(st.Name, StatusFailed, time.Since(start), attempt)
		var zero Out
		return zero, &StageError{Stage: st.Name, Err: err}
	}

	log.Info("stage completed",
		logger.Int("attempts", attempt),
		logger.Duration("elapsed", time.Since(start)),
	)
	emit(StatusCompleted, "")
	r.metrics.ObserveStage(st.Name, StatusCompleted, time.Since(start), attempt)
	return out, nil
}
