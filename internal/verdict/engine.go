package verdict

import (
	"context"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	// IssueServiceError tags results produced by the transport failure fallback.
	IssueServiceError = "ai-service-error"
	// IssueMalformedResponse tags results recovered by the keyword fallback.
	IssueMalformedResponse = "malformed-model-response"

	retryBaseDelay  = 500 * time.Millisecond
	retryMaxRetries = 2
)

// Engine produces moderation results from prompts. It never returns an
// error: transport failures degrade to a neutral result tagged
// ai-service-error so callers always have a persistable outcome.
type Engine struct {
	client Client
	logger *slog.Logger
}

// NewEngine creates an Engine with the given client.
func NewEngine(client Client, logger *slog.Logger) *Engine {
	return &Engine{
		client: client,
		logger: logger.With("system", "verdict"),
	}
}

// Moderate sends the prompt to the model and parses the response into a
// Result. Transport calls are retried with fibonacci backoff before failing
// over to the neutral service-error result.
func (e *Engine) Moderate(ctx context.Context, prompt string) Result {
	var content string

	backoff := retry.WithMaxRetries(retryMaxRetries, retry.NewFibonacci(retryBaseDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		resp, err := e.client.Complete(ctx, prompt)
		if err != nil {
			return retry.RetryableError(err)
		}
		content = resp
		return nil
	})

	if err != nil {
		e.logger.Error("moderation call failed", "error", err)
		return serviceErrorResult()
	}

	result := parseModelResponse(content)
	e.logger.Info(
		"moderation complete",
		"verdict", result.Verdict,
		"confidence", result.Confidence,
	)

	return result
}

func serviceErrorResult() Result {
	return Result{
		Verdict:         VerdictNeutral,
		Confidence:      0.0,
		Feedback:        "AI analysis unavailable",
		Issues:          []string{IssueServiceError},
		Recommendations: []string{"Manual review recommended"},
		AnalyzedAt:      time.Now(),
	}
}
