package moderation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/openshelf/warden/internal/resources"
)

// BatchCommand carries the resource ids to analyze.
type BatchCommand struct {
	ResourceIDs []uuid.UUID `json:"resource_ids"`
}

// BatchResult reports the outcome for a single resource in a batch.
type BatchResult struct {
	ResourceID uuid.UUID           `json:"resource_id"`
	Resource   *resources.Resource `json:"resource,omitempty"`
	Error      string              `json:"error,omitempty"`
}

// BatchOutcome aggregates per-resource results for a batch run.
type BatchOutcome struct {
	Results   []BatchResult `json:"results"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
}

// Partial reports whether some but not all resources failed, or every
// resource failed. Callers use this to select a 207 response.
func (o *BatchOutcome) Partial() bool {
	return o.Failed > 0
}

type analyzeFunc func(ctx context.Context, id uuid.UUID) (*resources.Resource, error)

// runBatch analyzes resources sequentially with a fixed delay between
// items. A failure on one resource never aborts the remainder; context
// cancellation stops the run, recording unprocessed ids as failed.
func runBatch(
	ctx context.Context,
	delay time.Duration,
	ids []uuid.UUID,
	analyze analyzeFunc,
) *BatchOutcome {
	outcome := &BatchOutcome{
		Results: make([]BatchResult, 0, len(ids)),
	}

	for i, id := range ids {
		if i > 0 && delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
			}
		}

		if err := ctx.Err(); err != nil {
			outcome.Results = append(outcome.Results, BatchResult{
				ResourceID: id,
				Error:      err.Error(),
			})
			outcome.Failed++
			continue
		}

		res, err := analyze(ctx, id)
		if err != nil {
			outcome.Results = append(outcome.Results, BatchResult{
				ResourceID: id,
				Error:      err.Error(),
			})
			outcome.Failed++
			continue
		}

		outcome.Results = append(outcome.Results, BatchResult{
			ResourceID: id,
			Resource:   res,
		})
		outcome.Succeeded++
	}

	return outcome
}
