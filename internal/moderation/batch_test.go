package moderation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/openshelf/warden/internal/resources"
)

func TestRunBatchAllSucceed(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	outcome := runBatch(context.Background(), 0, ids,
		func(ctx context.Context, id uuid.UUID) (*resources.Resource, error) {
			return &resources.Resource{ID: id}, nil
		},
	)

	if outcome.Succeeded != 3 || outcome.Failed != 0 {
		t.Errorf("succeeded=%d failed=%d, want 3/0", outcome.Succeeded, outcome.Failed)
	}
	if outcome.Partial() {
		t.Error("Partial() = true for fully successful batch")
	}
	for i, r := range outcome.Results {
		if r.ResourceID != ids[i] {
			t.Errorf("result %d out of order", i)
		}
		if r.Resource == nil || r.Error != "" {
			t.Errorf("result %d = %+v, want success", i, r)
		}
	}
}

func TestRunBatchIsolatesFailures(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	failing := ids[1]

	outcome := runBatch(context.Background(), 0, ids,
		func(ctx context.Context, id uuid.UUID) (*resources.Resource, error) {
			if id == failing {
				return nil, errors.New("model unavailable")
			}
			return &resources.Resource{ID: id}, nil
		},
	)

	if outcome.Succeeded != 2 || outcome.Failed != 1 {
		t.Errorf("succeeded=%d failed=%d, want 2/1", outcome.Succeeded, outcome.Failed)
	}
	if !outcome.Partial() {
		t.Error("Partial() = false with a failed item")
	}
	if outcome.Results[1].Error == "" {
		t.Error("failed result missing error message")
	}
	if outcome.Results[2].Resource == nil {
		t.Error("item after a failure was not processed")
	}
}

func TestRunBatchDelaysBetweenItems(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	delay := 20 * time.Millisecond

	start := time.Now()
	runBatch(context.Background(), delay, ids,
		func(ctx context.Context, id uuid.UUID) (*resources.Resource, error) {
			return &resources.Resource{ID: id}, nil
		},
	)
	elapsed := time.Since(start)

	// two gaps between three items
	if elapsed < 2*delay {
		t.Errorf("elapsed %v, want at least %v", elapsed, 2*delay)
	}
}

func TestRunBatchStopsOnCancellation(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	outcome := runBatch(ctx, 0, ids,
		func(ctx context.Context, id uuid.UUID) (*resources.Resource, error) {
			calls++
			cancel()
			return &resources.Resource{ID: id}, nil
		},
	)

	if calls != 1 {
		t.Errorf("analyze called %d times after cancellation, want 1", calls)
	}
	if outcome.Succeeded != 1 || outcome.Failed != 2 {
		t.Errorf("succeeded=%d failed=%d, want 1/2", outcome.Succeeded, outcome.Failed)
	}
	if len(outcome.Results) != 3 {
		t.Errorf("results = %d, want every id accounted for", len(outcome.Results))
	}
}
