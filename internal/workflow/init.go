package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/openshelf/warden/internal/prompts"
	"github.com/openshelf/warden/internal/resources"
)

// InitNode returns a state node that loads the resource, verifies it is
// still pending, resolves the effective moderation instructions, and
// stores the initial AnalysisState in the workflow state bag.
func InitNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		resourceID, err := extractResourceID(s)
		if err != nil {
			return s, fmt.Errorf("init: %w", err)
		}

		res, err := rt.Resources.Find(ctx, resourceID)
		if err != nil {
			return s, fmt.Errorf("init: %w: %w", ErrResourceNotFound, err)
		}

		if res.Status != resources.StatusPending {
			return s, fmt.Errorf("init: %w: status is %s", ErrResourceNotPending, res.Status)
		}

		instructions, err := rt.Prompts.Instructions(ctx, prompts.StageModerate)
		if err != nil {
			return s, fmt.Errorf("init: load instructions: %w", err)
		}

		rt.Logger.InfoContext(
			ctx, "init node complete",
			"resource_id", resourceID,
			"item_count", len(res.Items),
		)

		s = s.Set(KeyAnalysisState, AnalysisState{
			Resource:     *res,
			Instructions: instructions,
		})

		return s, nil
	})
}

func extractResourceID(s state.State) (uuid.UUID, error) {
	val, ok := s.Get(KeyResourceID)
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: missing %s in state", ErrResourceNotFound, KeyResourceID)
	}

	resourceID, ok := val.(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: %s is not uuid.UUID", ErrResourceNotFound, KeyResourceID)
	}

	return resourceID, nil
}
