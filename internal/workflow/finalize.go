package workflow

import (
	"context"
	"fmt"
	"slices"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/openshelf/warden/internal/resources"
	"github.com/openshelf/warden/internal/verdict"
)

// FinalizeNode returns a state node that combines the per-item results
// into the resource-level verdict.
func FinalizeNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		as, err := extractAnalysisState(s)
		if err != nil {
			return s, fmt.Errorf("finalize: %w", err)
		}

		items := slices.Clone(as.Resource.Items)
		slices.SortStableFunc(items, func(a, b resources.Item) int {
			return a.Order - b.Order
		})

		itemTypes := make([]string, len(items))
		for i, item := range items {
			itemTypes[i] = string(item.Type)
		}

		as.Combined = verdict.Aggregate(as.ItemResults, itemTypes)

		rt.Logger.InfoContext(
			ctx, "finalize node complete",
			"resource_id", as.Resource.ID,
			"verdict", as.Combined.Verdict,
			"confidence", as.Combined.Confidence,
		)

		s = s.Set(KeyAnalysisState, *as)
		return s, nil
	})
}
