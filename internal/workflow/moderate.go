package workflow

import (
	"context"
	"fmt"
	"slices"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/openshelf/warden/internal/resources"
	"github.com/openshelf/warden/internal/verdict"
)

// ModerateNode returns a state node that analyzes each item sequentially
// in stored order. Items are never skipped: extraction failures degrade
// to a fallback description and AI failures degrade to a service-error
// result, so every item produces a verdict.
func ModerateNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		as, err := extractAnalysisState(s)
		if err != nil {
			return s, fmt.Errorf("moderate: %w", err)
		}

		items := slices.Clone(as.Resource.Items)
		slices.SortStableFunc(items, func(a, b resources.Item) int {
			return a.Order - b.Order
		})

		as.ItemResults = make([]verdict.Result, 0, len(items))

		for i, item := range items {
			if ctx.Err() != nil {
				return s, fmt.Errorf("moderate: %w", ctx.Err())
			}

			content := rt.Extractor.Extract(ctx, item)

			prompt := verdict.BuildPrompt(as.Instructions, verdict.Descriptor{
				Name:      as.Resource.Name,
				Subject:   as.Resource.Subject,
				Tags:      as.Resource.Tags,
				ItemType:  string(item.Type),
				ItemIndex: i,
				Content:   content.Describe(),
			})

			result := rt.Engine.Moderate(ctx, prompt)
			as.ItemResults = append(as.ItemResults, result)

			rt.Logger.InfoContext(
				ctx, "item analyzed",
				"resource_id", as.Resource.ID,
				"item", i+1,
				"type", item.Type,
				"verdict", result.Verdict,
				"confidence", result.Confidence,
			)
		}

		s = s.Set(KeyAnalysisState, *as)
		return s, nil
	})
}

func extractAnalysisState(s state.State) (*AnalysisState, error) {
	val, ok := s.Get(KeyAnalysisState)
	if !ok {
		return nil, fmt.Errorf("%w: missing %s in state", ErrModerateFailed, KeyAnalysisState)
	}

	as, ok := val.(AnalysisState)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not AnalysisState", ErrModerateFailed, KeyAnalysisState)
	}

	return &as, nil
}
