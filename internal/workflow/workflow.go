package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// Execute runs the moderation workflow for a single resource. It builds
// the state graph (init → moderate → finalize), executes it, and extracts
// the AnalysisResult from the final state.
func Execute(ctx context.Context, rt *Runtime, resourceID uuid.UUID) (*AnalysisResult, error) {
	graph, err := buildGraph(rt)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	initialState := state.New(nil)
	initialState = initialState.Set(KeyResourceID, resourceID)

	finalState, err := graph.Execute(ctx, initialState)
	if err != nil {
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	return extractResult(finalState)
}

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("warden-moderate")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("init", InitNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("moderate", ModerateNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("finalize", FinalizeNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("init", "moderate", nil); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("moderate", "finalize", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("init"); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint("finalize"); err != nil {
		return nil, err
	}

	return graph, nil
}

func extractResult(s state.State) (*AnalysisResult, error) {
	val, ok := s.Get(KeyAnalysisState)
	if !ok {
		return nil, fmt.Errorf("missing %s in final state", KeyAnalysisState)
	}

	as, ok := val.(AnalysisState)
	if !ok {
		return nil, fmt.Errorf("%s is not AnalysisState", KeyAnalysisState)
	}

	idVal, ok := s.Get(KeyResourceID)
	if !ok {
		return nil, fmt.Errorf("missing %s in final state", KeyResourceID)
	}

	resourceID, ok := idVal.(uuid.UUID)
	if !ok {
		return nil, fmt.Errorf("%s is not uuid.UUID", KeyResourceID)
	}

	return &AnalysisResult{
		ResourceID:  resourceID,
		ItemResults: as.ItemResults,
		Combined:    as.Combined,
		CompletedAt: time.Now(),
	}, nil
}
