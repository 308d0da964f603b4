// Package moderation orchestrates AI analysis of resources. It runs the
// moderation workflow, persists results through the resource system, and
// exposes the analyze, reanalyze, and batch endpoints.
package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/openshelf/warden/internal/config"
	"github.com/openshelf/warden/internal/extract"
	"github.com/openshelf/warden/internal/prompts"
	"github.com/openshelf/warden/internal/resources"
	"github.com/openshelf/warden/internal/verdict"
	"github.com/openshelf/warden/internal/workflow"
	"github.com/openshelf/warden/pkg/storage"
)

type service struct {
	rt        *workflow.Runtime
	resources resources.System
	cfg       config.ModerationConfig
	logger    *slog.Logger
	flight    singleflight.Group
}

// flightResult is the shared shape for deduplicated analysis executions.
type flightResult struct {
	resource *resources.Resource
	previous *resources.PreviousAnalysis
}

// New creates a moderation System. It internally constructs the verdict
// engine, the content extractor, and the workflow runtime from the
// provided dependencies.
func New(
	agent gaconfig.AgentConfig,
	moderation config.ModerationConfig,
	store storage.System,
	res resources.System,
	ps prompts.System,
	logger *slog.Logger,
) System {
	engine := verdict.NewEngine(verdict.NewAgentClient(agent), logger)
	extractor := extract.New(store, moderation.MaxExtractSizeBytes(), logger)

	rt := &workflow.Runtime{
		Engine:    engine,
		Extractor: extractor,
		Resources: res,
		Prompts:   ps,
		Logger:    logger.With("workflow", "moderate"),
	}

	return &service{
		rt:        rt,
		resources: res,
		cfg:       moderation,
		logger:    logger.With("system", "moderation"),
	}
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.logger)
}

// Analyze runs the moderation workflow for a resource and persists the
// combined verdict. Concurrent requests for the same resource share a
// single workflow execution.
func (s *service) Analyze(
	ctx context.Context,
	id uuid.UUID,
	operator string,
) (*resources.Resource, error) {
	v, err, _ := s.flight.Do(id.String(), func() (any, error) {
		return s.run(ctx, id, operator, false)
	})
	if err != nil {
		return nil, err
	}

	return v.(*flightResult).resource, nil
}

// Reanalyze archives the resource's current analysis and runs a fresh
// one. The archived snapshot is returned alongside the updated resource.
func (s *service) Reanalyze(
	ctx context.Context,
	id uuid.UUID,
	operator string,
) (*ReanalysisOutcome, error) {
	v, err, _ := s.flight.Do(id.String(), func() (any, error) {
		return s.run(ctx, id, operator, true)
	})
	if err != nil {
		return nil, err
	}

	fr := v.(*flightResult)
	return &ReanalysisOutcome{
		Resource:         fr.resource,
		PreviousAnalysis: fr.previous,
	}, nil
}

// AnalyzeBatch analyzes up to the configured maximum of resources
// sequentially, pausing between items to avoid saturating the AI
// provider. Per-resource failures are isolated into the outcome.
func (s *service) AnalyzeBatch(
	ctx context.Context,
	cmd BatchCommand,
	operator string,
) (*BatchOutcome, error) {
	if len(cmd.ResourceIDs) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(cmd.ResourceIDs) > s.cfg.MaxBatchSize {
		return nil, fmt.Errorf("%w: %d exceeds limit of %d",
			ErrBatchTooLarge, len(cmd.ResourceIDs), s.cfg.MaxBatchSize)
	}

	outcome := runBatch(ctx, s.cfg.AnalysisDelayDuration(), cmd.ResourceIDs,
		func(ctx context.Context, id uuid.UUID) (*resources.Resource, error) {
			return s.Analyze(ctx, id, operator)
		},
	)

	s.logger.Info("batch analysis complete",
		"requested", len(cmd.ResourceIDs),
		"succeeded", outcome.Succeeded,
		"failed", outcome.Failed,
	)

	return outcome, nil
}

func (s *service) run(
	ctx context.Context,
	id uuid.UUID,
	operator string,
	archive bool,
) (*flightResult, error) {
	started := time.Now()

	result, err := workflow.Execute(ctx, s.rt, id)
	if err != nil {
		return nil, fmt.Errorf("analyze resource %s: %w", id, err)
	}

	cmd := resources.AnalysisCommand{
		Result:         result.Combined,
		Operator:       operator,
		ProcessingMS:   time.Since(started).Milliseconds(),
		ServiceErrored: result.Combined.ServiceErrored(),
	}

	var fr flightResult
	if archive {
		res, previous, err := s.resources.ApplyReanalysis(ctx, id, cmd)
		if err != nil {
			return nil, err
		}
		fr = flightResult{resource: res, previous: previous}
	} else {
		res, err := s.resources.ApplyAnalysis(ctx, id, cmd)
		if err != nil {
			return nil, err
		}
		fr = flightResult{resource: res}
	}

	s.logger.Info("resource analyzed",
		"resource_id", id,
		"verdict", result.Combined.Verdict,
		"confidence", result.Combined.Confidence,
		"processing_ms", cmd.ProcessingMS,
		"service_errored", cmd.ServiceErrored,
	)

	return &fr, nil
}
