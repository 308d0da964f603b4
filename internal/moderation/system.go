package moderation

import (
	"context"

	"github.com/google/uuid"

	"github.com/openshelf/warden/internal/resources"
)

// ReanalysisOutcome pairs the freshly analyzed resource with the archived
// snapshot of the analysis it replaced.
type ReanalysisOutcome struct {
	Resource         *resources.Resource         `json:"resource"`
	PreviousAnalysis *resources.PreviousAnalysis `json:"previous_analysis"`
}

// System defines the public contract for moderation operations.
type System interface {
	Handler() *Handler

	Analyze(ctx context.Context, id uuid.UUID, operator string) (*resources.Resource, error)
	Reanalyze(ctx context.Context, id uuid.UUID, operator string) (*ReanalysisOutcome, error)
	AnalyzeBatch(ctx context.Context, cmd BatchCommand, operator string) (*BatchOutcome, error)
}
