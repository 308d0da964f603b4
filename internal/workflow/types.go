package workflow

import (
	"time"

	"github.com/google/uuid"

	"github.com/openshelf/warden/internal/resources"
	"github.com/openshelf/warden/internal/verdict"
)

const (
	KeyResourceID    = "resource_id"
	KeyAnalysisState = "analysis_state"
)

// AnalysisState holds the running moderation state accumulated across the
// workflow nodes.
type AnalysisState struct {
	Resource     resources.Resource `json:"resource"`
	Instructions string             `json:"instructions"`
	ItemResults  []verdict.Result   `json:"item_results"`
	Combined     verdict.Result     `json:"combined"`
}

// AnalysisResult is the final output from a moderation workflow execution.
type AnalysisResult struct {
	ResourceID  uuid.UUID        `json:"resource_id"`
	ItemResults []verdict.Result `json:"item_results"`
	Combined    verdict.Result   `json:"combined"`
	CompletedAt time.Time        `json:"completed_at"`
}
