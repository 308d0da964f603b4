// Package resources implements the moderated resource domain: submission
// records with their content items, AI analysis state, append-only analysis
// history, and the human decision gate.
package resources

import (
	"time"

	"github.com/google/uuid"

	"github.com/openshelf/warden/internal/verdict"
)

// Resource status values. Resources are created pending and transition to
// approved or rejected only through the decision gate. Both outcomes are
// terminal.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Resource represents a submitted educational resource with its content
// items, AI moderation state, and decision record.
type Resource struct {
	ID      uuid.UUID `json:"id"`
	Slug    string    `json:"slug"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Tags    []string  `json:"tags"`
	Items   []Item    `json:"items"`
	Status  string    `json:"status"`

	AIVerdict         verdict.Verdict `json:"ai_verdict"`
	AIConfidence      float64         `json:"ai_confidence"`
	AIFeedback        *string         `json:"ai_feedback"`
	AIIssues          []string        `json:"ai_issues"`
	AIRecommendations []string        `json:"ai_recommendations"`
	AIAnalyzedAt      *time.Time      `json:"ai_analyzed_at"`
	AIAnalyzedBy      *string         `json:"ai_analyzed_by"`
	AIRawResponse     *string         `json:"ai_raw_response,omitempty"`
	AIProcessingMS    *int64          `json:"ai_processing_ms"`

	AnalysisCount      int                `json:"analysis_count"`
	AnalysisErrorCount int                `json:"analysis_error_count"`
	PreviousAnalyses   []PreviousAnalysis `json:"previous_analyses"`

	ApprovedBy      *string    `json:"approved_by"`
	ApprovedAt      *time.Time `json:"approved_at"`
	RejectionReason *string    `json:"rejection_reason"`
	AdminNotes      *string    `json:"admin_notes"`

	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Analyzed reports whether the resource carries a completed AI analysis.
func (r *Resource) Analyzed() bool {
	return r.AIAnalyzedAt != nil && r.AIVerdict != verdict.VerdictUnknown
}

// PreviousAnalysis is a snapshot of the AI fields taken before a reanalysis
// overwrites them. Snapshots accumulate in submission order and are never
// rewritten.
type PreviousAnalysis struct {
	Verdict         verdict.Verdict `json:"verdict"`
	Confidence      float64         `json:"confidence"`
	Feedback        *string         `json:"feedback"`
	Issues          []string        `json:"issues"`
	Recommendations []string        `json:"recommendations"`
	AnalyzedAt      *time.Time      `json:"analyzed_at"`
	AnalyzedBy      *string         `json:"analyzed_by"`
	ProcessingMS    *int64          `json:"processing_ms"`
	ReanalyzedAt    time.Time       `json:"reanalyzed_at"`
	ReanalyzedBy    string          `json:"reanalyzed_by"`
}

// CreateCommand carries the data needed to register a new resource.
type CreateCommand struct {
	Name      string   `json:"name"`
	Subject   string   `json:"subject"`
	Tags      []string `json:"tags"`
	Items     []Item   `json:"items"`
	CreatedBy string   `json:"-"`
}

// UpdateCommand carries replacement content for a pending resource.
// Applying it resets the current AI analysis state; prior history is kept.
type UpdateCommand struct {
	Name    string   `json:"name"`
	Subject string   `json:"subject"`
	Tags    []string `json:"tags"`
	Items   []Item   `json:"items"`
}

// AnalysisCommand carries a completed analysis result for persistence.
type AnalysisCommand struct {
	Result         verdict.Result
	Operator       string
	ProcessingMS   int64
	ServiceErrored bool
}

// ApproveCommand carries the approval decision and its override flags.
// ForceApproval bypasses the missing-analysis guard; OverrideAI bypasses the
// high-confidence-rejection guard. The flags are independent.
type ApproveCommand struct {
	AdminNotes    *string `json:"admin_notes,omitempty"`
	OverrideAI    bool    `json:"override_ai"`
	ForceApproval bool    `json:"force_approval"`
	Operator      string  `json:"-"`
}

// RejectCommand carries the rejection decision. DeleteFiles requests
// idempotent cleanup of the resource's stored item files.
type RejectCommand struct {
	Reason      string  `json:"reason"`
	AdminNotes  *string `json:"admin_notes,omitempty"`
	DeleteFiles bool    `json:"delete_files"`
	Operator    string  `json:"-"`
}
