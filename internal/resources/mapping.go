package resources

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/openshelf/warden/internal/verdict"
	"github.com/openshelf/warden/pkg/query"
	"github.com/openshelf/warden/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "resources", "r").
	Project("id", "ID").
	Project("slug", "Slug").
	Project("name", "Name").
	Project("subject", "Subject").
	Project("tags", "Tags").
	Project("items", "Items").
	Project("status", "Status").
	Project("ai_verdict", "AIVerdict").
	Project("ai_confidence", "AIConfidence").
	Project("ai_feedback", "AIFeedback").
	Project("ai_issues", "AIIssues").
	Project("ai_recommendations", "AIRecommendations").
	Project("ai_analyzed_at", "AIAnalyzedAt").
	Project("ai_analyzed_by", "AIAnalyzedBy").
	Project("ai_raw_response", "AIRawResponse").
	Project("ai_processing_ms", "AIProcessingMS").
	Project("analysis_count", "AnalysisCount").
	Project("analysis_error_count", "AnalysisErrorCount").
	Project("previous_analyses", "PreviousAnalyses").
	Project("approved_by", "ApprovedBy").
	Project("approved_at", "ApprovedAt").
	Project("rejection_reason", "RejectionReason").
	Project("admin_notes", "AdminNotes").
	Project("created_by", "CreatedBy").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// resourceColumns is the unqualified column list used in INSERT and UPDATE
// RETURNING clauses. Order must match scanResource.
const resourceColumns = `id, slug, name, subject, tags, items, status,
	ai_verdict, ai_confidence, ai_feedback, ai_issues, ai_recommendations,
	ai_analyzed_at, ai_analyzed_by, ai_raw_response, ai_processing_ms,
	analysis_count, analysis_error_count, previous_analyses,
	approved_by, approved_at, rejection_reason, admin_notes,
	created_by, created_at, updated_at`

// Filters contains optional filtering criteria for resource queries.
// Nil fields are ignored. Tag matches resources whose tags jsonb array
// contains the given value.
type Filters struct {
	Status    *string `json:"status,omitempty"`
	Subject   *string `json:"subject,omitempty"`
	Name      *string `json:"name,omitempty"`
	CreatedBy *string `json:"created_by,omitempty"`
	AIVerdict *string `json:"ai_verdict,omitempty"`
	Tag       *string `json:"tag,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	b.
		WhereEquals("Status", f.Status).
		WhereEquals("Subject", f.Subject).
		WhereContains("Name", f.Name).
		WhereEquals("CreatedBy", f.CreatedBy).
		WhereEquals("AIVerdict", f.AIVerdict)

	if f.Tag != nil && *f.Tag != "" {
		b.WhereExpr("r.tags @> jsonb_build_array($%d::text)", *f.Tag)
	}

	return b
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}
	if s := values.Get("subject"); s != "" {
		f.Subject = &s
	}
	if s := values.Get("name"); s != "" {
		f.Name = &s
	}
	if s := values.Get("created_by"); s != "" {
		f.CreatedBy = &s
	}
	if s := values.Get("ai_verdict"); s != "" {
		f.AIVerdict = &s
	}
	if s := values.Get("tag"); s != "" {
		f.Tag = &s
	}

	return f
}

func scanResource(s repository.Scanner) (Resource, error) {
	var (
		r         Resource
		aiVerdict string
		tags      []byte
		items     []byte
		issues    []byte
		recs      []byte
		previous  []byte
	)

	err := s.Scan(
		&r.ID,
		&r.Slug,
		&r.Name,
		&r.Subject,
		&tags,
		&items,
		&r.Status,
		&aiVerdict,
		&r.AIConfidence,
		&r.AIFeedback,
		&issues,
		&recs,
		&r.AIAnalyzedAt,
		&r.AIAnalyzedBy,
		&r.AIRawResponse,
		&r.AIProcessingMS,
		&r.AnalysisCount,
		&r.AnalysisErrorCount,
		&previous,
		&r.ApprovedBy,
		&r.ApprovedAt,
		&r.RejectionReason,
		&r.AdminNotes,
		&r.CreatedBy,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return r, err
	}

	r.AIVerdict = verdict.Verdict(aiVerdict)

	if err := unmarshalColumn(tags, &r.Tags); err != nil {
		return r, fmt.Errorf("decode tags: %w", err)
	}
	if err := unmarshalColumn(items, &r.Items); err != nil {
		return r, fmt.Errorf("decode items: %w", err)
	}
	if err := unmarshalColumn(issues, &r.AIIssues); err != nil {
		return r, fmt.Errorf("decode ai_issues: %w", err)
	}
	if err := unmarshalColumn(recs, &r.AIRecommendations); err != nil {
		return r, fmt.Errorf("decode ai_recommendations: %w", err)
	}
	if err := unmarshalColumn(previous, &r.PreviousAnalyses); err != nil {
		return r, fmt.Errorf("decode previous_analyses: %w", err)
	}

	return r, nil
}

func unmarshalColumn[T any](data []byte, dest *T) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dest)
}
