// Package verdict implements the AI moderation verdict engine: prompt
// construction, model invocation with retry, response parsing with coercion
// and fallback, and per-item result aggregation.
package verdict

import "time"

// Verdict is the AI moderation recommendation for a resource or item.
type Verdict string

const (
	// VerdictApprove recommends approval.
	VerdictApprove Verdict = "approve"
	// VerdictReject recommends rejection.
	VerdictReject Verdict = "reject"
	// VerdictNeutral indicates the model could not make a clear call.
	VerdictNeutral Verdict = "neutral"
	// VerdictUnknown indicates no analysis has produced a verdict.
	VerdictUnknown Verdict = "unknown"
)

// Valid reports whether v is one of the model-producible verdicts.
func (v Verdict) Valid() bool {
	switch v {
	case VerdictApprove, VerdictReject, VerdictNeutral:
		return true
	}
	return false
}

// Result is the outcome of a single moderation call or an aggregation of
// per-item outcomes.
type Result struct {
	Verdict         Verdict   `json:"verdict"`
	Confidence      float64   `json:"confidence"`
	Feedback        string    `json:"feedback"`
	Issues          []string  `json:"issues"`
	Recommendations []string  `json:"recommendations"`
	RawResponse     string    `json:"raw_response,omitempty"`
	AnalyzedAt      time.Time `json:"analyzed_at"`
}

// ServiceErrored reports whether this result was produced by the transport
// failure fallback rather than a model response.
func (r Result) ServiceErrored() bool {
	for _, issue := range r.Issues {
		if issue == IssueServiceError {
			return true
		}
	}
	return false
}
