package verdict

import (
	"fmt"
	"strings"
	"time"
)

// Aggregate combines per-item results into a single resource-level result.
// The verdict is reject-dominant: any item rejection rejects the resource,
// all approvals approve it, anything else is neutral. Confidence is the
// arithmetic mean. Feedback lines are ordered by item position; issues and
// recommendations are flattened in order without deduplication.
//
// Callers must pass at least one result; an empty slice returns the zero
// Result with an unknown verdict.
func Aggregate(results []Result, itemTypes []string) Result {
	if len(results) == 0 {
		return Result{Verdict: VerdictUnknown}
	}

	var (
		confidenceSum   float64
		anyReject       bool
		allApprove      = true
		feedback        = make([]string, 0, len(results))
		issues          = make([]string, 0)
		recommendations = make([]string, 0)
	)

	for i, r := range results {
		confidenceSum += r.Confidence

		switch r.Verdict {
		case VerdictReject:
			anyReject = true
			allApprove = false
		case VerdictApprove:
		default:
			allApprove = false
		}

		itemType := ""
		if i < len(itemTypes) {
			itemType = itemTypes[i]
		}
		feedback = append(feedback, fmt.Sprintf("Item %d (%s): %s", i+1, itemType, r.Feedback))

		issues = append(issues, r.Issues...)
		recommendations = append(recommendations, r.Recommendations...)
	}

	verdict := VerdictNeutral
	switch {
	case anyReject:
		verdict = VerdictReject
	case allApprove:
		verdict = VerdictApprove
	}

	return Result{
		Verdict:         verdict,
		Confidence:      confidenceSum / float64(len(results)),
		Feedback:        strings.Join(feedback, "\n"),
		Issues:          issues,
		Recommendations: recommendations,
		AnalyzedAt:      time.Now(),
	}
}
