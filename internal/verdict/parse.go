package verdict

import (
	"strings"
	"time"

	"github.com/openshelf/warden/pkg/formatting"
)

const (
	// fallbackConfidence replaces malformed or out-of-range confidence values.
	fallbackConfidence = 0.5
	// keywordConfidence is assigned when a verdict is recovered by keyword scan.
	keywordConfidence = 0.6
)

// modelResponse is the loosely-typed shape of a raw model reply. Confidence
// and list fields are declared as any so malformed values can be coerced
// instead of failing the unmarshal.
type modelResponse struct {
	Verdict         string `json:"verdict"`
	Confidence      any    `json:"confidence"`
	Feedback        string `json:"feedback"`
	Issues          any    `json:"issues"`
	Recommendations any    `json:"recommendations"`
}

// parseModelResponse converts raw model output into a Result. JSON parsing
// tolerates markdown code fences; unparseable responses fall back to a
// keyword scan tagged malformed-model-response. The raw response is always
// retained for audit.
func parseModelResponse(content string) Result {
	parsed, err := formatting.Parse[modelResponse](content)
	if err != nil {
		return keywordFallback(content)
	}

	return Result{
		Verdict:         coerceVerdict(parsed.Verdict),
		Confidence:      coerceConfidence(parsed.Confidence),
		Feedback:        parsed.Feedback,
		Issues:          coerceList(parsed.Issues),
		Recommendations: coerceList(parsed.Recommendations),
		RawResponse:     content,
		AnalyzedAt:      time.Now(),
	}
}

func coerceVerdict(s string) Verdict {
	v := Verdict(strings.ToLower(strings.TrimSpace(s)))
	if v.Valid() {
		return v
	}
	return VerdictNeutral
}

func coerceConfidence(v any) float64 {
	f, ok := v.(float64)
	if !ok {
		return fallbackConfidence
	}
	if f < 0 || f > 1 {
		return fallbackConfidence
	}
	return f
}

func coerceList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

var (
	approveTerms = []string{"approve", "approved", "acceptable", "appropriate"}
	rejectTerms  = []string{"reject", "rejected", "inappropriate", "unacceptable", "harmful"}
)

// keywordFallback recovers a verdict from prose responses that did not
// contain parseable JSON. Reject terms win over approve terms since a
// response mentioning both is most often an explained rejection.
func keywordFallback(content string) Result {
	lower := strings.ToLower(content)

	verdict := VerdictNeutral
	confidence := fallbackConfidence

	if containsAny(lower, rejectTerms) {
		verdict = VerdictReject
		confidence = keywordConfidence
	} else if containsAny(lower, approveTerms) {
		verdict = VerdictApprove
		confidence = keywordConfidence
	}

	return Result{
		Verdict:         verdict,
		Confidence:      confidence,
		Feedback:        "Model response was not valid JSON; verdict recovered by keyword scan",
		Issues:          []string{IssueMalformedResponse},
		Recommendations: []string{"Manual review recommended"},
		RawResponse:     content,
		AnalyzedAt:      time.Now(),
	}
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
