package verdict_test

import (
	"math"
	"strings"
	"testing"

	"github.com/openshelf/warden/internal/verdict"
)

func TestAggregateEmpty(t *testing.T) {
	result := verdict.Aggregate(nil, nil)

	if result.Verdict != verdict.VerdictUnknown {
		t.Errorf("Verdict = %q, want unknown", result.Verdict)
	}
	if result.Confidence != 0 {
		t.Errorf("Confidence = %v, want 0", result.Confidence)
	}
}

func TestAggregateVerdicts(t *testing.T) {
	tests := []struct {
		name     string
		verdicts []verdict.Verdict
		want     verdict.Verdict
	}{
		{"all approve", []verdict.Verdict{verdict.VerdictApprove, verdict.VerdictApprove}, verdict.VerdictApprove},
		{"single reject dominates", []verdict.Verdict{verdict.VerdictApprove, verdict.VerdictReject, verdict.VerdictApprove}, verdict.VerdictReject},
		{"neutral blocks approval", []verdict.Verdict{verdict.VerdictApprove, verdict.VerdictNeutral}, verdict.VerdictNeutral},
		{"all neutral", []verdict.Verdict{verdict.VerdictNeutral, verdict.VerdictNeutral}, verdict.VerdictNeutral},
		{"reject wins over neutral", []verdict.Verdict{verdict.VerdictNeutral, verdict.VerdictReject}, verdict.VerdictReject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := make([]verdict.Result, len(tt.verdicts))
			for i, v := range tt.verdicts {
				results[i] = verdict.Result{Verdict: v}
			}

			combined := verdict.Aggregate(results, nil)
			if combined.Verdict != tt.want {
				t.Errorf("Verdict = %q, want %q", combined.Verdict, tt.want)
			}
		})
	}
}

func TestAggregateConfidenceMean(t *testing.T) {
	results := []verdict.Result{
		{Verdict: verdict.VerdictApprove, Confidence: 0.8},
		{Verdict: verdict.VerdictApprove, Confidence: 0.6},
	}

	combined := verdict.Aggregate(results, []string{"pdf", "link"})

	if math.Abs(combined.Confidence-0.7) > 1e-9 {
		t.Errorf("Confidence = %v, want 0.7", combined.Confidence)
	}
}

func TestAggregateFeedbackOrder(t *testing.T) {
	results := []verdict.Result{
		{Verdict: verdict.VerdictApprove, Feedback: "clear writing"},
		{Verdict: verdict.VerdictReject, Feedback: "broken link"},
	}

	combined := verdict.Aggregate(results, []string{"markdown", "link"})

	lines := strings.Split(combined.Feedback, "\n")
	if len(lines) != 2 {
		t.Fatalf("feedback has %d lines, want 2", len(lines))
	}
	if lines[0] != "Item 1 (markdown): clear writing" {
		t.Errorf("line 1 = %q", lines[0])
	}
	if lines[1] != "Item 2 (link): broken link" {
		t.Errorf("line 2 = %q", lines[1])
	}
}

func TestAggregateFlattensWithoutDeduplication(t *testing.T) {
	results := []verdict.Result{
		{Verdict: verdict.VerdictReject, Issues: []string{"outdated"}, Recommendations: []string{"update"}},
		{Verdict: verdict.VerdictReject, Issues: []string{"outdated"}, Recommendations: []string{"update"}},
	}

	combined := verdict.Aggregate(results, []string{"pdf", "pdf"})

	if len(combined.Issues) != 2 {
		t.Errorf("Issues = %v, want 2 entries", combined.Issues)
	}
	if len(combined.Recommendations) != 2 {
		t.Errorf("Recommendations = %v, want 2 entries", combined.Recommendations)
	}
}
