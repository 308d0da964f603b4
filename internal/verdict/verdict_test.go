package verdict_test

import (
	"strings"
	"testing"

	"github.com/openshelf/warden/internal/verdict"
)

func TestVerdictValid(t *testing.T) {
	tests := []struct {
		name    string
		verdict verdict.Verdict
		want    bool
	}{
		{"approve", verdict.VerdictApprove, true},
		{"reject", verdict.VerdictReject, true},
		{"neutral", verdict.VerdictNeutral, true},
		{"unknown", verdict.VerdictUnknown, false},
		{"empty", verdict.Verdict(""), false},
		{"arbitrary", verdict.Verdict("maybe"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.verdict.Valid(); got != tt.want {
				t.Errorf("Valid(%q) = %v, want %v", tt.verdict, got, tt.want)
			}
		})
	}
}

func TestResultServiceErrored(t *testing.T) {
	errored := verdict.Result{Issues: []string{verdict.IssueServiceError}}
	if !errored.ServiceErrored() {
		t.Error("ServiceErrored() = false for service-error result")
	}

	clean := verdict.Result{Issues: []string{"low quality"}}
	if clean.ServiceErrored() {
		t.Error("ServiceErrored() = true for clean result")
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := verdict.BuildPrompt(verdict.DefaultInstructions, verdict.Descriptor{
		Name:      "Intro to Algebra",
		Subject:   "mathematics",
		Tags:      []string{"algebra", "beginner"},
		ItemType:  "pdf",
		ItemIndex: 0,
		Content:   "PDF document, 12 pages",
	})

	for _, want := range []string{
		"Resource: Intro to Algebra",
		"Subject: mathematics",
		"Tags: algebra, beginner",
		"Item 1 (pdf):",
		"PDF document, 12 pages",
		`"verdict"`,
		`"confidence"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	if !strings.HasPrefix(prompt, verdict.DefaultInstructions) {
		t.Error("prompt does not start with instructions")
	}
}

func TestBuildPromptOmitsEmptyTags(t *testing.T) {
	prompt := verdict.BuildPrompt("instructions", verdict.Descriptor{
		Name:      "Untagged",
		Subject:   "science",
		ItemType:  "link",
		ItemIndex: 2,
		Content:   "a link",
	})

	if strings.Contains(prompt, "Tags:") {
		t.Error("prompt contains Tags line for empty tag list")
	}
	if !strings.Contains(prompt, "Item 3 (link):") {
		t.Error("prompt item index is not 1-based")
	}
}
