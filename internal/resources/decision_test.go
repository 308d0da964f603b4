package resources

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/openshelf/warden/internal/verdict"
)

func analyzedResource(v verdict.Verdict, confidence float64) *Resource {
	analyzedAt := time.Now()
	return &Resource{
		Status:       StatusPending,
		AIVerdict:    v,
		AIConfidence: confidence,
		AIAnalyzedAt: &analyzedAt,
	}
}

func TestApprovalGuard(t *testing.T) {
	tests := []struct {
		name     string
		resource *Resource
		cmd      ApproveCommand
		wantFlag string
	}{
		{
			"unanalyzed without force blocked",
			&Resource{Status: StatusPending, AIVerdict: verdict.VerdictUnknown},
			ApproveCommand{},
			"force_approval",
		},
		{
			"unanalyzed with force passes",
			&Resource{Status: StatusPending, AIVerdict: verdict.VerdictUnknown},
			ApproveCommand{ForceApproval: true},
			"",
		},
		{
			"confident rejection without override blocked",
			analyzedResource(verdict.VerdictReject, 0.9),
			ApproveCommand{},
			"override_ai",
		},
		{
			"confident rejection with override passes",
			analyzedResource(verdict.VerdictReject, 0.9),
			ApproveCommand{OverrideAI: true},
			"",
		},
		{
			"rejection at threshold passes without override",
			analyzedResource(verdict.VerdictReject, 0.7),
			ApproveCommand{},
			"",
		},
		{
			"low confidence rejection passes",
			analyzedResource(verdict.VerdictReject, 0.4),
			ApproveCommand{},
			"",
		},
		{
			"approve verdict passes",
			analyzedResource(verdict.VerdictApprove, 0.95),
			ApproveCommand{},
			"",
		},
		{
			"force does not bypass confident rejection",
			analyzedResource(verdict.VerdictReject, 0.95),
			ApproveCommand{ForceApproval: true},
			"override_ai",
		},
		{
			"override does not bypass missing analysis",
			&Resource{Status: StatusPending, AIVerdict: verdict.VerdictUnknown},
			ApproveCommand{OverrideAI: true},
			"force_approval",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := approvalGuard(tt.resource, tt.cmd)

			if tt.wantFlag == "" {
				if err != nil {
					t.Errorf("approvalGuard = %v, want nil", err)
				}
				return
			}

			var gate *GateError
			if !errors.As(err, &gate) {
				t.Fatalf("approvalGuard = %v, want GateError", err)
			}
			if gate.OverrideFlag != tt.wantFlag {
				t.Errorf("OverrideFlag = %q, want %q", gate.OverrideFlag, tt.wantFlag)
			}
		})
	}
}

func TestRejectionGuard(t *testing.T) {
	tests := []struct {
		name    string
		reason  string
		wantErr bool
	}{
		{"long enough", "low production quality", false},
		{"exactly ten characters", "0123456789", false},
		{"too short", "bad", true},
		{"whitespace padding ignored", "   short   ", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rejectionGuard(RejectCommand{Reason: tt.reason})
			if tt.wantErr && !errors.Is(err, ErrReasonTooShort) {
				t.Errorf("rejectionGuard(%q) = %v, want ErrReasonTooShort", tt.reason, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("rejectionGuard(%q) = %v, want nil", tt.reason, err)
			}
		})
	}
}

func TestGateErrorMessage(t *testing.T) {
	err := errMissingAnalysis.Error()
	if !strings.Contains(err, "force_approval") {
		t.Errorf("Error() = %q, want override flag named", err)
	}
}

func TestBuildSlug(t *testing.T) {
	id := uuid.MustParse("a1b2c3d4-0000-0000-0000-000000000000")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Intro to Algebra", "intro-to-algebra-a1b2c3d4"},
		{"punctuation collapsed", "C++ / Rust: A Comparison!", "c-rust-a-comparison-a1b2c3d4"},
		{"empty name falls back", "!!!", "resource-a1b2c3d4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildSlug(tt.in, id); got != tt.want {
				t.Errorf("buildSlug(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
