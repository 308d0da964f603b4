package resources

import (
	"fmt"
	"strings"

	"github.com/openshelf/warden/internal/verdict"
)

const (
	// minReasonLength is the uniform minimum for human rejection reasons.
	minReasonLength = 10
	// highConfidenceRejection is the AI confidence above which an approval
	// contradicting an AI rejection requires the override_ai flag.
	highConfidenceRejection = 0.7
)

// GateError is a decision gate failure. It names the precondition that
// failed and the request flag that bypasses it, so clients can surface the
// exact override required.
type GateError struct {
	Precondition string
	OverrideFlag string
}

func (e *GateError) Error() string {
	return fmt.Sprintf("%s (set %s to proceed)", e.Precondition, e.OverrideFlag)
}

var (
	// errMissingAnalysis blocks approval of unanalyzed resources.
	errMissingAnalysis = &GateError{
		Precondition: "resource has no completed AI analysis",
		OverrideFlag: "force_approval",
	}
	// errConfidentRejection blocks approval against a confident AI rejection.
	errConfidentRejection = &GateError{
		Precondition: "AI rejected this resource with high confidence",
		OverrideFlag: "override_ai",
	}
)

// approvalGuard evaluates the decision gate preconditions for approving a
// pending resource. The two overrides are independent: force_approval only
// bypasses the missing-analysis guard and override_ai only bypasses the
// confident-rejection guard.
func approvalGuard(res *Resource, cmd ApproveCommand) error {
	if !res.Analyzed() && !cmd.ForceApproval {
		return errMissingAnalysis
	}

	confidentRejection := res.AIVerdict == verdict.VerdictReject &&
		res.AIConfidence > highConfidenceRejection
	if confidentRejection && !cmd.OverrideAI {
		return errConfidentRejection
	}

	return nil
}

// rejectionGuard validates the human rejection input. Rejection is never
// gated on the AI verdict.
func rejectionGuard(cmd RejectCommand) error {
	if len(strings.TrimSpace(cmd.Reason)) < minReasonLength {
		return ErrReasonTooShort
	}
	return nil
}
