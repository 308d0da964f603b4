package resources

import (
	"context"

	"github.com/google/uuid"

	"github.com/openshelf/warden/pkg/pagination"
)

// AnalysisQueueResult pairs the two moderation work queues in one payload:
// pending resources still awaiting analysis and analyzed resources ready for
// a human decision. Each list carries its own total.
type AnalysisQueueResult struct {
	Awaiting *pagination.PageResult[Resource] `json:"awaiting"`
	Ready    *pagination.PageResult[Resource] `json:"ready"`
}

// System defines the public contract for resource domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Resource], error)

	Find(ctx context.Context, id uuid.UUID) (*Resource, error)
	Create(ctx context.Context, cmd CreateCommand) (*Resource, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Resource, error)
	Delete(ctx context.Context, id uuid.UUID, deleteFiles bool) error

	ApplyAnalysis(ctx context.Context, id uuid.UUID, cmd AnalysisCommand) (*Resource, error)
	ApplyReanalysis(ctx context.Context, id uuid.UUID, cmd AnalysisCommand) (*Resource, *PreviousAnalysis, error)
	AnalysisQueue(
		ctx context.Context,
		page pagination.PageRequest,
		verdict *string,
	) (*AnalysisQueueResult, error)

	Approve(ctx context.Context, id uuid.UUID, cmd ApproveCommand) (*Resource, error)
	Reject(ctx context.Context, id uuid.UUID, cmd RejectCommand) (*Resource, error)
}
