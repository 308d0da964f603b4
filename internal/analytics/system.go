package analytics

import "context"

// System defines the public contract for analytics operations.
type System interface {
	Handler() *Handler

	Report(ctx context.Context, timeframeDays int) (*Report, error)
}
