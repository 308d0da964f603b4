// Package workflow implements the moderation workflow for Warden.
// It provides foundational types and the 3-node state graph
// (init → moderate → finalize) that analyzes a resource's items.
package workflow

import "errors"

// Sentinel errors for workflow operations.
var (
	ErrResourceNotFound   = errors.New("resource not found")
	ErrResourceNotPending = errors.New("resource is not pending")
	ErrModerateFailed     = errors.New("moderation failed")
)
