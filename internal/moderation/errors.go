package moderation

import (
	"errors"
	"net/http"

	"github.com/openshelf/warden/internal/resources"
	"github.com/openshelf/warden/internal/workflow"
)

// Domain errors for moderation operations.
var (
	ErrEmptyBatch      = errors.New("batch contains no resource ids")
	ErrBatchTooLarge   = errors.New("batch exceeds maximum size")
	ErrMissingOperator = errors.New("operator identity required")
	ErrInvalidRequest  = errors.New("invalid moderation request")
)

// MapHTTPStatus maps moderation and workflow errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, workflow.ErrResourceNotFound),
		errors.Is(err, resources.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, workflow.ErrResourceNotPending),
		errors.Is(err, resources.ErrNotPending),
		errors.Is(err, resources.ErrNotAnalyzed):
		return http.StatusConflict
	case errors.Is(err, ErrEmptyBatch),
		errors.Is(err, ErrBatchTooLarge),
		errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrMissingOperator):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
