package resources

import (
	"errors"
	"net/http"
)

// Domain errors for resource operations.
var (
	ErrNotFound        = errors.New("resource not found")
	ErrDuplicate       = errors.New("resource already exists")
	ErrInvalidResource = errors.New("invalid resource")
	ErrNoItems         = errors.New("resource requires at least one item")
	ErrInvalidItem     = errors.New("invalid resource item")
	ErrNotPending      = errors.New("resource is not pending")
	ErrNotAnalyzed     = errors.New("resource has no prior analysis")
	ErrReasonTooShort  = errors.New("rejection reason must be at least 10 characters")
	ErrMissingOperator = errors.New("operator identity required")
)

// MapHTTPStatus maps resource domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	var gate *GateError
	if errors.As(err, &gate) {
		return http.StatusConflict
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrNotPending), errors.Is(err, ErrNotAnalyzed):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidResource),
		errors.Is(err, ErrNoItems),
		errors.Is(err, ErrInvalidItem),
		errors.Is(err, ErrReasonTooShort):
		return http.StatusBadRequest
	case errors.Is(err, ErrMissingOperator):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}
