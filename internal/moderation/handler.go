package moderation

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/openshelf/warden/pkg/handlers"
	"github.com/openshelf/warden/pkg/middleware"
	"github.com/openshelf/warden/pkg/routes"
)

// Handler provides HTTP endpoints for moderation operations. Routes mount
// under the resources prefix since they act on individual resources.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "moderation"),
	}
}

// Routes returns the route group definition for moderation endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/resources",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/batch-analyze", Handler: h.AnalyzeBatch},
			{Method: "POST", Pattern: "/{id}/analyze", Handler: h.Analyze},
			{Method: "POST", Pattern: "/{id}/reanalyze", Handler: h.Reanalyze},
		},
	}
}

// Analyze runs AI analysis for a single pending resource.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	operator := middleware.OperatorFrom(r.Context())
	if operator == "" {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, ErrMissingOperator)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	res, err := h.sys.Analyze(r.Context(), id, operator)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, res)
}

// Reanalyze archives the current analysis and runs a fresh one. The
// response includes the archived snapshot.
func (h *Handler) Reanalyze(w http.ResponseWriter, r *http.Request) {
	operator := middleware.OperatorFrom(r.Context())
	if operator == "" {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, ErrMissingOperator)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	outcome, err := h.sys.Reanalyze(r.Context(), id, operator)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, outcome)
}

// AnalyzeBatch analyzes a list of resources. Responds 200 when every
// resource succeeded and 207 when any failed.
func (h *Handler) AnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	operator := middleware.OperatorFrom(r.Context())
	if operator == "" {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, ErrMissingOperator)
		return
	}

	var cmd BatchCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidRequest)
		return
	}

	outcome, err := h.sys.AnalyzeBatch(r.Context(), cmd, operator)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	status := http.StatusOK
	if outcome.Partial() {
		status = http.StatusMultiStatus
	}

	handlers.RespondJSON(w, status, outcome)
}
