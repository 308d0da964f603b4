package resources

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/openshelf/warden/pkg/handlers"
	"github.com/openshelf/warden/pkg/middleware"
	"github.com/openshelf/warden/pkg/pagination"
	"github.com/openshelf/warden/pkg/routes"
)

// Handler provides HTTP endpoints for resource operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "resources"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for resource endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/resources",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
			{Method: "GET", Pattern: "/analysis-queue", Handler: h.AnalysisQueue},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "PUT", Pattern: "/{id}", Handler: h.Update},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
			{Method: "PUT", Pattern: "/{id}/approve", Handler: h.Approve},
			{Method: "PUT", Pattern: "/{id}/reject", Handler: h.Reject},
		},
	}
}

// List returns a paginated list of resources with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single resource by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidResource)
		return
	}

	res, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, res)
}

// Search accepts a JSON body with pagination and filter criteria and returns matching resources.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidResource)
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.List(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// AnalysisQueue returns both moderation work queues in one payload:
// pending resources awaiting analysis and analyzed resources ready for a
// decision. verdict narrows the ready list.
func (h *Handler) AnalysisQueue(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)

	var verdict *string
	if v := r.URL.Query().Get("verdict"); v != "" {
		verdict = &v
	}

	result, err := h.sys.AnalysisQueue(r.Context(), page, verdict)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Create registers a new resource attributed to the authenticated operator.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	operator := middleware.OperatorFrom(r.Context())
	if operator == "" {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, ErrMissingOperator)
		return
	}

	var cmd CreateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidResource)
		return
	}
	cmd.CreatedBy = operator

	res, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, res)
}

// Update replaces the content of a pending resource, resetting its AI state.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidResource)
		return
	}

	var cmd UpdateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidResource)
		return
	}

	res, err := h.sys.Update(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, res)
}

// Delete removes a resource. delete_files=true also removes stored item files.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidResource)
		return
	}

	deleteFiles, _ := strconv.ParseBool(r.URL.Query().Get("delete_files"))

	if err := h.sys.Delete(r.Context(), id, deleteFiles); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Approve applies the human approval decision through the decision gate.
// Gate failures identify the precondition that failed and the override flag
// that satisfies it.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	operator := middleware.OperatorFrom(r.Context())
	if operator == "" {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, ErrMissingOperator)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidResource)
		return
	}

	var cmd ApproveCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidResource)
		return
	}
	cmd.Operator = operator

	res, err := h.sys.Approve(r.Context(), id, cmd)
	if err != nil {
		h.respondDecisionError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, res)
}

// Reject applies the human rejection decision.
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	operator := middleware.OperatorFrom(r.Context())
	if operator == "" {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, ErrMissingOperator)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidResource)
		return
	}

	var cmd RejectCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidResource)
		return
	}
	cmd.Operator = operator

	res, err := h.sys.Reject(r.Context(), id, cmd)
	if err != nil {
		h.respondDecisionError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, res)
}

// respondDecisionError renders gate failures with the satisfying override
// flag alongside the message; other errors use the standard mapping.
func (h *Handler) respondDecisionError(w http.ResponseWriter, err error) {
	var gate *GateError
	if errors.As(err, &gate) {
		h.logger.Warn("decision gate blocked", "precondition", gate.Precondition)
		handlers.RespondJSON(w, http.StatusConflict, map[string]string{
			"error":         gate.Precondition,
			"override_flag": gate.OverrideFlag,
		})
		return
	}

	handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
}
