package analytics

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/openshelf/warden/pkg/handlers"
	"github.com/openshelf/warden/pkg/routes"
)

// Handler provides HTTP endpoints for analytics operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "analytics"),
	}
}

// Routes returns the route group definition for analytics endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/analytics",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/ai-moderation", Handler: h.Report},
		},
	}
}

// Report returns aggregate AI moderation metrics. The timeframe query
// parameter selects the trailing window in days.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	timeframe := DefaultTimeframeDays
	if v := r.URL.Query().Get("timeframe"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			handlers.RespondError(w, h.logger, http.StatusBadRequest,
				errInvalidTimeframe)
			return
		}
		timeframe = parsed
	}

	report, err := h.sys.Report(r.Context(), timeframe)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, report)
}
