package api

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"

	"github.com/openshelf/warden/pkg/handlers"
	"github.com/openshelf/warden/pkg/routes"
	"github.com/openshelf/warden/pkg/storage"
)

// storageHandler exposes blob operations for item files. Uploads happen
// before resource creation; the returned key goes into the item payload.
type storageHandler struct {
	store         storage.System
	logger        *slog.Logger
	maxUploadSize int64
}

func newStorageHandler(
	store storage.System,
	logger *slog.Logger,
	maxUploadSize int64,
) *storageHandler {
	return &storageHandler{
		store:         store,
		logger:        logger.With("handler", "storage"),
		maxUploadSize: maxUploadSize,
	}
}

func (h *storageHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/storage",
		Routes: []routes.Route{
			{Method: "PUT", Pattern: "/{key...}", Handler: h.upload},
			{Method: "GET", Pattern: "/{key...}", Handler: h.download},
			{Method: "HEAD", Pattern: "/{key...}", Handler: h.exists},
			{Method: "DELETE", Pattern: "/{key...}", Handler: h.remove},
		},
	}
}

func (h *storageHandler) upload(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	body := http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	defer body.Close()

	if err := h.store.Upload(r.Context(), key, body, contentType); err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, map[string]string{"key": key})
}

func (h *storageHandler) download(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	blob, err := h.store.Download(r.Context(), key)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}
	defer blob.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set(
		"Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", path.Base(key)),
	)
	w.WriteHeader(http.StatusOK)
	io.Copy(w, blob)
}

func (h *storageHandler) exists(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	found, err := h.store.Exists(r.Context(), key)
	if err != nil {
		w.WriteHeader(storage.MapHTTPStatus(err))
		return
	}

	if !found {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *storageHandler) remove(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	if err := h.store.Delete(r.Context(), key); err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
