package api

import (
	"net/http"

	"github.com/openshelf/warden/internal/config"
	"github.com/openshelf/warden/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	store := newStorageHandler(
		runtime.Storage,
		runtime.Logger,
		cfg.API.MaxUploadSizeBytes(),
	)

	routes.Register(
		mux,
		domain.Resources.Handler().Routes(),
		domain.Moderation.Handler().Routes(),
		domain.Prompts.Handler().Routes(),
		domain.Analytics.Handler().Routes(),
		store.routes(),
	)
}
