// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/openshelf/warden/internal/config"
	"github.com/openshelf/warden/internal/infrastructure"
	"github.com/openshelf/warden/pkg/middleware"
	"github.com/openshelf/warden/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(
	ctx context.Context,
	cfg *config.Config,
	infra *infrastructure.Infrastructure,
) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg, runtime)

	auth, err := middleware.Auth(ctx, &cfg.API.Auth, runtime.Logger)
	if err != nil {
		return nil, fmt.Errorf("auth middleware: %w", err)
	}

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(auth)

	return m, nil
}
