package api

import (
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/openshelf/warden/internal/config"
	"github.com/openshelf/warden/internal/infrastructure"
	"github.com/openshelf/warden/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Agent      gaconfig.AgentConfig
	Moderation config.ModerationConfig
	Pagination pagination.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
		},
		Agent:      cfg.Agent,
		Moderation: cfg.Moderation,
		Pagination: cfg.API.Pagination,
	}
}
