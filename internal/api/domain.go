package api

import (
	"github.com/openshelf/warden/internal/analytics"
	"github.com/openshelf/warden/internal/moderation"
	"github.com/openshelf/warden/internal/prompts"
	"github.com/openshelf/warden/internal/resources"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Resources  resources.System
	Prompts    prompts.System
	Moderation moderation.System
	Analytics  analytics.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	resourcesSystem := resources.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	promptsSystem := prompts.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	moderationSystem := moderation.New(
		runtime.Agent,
		runtime.Moderation,
		runtime.Storage,
		resourcesSystem,
		promptsSystem,
		runtime.Logger,
	)

	analyticsSystem := analytics.New(
		runtime.Database.Connection(),
		runtime.Logger,
	)

	return &Domain{
		Resources:  resourcesSystem,
		Prompts:    promptsSystem,
		Moderation: moderationSystem,
		Analytics:  analyticsSystem,
	}
}
