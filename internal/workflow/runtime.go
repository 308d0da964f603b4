package workflow

import (
	"log/slog"

	"github.com/openshelf/warden/internal/extract"
	"github.com/openshelf/warden/internal/prompts"
	"github.com/openshelf/warden/internal/resources"
	"github.com/openshelf/warden/internal/verdict"
)

// Runtime bundles the dependencies that workflow nodes require.
// It is constructed by higher-level composition code from Infrastructure and Domain systems.
type Runtime struct {
	Engine    *verdict.Engine
	Extractor *extract.Extractor
	Resources resources.System
	Prompts   prompts.System
	Logger    *slog.Logger
}
