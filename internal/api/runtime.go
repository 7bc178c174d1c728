package api

import (
	"github.com/JaimeStill/stance/internal/config"
	"github.com/JaimeStill/stance/internal/infrastructure"
	"github.com/JaimeStill/stance/pkg/completion"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	CompletionConfig *completion.Config
	Batch            config.BatchConfig
	MaxUploadSize    int64
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	scoped := *infra
	scoped.Logger = infra.Logger.With("module", "api")

	return &Runtime{
		Infrastructure:   &scoped,
		CompletionConfig: &cfg.Completion,
		Batch:            cfg.Batch,
		MaxUploadSize:    cfg.API.MaxUploadSizeBytes(),
	}
}
