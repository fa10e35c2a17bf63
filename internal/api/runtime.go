package api

import (
	"github.com/JaimeStill/lading/internal/config"
	"github.com/JaimeStill/lading/internal/extraction"
	"github.com/JaimeStill/lading/internal/infrastructure"
	"github.com/JaimeStill/lading/internal/knowledge"
	"github.com/JaimeStill/lading/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination    pagination.Config
	Extraction    extraction.Config
	Knowledge     knowledge.Config
	Model         string
	MaxTokens     int
	MaxUploadSize int64
	MaxListSize   int32
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
			LLM:       infra.LLM,
			PDF:       infra.PDF,
		},
		Pagination:    cfg.API.Pagination,
		Extraction:    cfg.Extraction,
		Knowledge:     cfg.Knowledge,
		Model:         cfg.LLM.Model,
		MaxTokens:     cfg.LLM.MaxTokens,
		MaxUploadSize: cfg.API.MaxUploadSizeBytes(),
		MaxListSize:   cfg.Storage.MaxListSize,
	}
}
