// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, storage, LLM provider,
// text extraction) that domain systems require.
package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/lading/internal/config"
	"github.com/JaimeStill/lading/pkg/database"
	"github.com/JaimeStill/lading/pkg/lifecycle"
	"github.com/JaimeStill/lading/pkg/llm"
	"github.com/JaimeStill/lading/pkg/pdftext"
	"github.com/JaimeStill/lading/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, database access, file storage, and the extraction backends.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	LLM       llm.Provider
	PDF       pdftext.Extractor
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	provider, err := llm.New(context.Background(), &cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("llm init failed: %w", err)
	}

	pdf, err := pdftext.New(&cfg.OCR)
	if err != nil {
		return nil, fmt.Errorf("ocr init failed: %w", err)
	}

	logger.Info(
		"extraction backends ready",
		"llm_provider", cfg.LLM.Provider,
		"model", cfg.LLM.Model,
		"ocr_backend", cfg.OCR.Backend,
	)

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
		LLM:       provider,
		PDF:       pdf,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
// Database and storage hooks are registered for startup and shutdown coordination.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	return nil
}
