package api

import (
	"github.com/JaimeStill/lading/internal/documents"
	"github.com/JaimeStill/lading/internal/extraction"
	"github.com/JaimeStill/lading/internal/extractions"
	"github.com/JaimeStill/lading/internal/knowledge"
	"github.com/JaimeStill/lading/internal/pipeline"
	"github.com/JaimeStill/lading/internal/prompts"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Documents   documents.System
	Extractions extractions.System
	Knowledge   knowledge.System
	Prompts     prompts.System
}

// NewDomain creates all domain systems from the API runtime. Prompt
// overrides and knowledge examples feed the extraction service, which the
// pipeline drives for each stored document.
func NewDomain(runtime *Runtime) *Domain {
	db := runtime.Database.Connection()

	docsSystem := documents.New(
		db,
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	promptsSystem := prompts.New(
		db,
		runtime.Logger,
		runtime.Pagination,
	)

	knowledgeSystem := knowledge.New(
		knowledge.NewPostgresStore(db),
		runtime.Logger,
		runtime.Knowledge,
		runtime.Pagination,
	)

	service := extraction.New(extraction.Runtime{
		Provider:  runtime.LLM,
		Prompts:   promptsSystem,
		Examples:  knowledgeSystem,
		Model:     runtime.Model,
		MaxTokens: runtime.MaxTokens,
		Logger:    runtime.Logger,
	}, runtime.Extraction)

	pipe := pipeline.New(pipeline.Runtime{
		PDF:          runtime.PDF,
		Extraction:   service,
		Examples:     knowledgeSystem,
		FewShotLimit: runtime.Knowledge.FewShotLimit,
		Logger:       runtime.Logger,
	})

	extractionsSystem := extractions.New(
		db,
		docsSystem,
		pipe,
		knowledgeSystem,
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Documents:   docsSystem,
		Extractions: extractionsSystem,
		Knowledge:   knowledgeSystem,
		Prompts:     promptsSystem,
	}
}
