package infrastructure_test

import (
	"testing"

	"github.com/JaimeStill/lading/internal/config"
	"github.com/JaimeStill/lading/internal/infrastructure"
	"github.com/JaimeStill/lading/pkg/database"
	"github.com/JaimeStill/lading/pkg/llm"
	"github.com/JaimeStill/lading/pkg/pdftext"
	"github.com/JaimeStill/lading/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=ladingstore;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/ladingstore;"

func validConfig() *config.Config {
	return &config.Config{
		Database: database.Config{
			Host:            "localhost",
			Port:            5432,
			Name:            "lading",
			User:            "lading",
			Password:        "lading",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: "15m",
			ConnTimeout:     "5s",
		},
		Storage: storage.Config{
			ContainerName:    "documents",
			ConnectionString: azuriteConnString,
		},
		LLM: llm.Config{
			Provider:  llm.ProviderAnthropic,
			Model:     "claude-sonnet-4-5",
			MaxTokens: 4096,
			Anthropic: llm.AnthropicCfg{APIKey: "test-key"},
		},
		OCR:     pdftext.Config{Backend: pdftext.BackendLocal},
		Version: "0.1.0",
	}
}

func TestNew(t *testing.T) {
	infra, err := infrastructure.New(validConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if infra.Lifecycle == nil {
		t.Error("Lifecycle is nil")
	}
	if infra.Logger == nil {
		t.Error("Logger is nil")
	}
	if infra.Database == nil {
		t.Error("Database is nil")
	}
	if infra.Storage == nil {
		t.Error("Storage is nil")
	}
	if infra.LLM == nil {
		t.Error("LLM is nil")
	}
	if infra.PDF == nil {
		t.Error("PDF is nil")
	}
}

func TestNewDatabaseConnection(t *testing.T) {
	infra, err := infrastructure.New(validConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	conn := infra.Database.Connection()
	if conn == nil {
		t.Fatal("Database.Connection() returned nil")
	}
	conn.Close()
}

func TestNewInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{
			name:   "storage connection string",
			mutate: func(c *config.Config) { c.Storage.ConnectionString = "not-a-connection-string" },
		},
		{
			name:   "llm provider",
			mutate: func(c *config.Config) { c.LLM.Provider = "openai" },
		},
		{
			name:   "ocr backend",
			mutate: func(c *config.Config) { c.OCR.Backend = "tesseract" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			if _, err := infrastructure.New(cfg); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
