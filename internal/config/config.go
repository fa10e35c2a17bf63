// Package config loads the service configuration from config.toml, an
// optional config.<LADING_ENV>.toml overlay, and LADING_* environment
// variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/lading/internal/extraction"
	"github.com/JaimeStill/lading/internal/knowledge"
	"github.com/JaimeStill/lading/pkg/database"
	"github.com/JaimeStill/lading/pkg/llm"
	"github.com/JaimeStill/lading/pkg/pdftext"
	"github.com/JaimeStill/lading/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvLadingEnv             = "LADING_ENV"
	EnvLadingShutdownTimeout = "LADING_SHUTDOWN_TIMEOUT"
	EnvLadingVersion         = "LADING_VERSION"
)

var databaseEnv = &database.Env{
	Host:             "LADING_DB_HOST",
	Port:             "LADING_DB_PORT",
	Name:             "LADING_DB_NAME",
	User:             "LADING_DB_USER",
	Password:         "LADING_DB_PASSWORD",
	SSLMode:          "LADING_DB_SSL_MODE",
	ApplicationName:  "LADING_DB_APPLICATION_NAME",
	StatementTimeout: "LADING_DB_STATEMENT_TIMEOUT",
	MaxOpenConns:     "LADING_DB_MAX_OPEN_CONNS",
	MaxIdleConns:     "LADING_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime:  "LADING_DB_CONN_MAX_LIFETIME",
	ConnTimeout:      "LADING_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	Backend:          "LADING_STORAGE_BACKEND",
	ContainerName:    "LADING_STORAGE_CONTAINER_NAME",
	ConnectionString: "LADING_STORAGE_CONNECTION_STRING",
	MaxListSize:      "LADING_STORAGE_MAX_LIST_SIZE",
}

// Config is the root configuration for the Lading service.
type Config struct {
	Server          ServerConfig      `toml:"server"`
	Database        database.Config   `toml:"database"`
	Storage         storage.Config    `toml:"storage"`
	API             APIConfig         `toml:"api"`
	LLM             llm.Config        `toml:"llm"`
	OCR             pdftext.Config    `toml:"ocr"`
	Extraction      extraction.Config `toml:"extraction"`
	Knowledge       knowledge.Config  `toml:"knowledge"`
	ShutdownTimeout string            `toml:"shutdown_timeout"`
	Version         string            `toml:"version"`
}

// Env returns the LADING_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvLadingEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	return LoadFrom(BaseConfigFile)
}

// LoadFrom is Load with an explicit base file. The overlay is resolved in the
// same directory as base.
func LoadFrom(base string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(base); err == nil {
		loaded, err := load(base)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(base); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.LLM.Merge(&overlay.LLM)
	c.OCR.Merge(&overlay.OCR)
	c.Extraction.Merge(&overlay.Extraction)
	c.Knowledge.Merge(&overlay.Knowledge)
}

// FinalizePipeline finalizes only the sections the extraction pipeline needs.
// Command-line tools that run without a database or blob store use it in
// place of Load.
func (c *Config) FinalizePipeline() error {
	if err := c.LLM.Finalize(llmEnv); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	if err := c.OCR.Finalize(ocrEnv); err != nil {
		return fmt.Errorf("ocr: %w", err)
	}
	if err := c.Extraction.Finalize(extractionEnv); err != nil {
		return fmt.Errorf("extraction: %w", err)
	}
	if err := c.Knowledge.Finalize(knowledgeEnv); err != nil {
		return fmt.Errorf("knowledge: %w", err)
	}
	return nil
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return c.FinalizePipeline()
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvLadingShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvLadingVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

// Read decodes a single TOML file without overlays or finalization.
func Read(path string) (*Config, error) {
	return load(path)
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath(base string) string {
	env := os.Getenv(EnvLadingEnv)
	if env == "" {
		return ""
	}

	path := filepath.Join(filepath.Dir(base), fmt.Sprintf(OverlayConfigPattern, env))
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}
