package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/JaimeStill/lading/pkg/formatting"
	"github.com/JaimeStill/lading/pkg/middleware"
	"github.com/JaimeStill/lading/pkg/openapi"
	"github.com/JaimeStill/lading/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "LADING_CORS_ENABLED",
	Origins:          "LADING_CORS_ORIGINS",
	AllowedMethods:   "LADING_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "LADING_CORS_ALLOWED_HEADERS",
	ExposedHeaders:   "LADING_CORS_EXPOSED_HEADERS",
	AllowCredentials: "LADING_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "LADING_CORS_MAX_AGE",
}

var openAPIEnv = &openapi.ConfigEnv{
	Title:       "LADING_OPENAPI_TITLE",
	Description: "LADING_OPENAPI_DESCRIPTION",
	Disabled:    "LADING_OPENAPI_DISABLED",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "LADING_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "LADING_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, upload limits, CORS, OpenAPI, and
// pagination settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	OpenAPI       openapi.Config        `toml:"openapi"`
	Pagination    pagination.Config     `toml:"pagination"`
}

// MaxUploadSizeBytes parses MaxUploadSize, falling back to 10MB when it
// cannot be parsed.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return 10 * 1024 * 1024
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if !strings.HasPrefix(c.BasePath, "/") || strings.Count(c.BasePath, "/") != 1 {
		return fmt.Errorf("base_path %q must be a single segment such as /api", c.BasePath)
	}
	if size, err := formatting.ParseBytes(c.MaxUploadSize); err != nil || size <= 0 {
		return fmt.Errorf("invalid max_upload_size %q", c.MaxUploadSize)
	}

	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.OpenAPI.Finalize(openAPIEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.OpenAPI.Merge(&overlay.OpenAPI)
	c.Pagination.Merge(&overlay.Pagination)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "10MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("LADING_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("LADING_API_MAX_UPLOAD_SIZE"); v != "" {
		c.MaxUploadSize = v
	}
}
