package openapi

import (
	"os"
	"strconv"
)

const (
	defaultTitle       = "Lading API"
	defaultDescription = "Classification and DCSA extraction service for shipping document PDFs."
)

// Config holds the published document's metadata. Disabled suppresses the
// document and the docs page.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
	Disabled    bool   `toml:"disabled"`
}

// ConfigEnv names the environment variables that override Config.
type ConfigEnv struct {
	Title       string
	Description string
	Disabled    string
}

// Finalize fills defaults, then applies environment overrides.
func (c *Config) Finalize(env *ConfigEnv) error {
	if c.Title == "" {
		c.Title = defaultTitle
	}
	if c.Description == "" {
		c.Description = defaultDescription
	}

	if env == nil {
		return nil
	}
	lookup(env.Title, &c.Title)
	lookup(env.Description, &c.Description)
	if v := os.Getenv(env.Disabled); env.Disabled != "" && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Disabled = b
		}
	}
	return nil
}

// Merge overwrites c with the non-zero fields of overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
	c.Disabled = c.Disabled || overlay.Disabled
}

func lookup(key string, dst *string) {
	if key == "" {
		return
	}
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
