package storage

import (
	"fmt"
	"os"
	"strconv"
)

// Storage backends.
const (
	BackendAzure  = "azure"
	BackendMemory = "memory"
)

// Config selects and configures the blob backend. ConnectionString is only
// read by the Azure backend.
type Config struct {
	Backend          string `toml:"backend"`
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
	MaxListSize      int32  `toml:"max_list_size"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Backend          string
	ContainerName    string
	ConnectionString string
	MaxListSize      string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	if c.Backend == "" {
		c.Backend = BackendAzure
	}
	if c.ContainerName == "" {
		c.ContainerName = "documents"
	}
	if c.MaxListSize <= 0 {
		c.MaxListSize = 50
	}

	if env != nil {
		c.loadEnv(env)
	}
	c.MaxListSize = min(c.MaxListSize, MaxListCap)

	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Backend != "" {
		c.Backend = overlay.Backend
	}
	if overlay.ContainerName != "" {
		c.ContainerName = overlay.ContainerName
	}
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
	if overlay.MaxListSize != 0 {
		c.MaxListSize = overlay.MaxListSize
	}
}

func (c *Config) loadEnv(env *Env) {
	lookup := func(name string) string {
		if name == "" {
			return ""
		}
		return os.Getenv(name)
	}

	if v := lookup(env.Backend); v != "" {
		c.Backend = v
	}
	if v := lookup(env.ContainerName); v != "" {
		c.ContainerName = v
	}
	if v := lookup(env.ConnectionString); v != "" {
		c.ConnectionString = v
	}
	if v := lookup(env.MaxListSize); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil && n > 0 {
			c.MaxListSize = int32(n)
		}
	}
}

func (c *Config) validate() error {
	switch c.Backend {
	case BackendAzure:
		if c.ConnectionString == "" {
			return fmt.Errorf("connection_string required for the azure backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Backend)
	}

	if c.ContainerName == "" {
		return fmt.Errorf("container_name required")
	}
	return nil
}
