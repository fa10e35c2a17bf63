package pdftext

import (
	"fmt"
	"os"
	"time"
)

const (
	BackendLocal = "local"
	BackendAzure = "azure"
)

// Config selects and configures the extraction backend.
type Config struct {
	Backend string      `toml:"backend"`
	Azure   AzureConfig `toml:"azure"`
}

// AzureConfig holds Azure AI Document Intelligence connection parameters.
// An empty APIKey selects DefaultAzureCredential.
type AzureConfig struct {
	Endpoint     string `toml:"endpoint"`
	APIKey       string `toml:"api_key"`
	Model        string `toml:"model"`
	APIVersion   string `toml:"api_version"`
	Timeout      string `toml:"timeout"`
	PollInterval string `toml:"poll_interval"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Backend       string
	AzureEndpoint string
	AzureAPIKey   string
	AzureModel    string
	AzureTimeout  string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *AzureConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// PollIntervalDuration returns PollInterval as a time.Duration.
func (c *AzureConfig) PollIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.PollInterval)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Backend != "" {
		c.Backend = overlay.Backend
	}
	if overlay.Azure.Endpoint != "" {
		c.Azure.Endpoint = overlay.Azure.Endpoint
	}
	if overlay.Azure.APIKey != "" {
		c.Azure.APIKey = overlay.Azure.APIKey
	}
	if overlay.Azure.Model != "" {
		c.Azure.Model = overlay.Azure.Model
	}
	if overlay.Azure.APIVersion != "" {
		c.Azure.APIVersion = overlay.Azure.APIVersion
	}
	if overlay.Azure.Timeout != "" {
		c.Azure.Timeout = overlay.Azure.Timeout
	}
	if overlay.Azure.PollInterval != "" {
		c.Azure.PollInterval = overlay.Azure.PollInterval
	}
}

func (c *Config) loadDefaults() {
	if c.Backend == "" {
		c.Backend = BackendLocal
	}
	if c.Azure.Model == "" {
		c.Azure.Model = "prebuilt-read"
	}
	if c.Azure.APIVersion == "" {
		c.Azure.APIVersion = "2024-11-30"
	}
	if c.Azure.Timeout == "" {
		c.Azure.Timeout = "45s"
	}
	if c.Azure.PollInterval == "" {
		c.Azure.PollInterval = "1s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Backend != "" {
		if v := os.Getenv(env.Backend); v != "" {
			c.Backend = v
		}
	}
	if env.AzureEndpoint != "" {
		if v := os.Getenv(env.AzureEndpoint); v != "" {
			c.Azure.Endpoint = v
		}
	}
	if env.AzureAPIKey != "" {
		if v := os.Getenv(env.AzureAPIKey); v != "" {
			c.Azure.APIKey = v
		}
	}
	if env.AzureModel != "" {
		if v := os.Getenv(env.AzureModel); v != "" {
			c.Azure.Model = v
		}
	}
	if env.AzureTimeout != "" {
		if v := os.Getenv(env.AzureTimeout); v != "" {
			c.Azure.Timeout = v
		}
	}
}

func (c *Config) validate() error {
	switch c.Backend {
	case BackendLocal:
		return nil
	case BackendAzure:
	default:
		return fmt.Errorf("invalid backend %q: must be %s or %s", c.Backend, BackendLocal, BackendAzure)
	}

	if c.Azure.Endpoint == "" {
		return fmt.Errorf("azure.endpoint required for azure backend")
	}
	if d, err := time.ParseDuration(c.Azure.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid azure.timeout %q", c.Azure.Timeout)
	}
	if d, err := time.ParseDuration(c.Azure.PollInterval); err != nil || d <= 0 {
		return fmt.Errorf("invalid azure.poll_interval %q", c.Azure.PollInterval)
	}
	return nil
}
