package extraction

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds extraction attempt, retry, and batching settings.
type Config struct {
	Timeout       string `toml:"timeout"`
	MaxRetries    int    `toml:"max_retries"`
	RetryDelay    string `toml:"retry_delay"`
	MaxExamples   int    `toml:"max_examples"`
	RetryExamples int    `toml:"retry_examples"`
	Workers       int    `toml:"workers"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Timeout       string
	MaxRetries    string
	RetryDelay    string
	MaxExamples   string
	RetryExamples string
	Workers       string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// RetryDelayDuration returns RetryDelay as a time.Duration.
func (c *Config) RetryDelayDuration() time.Duration {
	d, _ := time.ParseDuration(c.RetryDelay)
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

// Merge applies non-zero values from the overlay configuration.
func (c *Config) Merge(overlay *Config) {
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.MaxRetries != 0 {
		c.MaxRetries = overlay.MaxRetries
	}
	if overlay.RetryDelay != "" {
		c.RetryDelay = overlay.RetryDelay
	}
	if overlay.MaxExamples != 0 {
		c.MaxExamples = overlay.MaxExamples
	}
	if overlay.RetryExamples != 0 {
		c.RetryExamples = overlay.RetryExamples
	}
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
}

func (c *Config) loadDefaults() {
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 2
	}
	if c.RetryDelay == "" {
		c.RetryDelay = "1s"
	}
	if c.MaxExamples <= 0 {
		c.MaxExamples = 5
	}
	if c.RetryExamples <= 0 {
		c.RetryExamples = 2
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
	if env.MaxRetries != "" {
		if v := os.Getenv(env.MaxRetries); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxRetries = n
			}
		}
	}
	if env.RetryDelay != "" {
		if v := os.Getenv(env.RetryDelay); v != "" {
			c.RetryDelay = v
		}
	}
	if env.MaxExamples != "" {
		if v := os.Getenv(env.MaxExamples); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxExamples = n
			}
		}
	}
	if env.RetryExamples != "" {
		if v := os.Getenv(env.RetryExamples); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.RetryExamples = n
			}
		}
	}
	if env.Workers != "" {
		if v := os.Getenv(env.Workers); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.Workers = n
			}
		}
	}
}

func (c *Config) validate() error {
	if d, err := time.ParseDuration(c.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid timeout: %q", c.Timeout)
	}
	if _, err := time.ParseDuration(c.RetryDelay); err != nil {
		return fmt.Errorf("invalid retry_delay: %w", err)
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("max_retries must be at least 1")
	}
	if c.MaxExamples < 1 {
		return fmt.Errorf("max_examples must be at least 1")
	}
	if c.RetryExamples < 0 {
		return fmt.Errorf("retry_examples cannot be negative")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	return nil
}
