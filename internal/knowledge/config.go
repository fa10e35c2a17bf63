package knowledge

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds knowledge base curation settings.
type Config struct {
	FewShotLimit  int     `toml:"few_shot_limit"`
	MinConfidence float64 `toml:"min_confidence"`
	MaxAgeDays    int     `toml:"max_age_days"`
}

// Env maps environment variable names for knowledge configuration.
type Env struct {
	FewShotLimit  string
	MinConfidence string
	MaxAgeDays    string
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
	if overlay.FewShotLimit != 0 {
		c.FewShotLimit = overlay.FewShotLimit
	}
	if overlay.MinConfidence != 0 {
		c.MinConfidence = overlay.MinConfidence
	}
	if overlay.MaxAgeDays != 0 {
		c.MaxAgeDays = overlay.MaxAgeDays
	}
}

func (c *Config) loadDefaults() {
	if c.FewShotLimit <= 0 {
		c.FewShotLimit = 3
	}
	if c.MinConfidence <= 0 {
		c.MinConfidence = 0.7
	}
	if c.MaxAgeDays <= 0 {
		c.MaxAgeDays = 90
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.FewShotLimit != "" {
		if v := os.Getenv(env.FewShotLimit); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.FewShotLimit = n
			}
		}
	}
	if env.MinConfidence != "" {
		if v := os.Getenv(env.MinConfidence); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				c.MinConfidence = f
			}
		}
	}
	if env.MaxAgeDays != "" {
		if v := os.Getenv(env.MaxAgeDays); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxAgeDays = n
			}
		}
	}
}

func (c *Config) validate() error {
	if c.FewShotLimit < 1 {
		return fmt.Errorf("few_shot_limit must be positive")
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("min_confidence must be within [0, 1]")
	}
	if c.MaxAgeDays < 1 {
		return fmt.Errorf("max_age_days must be positive")
	}
	return nil
}
