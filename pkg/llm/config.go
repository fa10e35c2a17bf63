package llm

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// Config holds provider selection and call limits.
type Config struct {
	Provider  string       `toml:"provider"`
	Model     string       `toml:"model"`
	MaxTokens int          `toml:"max_tokens"`
	Timeout   string       `toml:"timeout"`
	Anthropic AnthropicCfg `toml:"anthropic"`
	Gemini    GeminiCfg    `toml:"gemini"`
}

// AnthropicCfg holds Anthropic API credentials.
type AnthropicCfg struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// GeminiCfg holds the Vertex AI project used for Gemini.
type GeminiCfg struct {
	Project  string `toml:"project"`
	Location string `toml:"location"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Provider        string
	Model           string
	MaxTokens       string
	Timeout         string
	AnthropicAPIKey string
	GeminiProject   string
	GeminiLocation  string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	if c.Model == "" {
		c.Model = defaultModel(c.Provider)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.MaxTokens != 0 {
		c.MaxTokens = overlay.MaxTokens
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.Anthropic.APIKey != "" {
		c.Anthropic.APIKey = overlay.Anthropic.APIKey
	}
	if overlay.Anthropic.BaseURL != "" {
		c.Anthropic.BaseURL = overlay.Anthropic.BaseURL
	}
	if overlay.Gemini.Project != "" {
		c.Gemini.Project = overlay.Gemini.Project
	}
	if overlay.Gemini.Location != "" {
		c.Gemini.Location = overlay.Gemini.Location
	}
}

func (c *Config) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderAnthropic
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 4096
	}
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
	if c.Gemini.Location == "" {
		c.Gemini.Location = "us-central1"
	}
}

func defaultModel(provider string) string {
	if provider == ProviderGemini {
		return "gemini-2.5-flash"
	}
	return "claude-sonnet-4-5"
}

func (c *Config) loadEnv(env *Env) {
	if env.Provider != "" {
		if v := os.Getenv(env.Provider); v != "" {
			c.Provider = v
		}
	}
	if env.Model != "" {
		if v := os.Getenv(env.Model); v != "" {
			c.Model = v
		}
	}
	if env.MaxTokens != "" {
		if v := os.Getenv(env.MaxTokens); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxTokens = n
			}
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
	if env.AnthropicAPIKey != "" {
		if v := os.Getenv(env.AnthropicAPIKey); v != "" {
			c.Anthropic.APIKey = v
		}
	}
	if env.GeminiProject != "" {
		if v := os.Getenv(env.GeminiProject); v != "" {
			c.Gemini.Project = v
		}
	}
	if env.GeminiLocation != "" {
		if v := os.Getenv(env.GeminiLocation); v != "" {
			c.Gemini.Location = v
		}
	}
}

func (c *Config) validate() error {
	switch c.Provider {
	case ProviderAnthropic, ProviderGemini:
	default:
		return fmt.Errorf("invalid provider %q: must be %s or %s", c.Provider, ProviderAnthropic, ProviderGemini)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive")
	}
	if d, err := time.ParseDuration(c.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid timeout %q", c.Timeout)
	}
	if c.Provider == ProviderGemini && c.Gemini.Project == "" {
		return fmt.Errorf("gemini.project required for gemini provider")
	}
	return nil
}
