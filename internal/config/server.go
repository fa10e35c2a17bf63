package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

const (
	EnvServerHost              = "LADING_SERVER_HOST"
	EnvServerPort              = "LADING_SERVER_PORT"
	EnvServerReadTimeout       = "LADING_SERVER_READ_TIMEOUT"
	EnvServerReadHeaderTimeout = "LADING_SERVER_READ_HEADER_TIMEOUT"
	EnvServerWriteTimeout      = "LADING_SERVER_WRITE_TIMEOUT"
	EnvServerIdleTimeout       = "LADING_SERVER_IDLE_TIMEOUT"
	EnvServerShutdownTimeout   = "LADING_SERVER_SHUTDOWN_TIMEOUT"
)

// ServerConfig holds HTTP server parameters. WriteTimeout bounds a whole
// response, so it must cover a synchronous extraction run.
type ServerConfig struct {
	Host              string `toml:"host"`
	Port              int    `toml:"port"`
	ReadTimeout       string `toml:"read_timeout"`
	ReadHeaderTimeout string `toml:"read_header_timeout"`
	WriteTimeout      string `toml:"write_timeout"`
	IdleTimeout       string `toml:"idle_timeout"`
	ShutdownTimeout   string `toml:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *ServerConfig) ReadTimeoutDuration() time.Duration {
	return duration(c.ReadTimeout)
}

func (c *ServerConfig) ReadHeaderTimeoutDuration() time.Duration {
	return duration(c.ReadHeaderTimeout)
}

func (c *ServerConfig) WriteTimeoutDuration() time.Duration {
	return duration(c.WriteTimeout)
}

func (c *ServerConfig) IdleTimeoutDuration() time.Duration {
	return duration(c.IdleTimeout)
}

func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return duration(c.ShutdownTimeout)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ServerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	for field, v := range c.timeouts() {
		if o := overlay.timeouts()[field]; *o != "" {
			*v = *o
		}
	}
}

// timeouts indexes the duration fields by their TOML key.
func (c *ServerConfig) timeouts() map[string]*string {
	return map[string]*string{
		"read_timeout":        &c.ReadTimeout,
		"read_header_timeout": &c.ReadHeaderTimeout,
		"write_timeout":       &c.WriteTimeout,
		"idle_timeout":        &c.IdleTimeout,
		"shutdown_timeout":    &c.ShutdownTimeout,
	}
}

func (c *ServerConfig) loadDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8080
	}

	defaults := map[string]string{
		"read_timeout":        "1m",
		"read_header_timeout": "10s",
		"write_timeout":       "15m",
		"idle_timeout":        "2m",
		"shutdown_timeout":    "30s",
	}
	for field, v := range c.timeouts() {
		if *v == "" {
			*v = defaults[field]
		}
	}
}

func (c *ServerConfig) loadEnv() {
	if v := os.Getenv(EnvServerHost); v != "" {
		c.Host = v
	}
	if v := os.Getenv(EnvServerPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}

	envs := map[string]string{
		"read_timeout":        EnvServerReadTimeout,
		"read_header_timeout": EnvServerReadHeaderTimeout,
		"write_timeout":       EnvServerWriteTimeout,
		"idle_timeout":        EnvServerIdleTimeout,
		"shutdown_timeout":    EnvServerShutdownTimeout,
	}
	for field, v := range c.timeouts() {
		if val := os.Getenv(envs[field]); val != "" {
			*v = val
		}
	}
}

func (c *ServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	for _, field := range []string{"read_timeout", "read_header_timeout", "write_timeout", "idle_timeout", "shutdown_timeout"} {
		if _, err := time.ParseDuration(*c.timeouts()[field]); err != nil {
			return fmt.Errorf("invalid %s: %w", field, err)
		}
	}
	return nil
}

func duration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
