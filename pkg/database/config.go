package database

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds PostgreSQL connection parameters. ApplicationName and
// StatementTimeout are sent as session runtime parameters.
type Config struct {
	Host             string `toml:"host"`
	Port             int    `toml:"port"`
	Name             string `toml:"name"`
	User             string `toml:"user"`
	Password         string `toml:"password"`
	SSLMode          string `toml:"ssl_mode"`
	ApplicationName  string `toml:"application_name"`
	StatementTimeout string `toml:"statement_timeout"`
	MaxOpenConns     int    `toml:"max_open_conns"`
	MaxIdleConns     int    `toml:"max_idle_conns"`
	ConnMaxLifetime  string `toml:"conn_max_lifetime"`
	ConnTimeout      string `toml:"conn_timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Host             string
	Port             string
	Name             string
	User             string
	Password         string
	SSLMode          string
	ApplicationName  string
	StatementTimeout string
	MaxOpenConns     string
	MaxIdleConns     string
	ConnMaxLifetime  string
	ConnTimeout      string
}

// ConnMaxLifetimeDuration returns ConnMaxLifetime as a time.Duration.
func (c *Config) ConnMaxLifetimeDuration() time.Duration {
	d, _ := time.ParseDuration(c.ConnMaxLifetime)
	return d
}

// ConnTimeoutDuration returns ConnTimeout as a time.Duration.
func (c *Config) ConnTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ConnTimeout)
	return d
}

// StatementTimeoutDuration returns StatementTimeout as a time.Duration.
// Zero disables the server-side limit.
func (c *Config) StatementTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.StatementTimeout)
	return d
}

// Dsn returns a keyword/value PostgreSQL connection string. Values that
// contain spaces, quotes, or backslashes are quoted.
func (c *Config) Dsn() string {
	pairs := []string{
		"host=" + dsnValue(c.Host),
		"port=" + strconv.Itoa(c.Port),
		"dbname=" + dsnValue(c.Name),
		"user=" + dsnValue(c.User),
		"password=" + dsnValue(c.Password),
		"sslmode=" + dsnValue(c.SSLMode),
	}
	if c.ApplicationName != "" {
		pairs = append(pairs, "application_name="+dsnValue(c.ApplicationName))
	}
	if d := c.StatementTimeoutDuration(); d > 0 {
		pairs = append(pairs, "statement_timeout="+strconv.FormatInt(d.Milliseconds(), 10))
	}
	return strings.Join(pairs, " ")
}

func dsnValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
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
	mergeString(&c.Host, overlay.Host)
	mergeString(&c.Name, overlay.Name)
	mergeString(&c.User, overlay.User)
	mergeString(&c.Password, overlay.Password)
	mergeString(&c.SSLMode, overlay.SSLMode)
	mergeString(&c.ApplicationName, overlay.ApplicationName)
	mergeString(&c.StatementTimeout, overlay.StatementTimeout)
	mergeString(&c.ConnMaxLifetime, overlay.ConnMaxLifetime)
	mergeString(&c.ConnTimeout, overlay.ConnTimeout)

	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	if overlay.MaxOpenConns != 0 {
		c.MaxOpenConns = overlay.MaxOpenConns
	}
	if overlay.MaxIdleConns != 0 {
		c.MaxIdleConns = overlay.MaxIdleConns
	}
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (c *Config) loadDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 5432
	}
	if c.SSLMode == "" {
		c.SSLMode = "disable"
	}
	if c.ApplicationName == "" {
		c.ApplicationName = "lading"
	}
	if c.StatementTimeout == "" {
		c.StatementTimeout = "30s"
	}
	if c.MaxOpenConns == 0 {
		c.MaxOpenConns = 25
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = 5
	}
	if c.ConnMaxLifetime == "" {
		c.ConnMaxLifetime = "15m"
	}
	if c.ConnTimeout == "" {
		c.ConnTimeout = "5s"
	}
}

func (c *Config) loadEnv(env *Env) {
	envString(&c.Host, env.Host)
	envInt(&c.Port, env.Port)
	envString(&c.Name, env.Name)
	envString(&c.User, env.User)
	envString(&c.Password, env.Password)
	envString(&c.SSLMode, env.SSLMode)
	envString(&c.ApplicationName, env.ApplicationName)
	envString(&c.StatementTimeout, env.StatementTimeout)
	envInt(&c.MaxOpenConns, env.MaxOpenConns)
	envInt(&c.MaxIdleConns, env.MaxIdleConns)
	envString(&c.ConnMaxLifetime, env.ConnMaxLifetime)
	envString(&c.ConnTimeout, env.ConnTimeout)
}

func envString(dst *string, name string) {
	if name == "" {
		return
	}
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

func envInt(dst *int, name string) {
	if name == "" {
		return
	}
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func (c *Config) validate() error {
	if c.Name == "" {
		return fmt.Errorf("name required")
	}
	if c.User == "" {
		return fmt.Errorf("user required")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return fmt.Errorf("max_idle_conns (%d) exceeds max_open_conns (%d)", c.MaxIdleConns, c.MaxOpenConns)
	}
	if _, err := time.ParseDuration(c.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid conn_max_lifetime: %w", err)
	}
	if _, err := time.ParseDuration(c.ConnTimeout); err != nil {
		return fmt.Errorf("invalid conn_timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.StatementTimeout); err != nil {
		return fmt.Errorf("invalid statement_timeout: %w", err)
	}
	return nil
}
