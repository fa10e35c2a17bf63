package database_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/JaimeStill/lading/pkg/database"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFinalizeDefaults(t *testing.T) {
	cfg := database.Config{Name: "lading", User: "lading"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{"host", cfg.Host, "localhost"},
		{"port", cfg.Port, 5432},
		{"ssl_mode", cfg.SSLMode, "disable"},
		{"application_name", cfg.ApplicationName, "lading"},
		{"statement_timeout", cfg.StatementTimeout, "30s"},
		{"max_open_conns", cfg.MaxOpenConns, 25},
		{"max_idle_conns", cfg.MaxIdleConns, 5},
		{"conn_max_lifetime", cfg.ConnMaxLifetime, "15m"},
		{"conn_timeout", cfg.ConnTimeout, "5s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %v, want %v", tt.got, tt.expected)
			}
		})
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_DB_HOST", "db.internal")
	t.Setenv("TEST_DB_PORT", "5433")
	t.Setenv("TEST_DB_NAME", "envdb")
	t.Setenv("TEST_DB_USER", "envuser")
	t.Setenv("TEST_DB_PASSWORD", "envpass")
	t.Setenv("TEST_DB_APP", "lading-worker")
	t.Setenv("TEST_DB_STATEMENT", "2m")
	t.Setenv("TEST_DB_MAX_OPEN", "50")
	t.Setenv("TEST_DB_MAX_IDLE", "not-a-number")

	env := &database.Env{
		Host:             "TEST_DB_HOST",
		Port:             "TEST_DB_PORT",
		Name:             "TEST_DB_NAME",
		User:             "TEST_DB_USER",
		Password:         "TEST_DB_PASSWORD",
		ApplicationName:  "TEST_DB_APP",
		StatementTimeout: "TEST_DB_STATEMENT",
		MaxOpenConns:     "TEST_DB_MAX_OPEN",
		MaxIdleConns:     "TEST_DB_MAX_IDLE",
	}

	cfg := database.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{"host", cfg.Host, "db.internal"},
		{"port", cfg.Port, 5433},
		{"name", cfg.Name, "envdb"},
		{"user", cfg.User, "envuser"},
		{"password", cfg.Password, "envpass"},
		{"application_name", cfg.ApplicationName, "lading-worker"},
		{"statement_timeout", cfg.StatementTimeout, "2m"},
		{"max_open_conns", cfg.MaxOpenConns, 50},
		{"unparseable max_idle_conns keeps default", cfg.MaxIdleConns, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %v, want %v", tt.got, tt.expected)
			}
		})
	}
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     database.Config
		wantErr string
	}{
		{"missing name", database.Config{User: "u"}, "name required"},
		{"missing user", database.Config{Name: "n"}, "user required"},
		{"idle above open", database.Config{Name: "n", User: "u", MaxOpenConns: 2, MaxIdleConns: 4}, "exceeds max_open_conns"},
		{"invalid conn_max_lifetime", database.Config{Name: "n", User: "u", ConnMaxLifetime: "bad"}, "invalid conn_max_lifetime"},
		{"invalid conn_timeout", database.Config{Name: "n", User: "u", ConnTimeout: "bad"}, "invalid conn_timeout"},
		{"invalid statement_timeout", database.Config{Name: "n", User: "u", StatementTimeout: "bad"}, "invalid statement_timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := database.Config{Host: "localhost", Port: 5432, Name: "lading", User: "lading", MaxOpenConns: 25}
	base.Merge(&database.Config{Host: "db.prod", StatementTimeout: "1m"})

	if base.Host != "db.prod" || base.StatementTimeout != "1m" {
		t.Errorf("overlay not applied: %+v", base)
	}
	if base.Port != 5432 || base.Name != "lading" || base.MaxOpenConns != 25 {
		t.Errorf("zero overlay fields should not overwrite: %+v", base)
	}
}

func TestDsn(t *testing.T) {
	tests := []struct {
		name string
		cfg  database.Config
		want string
	}{
		{
			name: "plain",
			cfg:  database.Config{Host: "localhost", Port: 5432, Name: "lading", User: "lading", Password: "secret", SSLMode: "disable"},
			want: "host=localhost port=5432 dbname=lading user=lading password=secret sslmode=disable",
		},
		{
			name: "quoted password and empty value",
			cfg:  database.Config{Host: "localhost", Port: 5432, Name: "lading", User: "lading", Password: `it's a \secret`, SSLMode: ""},
			want: `host=localhost port=5432 dbname=lading user=lading password='it\'s a \\secret' sslmode=''`,
		},
		{
			name: "runtime parameters",
			cfg: database.Config{
				Host: "db", Port: 6432, Name: "lading", User: "svc", Password: "p", SSLMode: "require",
				ApplicationName: "lading api", StatementTimeout: "1m30s",
			},
			want: "host=db port=6432 dbname=lading user=svc password=p sslmode=require application_name='lading api' statement_timeout=90000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Dsn(); got != tt.want {
				t.Errorf("Dsn() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	cfg := database.Config{
		Host:            "localhost",
		Port:            5432,
		Name:            "lading",
		User:            "lading",
		SSLMode:         "disable",
		MaxOpenConns:    42,
		MaxIdleConns:    7,
		ConnMaxLifetime: "10m",
		ConnTimeout:     "3s",
	}

	sys, err := database.New(&cfg, discard())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	conn := sys.Connection()
	if conn == nil {
		t.Fatal("Connection() returned nil")
	}
	defer conn.Close()

	if stats := conn.Stats(); stats.MaxOpenConnections != 42 {
		t.Errorf("MaxOpenConnections = %d, want 42", stats.MaxOpenConnections)
	}
	if sys.Ready() {
		t.Error("Ready() should be false before a successful ping")
	}
}

func TestPingUnreachable(t *testing.T) {
	cfg := database.Config{
		Host:        "127.0.0.1",
		Port:        1,
		Name:        "lading",
		User:        "lading",
		SSLMode:     "disable",
		ConnTimeout: "500ms",
	}

	sys, err := database.New(&cfg, discard())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer sys.Connection().Close()

	err = sys.Ping(context.Background())
	if !errors.Is(err, database.ErrNotReady) {
		t.Fatalf("Ping() error = %v, want ErrNotReady", err)
	}
	if sys.Ready() {
		t.Error("Ready() should be false after a failed ping")
	}
}
