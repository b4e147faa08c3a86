package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// validEnv sets the minimum required env vars for a valid config.
func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost:5432/testdb")
}

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAML = `
database:
  dsn: "postgres://u:p@localhost:5432/testdb"
  max_conns: 10
  min_conns: 2

log:
  level: "debug"
  format: "text"

import:
  concurrency: 4
  file_patterns: "*.json, *.jsonl"
  operation_timeout: "45s"

source:
  base_url: "http://dict.local/api"
  timeout: "3s"
  cache_dir: "/tmp/lexicon-cache"

lock:
  redis_addr: "localhost:6379"
  ttl: "60s"
  wait_timeout: "2s"
  retry_interval: "25ms"

search:
  default_per_page: 10
  max_per_page: 50
`

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Database
	if cfg.Database.DSN != "postgres://u:p@localhost:5432/testdb" {
		t.Errorf("database.dsn = %q", cfg.Database.DSN)
	}
	if cfg.Database.MaxConns != 10 {
		t.Errorf("database.max_conns = %d, want 10", cfg.Database.MaxConns)
	}
	if cfg.Database.ConnectTimeout != 5*time.Second {
		t.Errorf("database.connect_timeout = %v, want default 5s", cfg.Database.ConnectTimeout)
	}
	if cfg.Database.ApplicationName != "lexicon" {
		t.Errorf("database.application_name = %q, want default", cfg.Database.ApplicationName)
	}

	// Log
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want %q", cfg.Log.Level, "debug")
	}
	if cfg.Log.Format != "text" {
		t.Errorf("log.format = %q, want %q", cfg.Log.Format, "text")
	}

	// Import
	if cfg.Import.Concurrency != 4 {
		t.Errorf("import.concurrency = %d, want 4", cfg.Import.Concurrency)
	}
	if cfg.Import.OperationTimeout != 45*time.Second {
		t.Errorf("import.operation_timeout = %v, want 45s", cfg.Import.OperationTimeout)
	}
	if got := ParsePatterns(cfg.Import.FilePatterns); len(got) != 2 || got[1] != "*.jsonl" {
		t.Errorf("import.file_patterns parsed = %v", got)
	}

	// Source
	if cfg.Source.BaseURL != "http://dict.local/api" {
		t.Errorf("source.base_url = %q", cfg.Source.BaseURL)
	}
	if cfg.Source.Timeout != 3*time.Second {
		t.Errorf("source.timeout = %v, want 3s", cfg.Source.Timeout)
	}
	if cfg.Source.UserAgent != "lexicon-backend" {
		t.Errorf("source.user_agent = %q, want default", cfg.Source.UserAgent)
	}

	// Lock
	if !cfg.Lock.UsesRedis() {
		t.Error("lock should use redis when redis_addr is set")
	}
	if cfg.Lock.TTL != time.Minute {
		t.Errorf("lock.ttl = %v, want 1m", cfg.Lock.TTL)
	}
	if cfg.Lock.RetryInterval != 25*time.Millisecond {
		t.Errorf("lock.retry_interval = %v, want 25ms", cfg.Lock.RetryInterval)
	}

	// Search
	if cfg.Search.DefaultPerPage != 10 || cfg.Search.MaxPerPage != 50 {
		t.Errorf("search = %+v", cfg.Search)
	}
}

func TestLoad_ENVOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("IMPORT_CONCURRENCY", "8")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Import.Concurrency != 8 {
		t.Errorf("import.concurrency = %d, want 8 (ENV override)", cfg.Import.Concurrency)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log.level = %q, want %q (ENV override)", cfg.Log.Level, "warn")
	}
}

func TestLoad_NoFile_ENVOnly(t *testing.T) {
	validEnv(t)
	t.Setenv("CONFIG_PATH", "")

	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	_ = os.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Import.Concurrency != 1 {
		t.Errorf("import.concurrency = %d, want 1 (default)", cfg.Import.Concurrency)
	}
	if cfg.Search.DefaultPerPage != 20 {
		t.Errorf("search.default_per_page = %d, want 20 (default)", cfg.Search.DefaultPerPage)
	}
	if cfg.Lock.UsesRedis() {
		t.Error("lock should default to in-process")
	}
	if cfg.Lock.TTL < cfg.Import.OperationTimeout {
		t.Errorf("default lock.ttl %v is shorter than default import.operation_timeout %v", cfg.Lock.TTL, cfg.Import.OperationTimeout)
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, `{{{invalid yaml`)
	t.Setenv("CONFIG_PATH", path)

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"connect timeout zero", func(c *Config) { c.Database.ConnectTimeout = 0 }, true},
		{"concurrency zero", func(c *Config) { c.Import.Concurrency = 0 }, true},
		{"operation timeout zero", func(c *Config) { c.Import.OperationTimeout = 0 }, true},
		{"no patterns", func(c *Config) { c.Import.FilePatterns = " , " }, true},
		{"bad pattern", func(c *Config) { c.Import.FilePatterns = "[" }, true},
		{"source timeout zero", func(c *Config) { c.Source.Timeout = 0 }, true},
		{"lock ttl zero", func(c *Config) { c.Lock.TTL = 0 }, true},
		{"lock wait negative", func(c *Config) { c.Lock.WaitTimeout = -time.Second }, true},
		{"lock retry zero", func(c *Config) { c.Lock.RetryInterval = 0 }, true},
		{"redis ttl shorter than operation", func(c *Config) {
			c.Lock.RedisAddr = "localhost:6379"
			c.Lock.TTL = c.Import.OperationTimeout - time.Second
		}, true},
		{"redis ttl equals operation", func(c *Config) {
			c.Lock.RedisAddr = "localhost:6379"
			c.Lock.TTL = c.Import.OperationTimeout
		}, false},
		{"in-process ttl shorter than operation", func(c *Config) { c.Lock.TTL = time.Second }, false},
		{"per page zero", func(c *Config) { c.Search.DefaultPerPage = 0 }, true},
		{"max below default", func(c *Config) { c.Search.MaxPerPage = 5 }, true},
		{"max equals default", func(c *Config) { c.Search.MaxPerPage = c.Search.DefaultPerPage }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestParsePatterns(t *testing.T) {
	got := ParsePatterns(" *.json , ,*.yaml ")
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0] != "*.json" || got[1] != "*.yaml" {
		t.Errorf("got %v", got)
	}
	if ParsePatterns("") == nil || len(ParsePatterns("")) != 0 {
		t.Errorf("empty input should yield an empty, non-nil slice")
	}
}

// validConfig returns a Config that passes all validation checks.
func validConfig() Config {
	return Config{
		Database: DatabaseConfig{DSN: "postgres://localhost/test", ConnectTimeout: 5 * time.Second},
		Import: ImportConfig{
			Concurrency:      1,
			FilePatterns:     "*.json",
			OperationTimeout: 30 * time.Second,
		},
		Source: SourceConfig{Timeout: 10 * time.Second},
		Lock: LockConfig{
			TTL:           15 * time.Second,
			WaitTimeout:   5 * time.Second,
			RetryInterval: 50 * time.Millisecond,
		},
		Search: SearchConfig{DefaultPerPage: 20, MaxPerPage: 100},
	}
}
