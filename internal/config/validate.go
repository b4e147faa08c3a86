package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Database.ConnectTimeout <= 0 {
		return fmt.Errorf("database.connect_timeout must be > 0 (got %s)", c.Database.ConnectTimeout)
	}
	if err := c.Import.validate(); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	if c.Source.Timeout <= 0 {
		return fmt.Errorf("source.timeout must be > 0 (got %s)", c.Source.Timeout)
	}
	if err := c.Lock.validate(); err != nil {
		return fmt.Errorf("lock: %w", err)
	}
	if c.Lock.UsesRedis() && c.Lock.TTL < c.Import.OperationTimeout {
		return fmt.Errorf("lock.ttl (%s) must be >= import.operation_timeout (%s)", c.Lock.TTL, c.Import.OperationTimeout)
	}
	if err := c.Search.validate(); err != nil {
		return fmt.Errorf("search: %w", err)
	}
	return nil
}

func (c *ImportConfig) validate() error {
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be >= 1 (got %d)", c.Concurrency)
	}
	if c.OperationTimeout <= 0 {
		return fmt.Errorf("operation_timeout must be > 0 (got %s)", c.OperationTimeout)
	}
	patterns := ParsePatterns(c.FilePatterns)
	if len(patterns) == 0 {
		return fmt.Errorf("file_patterns must name at least one glob")
	}
	for _, p := range patterns {
		if _, err := filepath.Match(p, ""); err != nil {
			return fmt.Errorf("file_patterns: invalid glob %q: %w", p, err)
		}
	}
	return nil
}

func (c *LockConfig) validate() error {
	if c.TTL <= 0 {
		return fmt.Errorf("ttl must be > 0 (got %s)", c.TTL)
	}
	if c.WaitTimeout <= 0 {
		return fmt.Errorf("wait_timeout must be > 0 (got %s)", c.WaitTimeout)
	}
	if c.RetryInterval <= 0 {
		return fmt.Errorf("retry_interval must be > 0 (got %s)", c.RetryInterval)
	}
	return nil
}

func (c *SearchConfig) validate() error {
	if c.DefaultPerPage < 1 {
		return fmt.Errorf("default_per_page must be >= 1 (got %d)", c.DefaultPerPage)
	}
	if c.MaxPerPage < c.DefaultPerPage {
		return fmt.Errorf("max_per_page (%d) must be >= default_per_page (%d)", c.MaxPerPage, c.DefaultPerPage)
	}
	return nil
}

// ParsePatterns splits a comma-separated glob list, dropping blanks.
func ParsePatterns(raw string) []string {
	parts := strings.Split(raw, ",")
	patterns := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}
