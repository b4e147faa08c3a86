package config

import "time"

// Config is the root application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Import   ImportConfig   `yaml:"import"`
	Source   SourceConfig   `yaml:"source"`
	Lock     LockConfig     `yaml:"lock"`
	Search   SearchConfig   `yaml:"search"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout"    env:"DATABASE_CONNECT_TIMEOUT"    env-default:"5s"`
	ApplicationName string        `yaml:"application_name"   env:"DATABASE_APPLICATION_NAME"   env-default:"lexicon"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// ImportConfig holds bulk import settings.
type ImportConfig struct {
	// Concurrency is the number of canonical keys merged in parallel.
	Concurrency int `yaml:"concurrency" env:"IMPORT_CONCURRENCY" env-default:"1"`
	// FilePatterns is a comma-separated list of globs selected in a directory import.
	FilePatterns string `yaml:"file_patterns" env:"IMPORT_FILE_PATTERNS" env-default:"*.json,*.jsonl,*.yaml,*.yml"`
	// OperationTimeout bounds the merge of a single canonical key.
	OperationTimeout time.Duration `yaml:"operation_timeout" env:"IMPORT_OPERATION_TIMEOUT" env-default:"30s"`
}

// SourceConfig holds external lookup source settings.
type SourceConfig struct {
	BaseURL   string        `yaml:"base_url"   env:"SOURCE_BASE_URL"   env-default:"https://api.dictionaryapi.dev/api/v2/entries/en"`
	Timeout   time.Duration `yaml:"timeout"    env:"SOURCE_TIMEOUT"    env-default:"10s"`
	UserAgent string        `yaml:"user_agent" env:"SOURCE_USER_AGENT" env-default:"lexicon-backend"`
	// CacheDir enables the on-disk page cache when set.
	CacheDir string `yaml:"cache_dir" env:"SOURCE_CACHE_DIR"`
}

// LockConfig holds key lock settings. An empty RedisAddr selects the in-process lock.
// The Redis lease is not renewed, so TTL must cover import.operation_timeout.
type LockConfig struct {
	RedisAddr     string        `yaml:"redis_addr"     env:"LOCK_REDIS_ADDR"`
	RedisPassword string        `yaml:"redis_password" env:"LOCK_REDIS_PASSWORD"`
	RedisDB       int           `yaml:"redis_db"       env:"LOCK_REDIS_DB"       env-default:"0"`
	TTL           time.Duration `yaml:"ttl"            env:"LOCK_TTL"            env-default:"45s"`
	WaitTimeout   time.Duration `yaml:"wait_timeout"   env:"LOCK_WAIT_TIMEOUT"   env-default:"5s"`
	RetryInterval time.Duration `yaml:"retry_interval" env:"LOCK_RETRY_INTERVAL" env-default:"50ms"`
}

// SearchConfig holds pagination bounds for the query layer.
type SearchConfig struct {
	DefaultPerPage int `yaml:"default_per_page" env:"SEARCH_DEFAULT_PER_PAGE" env-default:"20"`
	MaxPerPage     int `yaml:"max_per_page"     env:"SEARCH_MAX_PER_PAGE"     env-default:"100"`
}

// UsesRedis reports whether the distributed lock is configured.
func (c LockConfig) UsesRedis() bool {
	return c.RedisAddr != ""
}
