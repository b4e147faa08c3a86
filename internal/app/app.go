package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/lexicon-backend/internal/adapter/postgres"
	"github.com/heartmarshall/lexicon-backend/internal/adapter/postgres/word"
	"github.com/heartmarshall/lexicon-backend/internal/adapter/provider/filecache"
	"github.com/heartmarshall/lexicon-backend/internal/adapter/provider/freedict"
	"github.com/heartmarshall/lexicon-backend/internal/adapter/redis"
	"github.com/heartmarshall/lexicon-backend/internal/config"
	"github.com/heartmarshall/lexicon-backend/internal/service/catalog"
	"github.com/heartmarshall/lexicon-backend/internal/service/importer"
	"github.com/heartmarshall/lexicon-backend/internal/service/rootgraph"
	"github.com/heartmarshall/lexicon-backend/pkg/keymutex"
)

// KeyLocker serialises work on canonical keys.
type KeyLocker interface {
	Lock(ctx context.Context, keys ...string) (func(), error)
}

// App holds the wired services and the resources they share.
type App struct {
	Config    *config.Config
	Log       *slog.Logger
	Pool      *pgxpool.Pool
	Importer  *importer.Service
	RootGraph *rootgraph.Service
	Catalog   *catalog.Service

	closers []func() error
}

// New connects to the database (and Redis, when configured) and wires every
// service. The caller must Close the returned App.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{Config: cfg, Log: logger}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	a.Pool = pool
	a.closers = append(a.closers, func() error { pool.Close(); return nil })

	locks, err := a.newLocker(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	src, err := newSource(cfg.Source, logger)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	words := word.New(pool)
	tx := postgres.NewTxManager(pool)

	a.Importer = importer.NewService(logger, words, tx, locks, cfg.Import)
	a.RootGraph = rootgraph.NewService(logger, words, tx, locks, cfg.Import.OperationTimeout)
	a.Catalog = catalog.NewService(logger, words, src, a.Importer, cfg.Search)

	logger.InfoContext(ctx, "application wired",
		slog.String("version", BuildVersion()),
		slog.Bool("redis_lock", cfg.Lock.UsesRedis()),
		slog.String("source", cfg.Source.BaseURL),
		slog.Bool("source_cache", cfg.Source.CacheDir != ""),
	)

	return a, nil
}

func (a *App) newLocker(ctx context.Context) (KeyLocker, error) {
	if !a.Config.Lock.UsesRedis() {
		return keymutex.New(), nil
	}

	rdb, err := redis.NewClient(ctx, a.Config.Lock)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	a.closers = append(a.closers, rdb.Close)

	return redis.NewKeyLock(rdb, a.Config.Lock, a.Log), nil
}

// newSource builds the external lookup source, wrapping it in the on-disk
// cache when a cache directory is configured.
func newSource(cfg config.SourceConfig, logger *slog.Logger) (filecache.Fetcher, error) {
	provider := freedict.NewProvider(cfg, logger)
	if cfg.CacheDir == "" {
		return provider, nil
	}

	cached, err := filecache.New(provider, cfg.CacheDir, logger)
	if err != nil {
		return nil, fmt.Errorf("source cache: %w", err)
	}
	return cached, nil
}

// Close releases every resource acquired by New, in reverse order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
