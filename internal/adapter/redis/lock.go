// Package redis implements a key lock shared by every process pointing at the
// same Redis instance.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/heartmarshall/lexicon-backend/internal/config"
	"github.com/heartmarshall/lexicon-backend/pkg/keymutex"
)

const keyPrefix = "lexicon:lock:"

// releaseScript deletes the lock only if it still holds the caller's token.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// NewClient connects to Redis and pings it.
func NewClient(ctx context.Context, cfg config.LockConfig) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.RedisAddr,
		Password:    cfg.RedisPassword,
		DB:          cfg.RedisDB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// KeyLock is a distributed key-scoped lock built on SET NX PX.
// A holder that dies keeps the key locked for at most TTL.
type KeyLock struct {
	rdb   goredis.Cmdable
	ttl   time.Duration
	wait  time.Duration
	retry time.Duration
	log   *slog.Logger
}

// NewKeyLock creates a KeyLock with the TTL and waiting policy from cfg.
func NewKeyLock(rdb goredis.Cmdable, cfg config.LockConfig, logger *slog.Logger) *KeyLock {
	return &KeyLock{
		rdb:   rdb,
		ttl:   cfg.TTL,
		wait:  cfg.WaitTimeout,
		retry: cfg.RetryInterval,
		log:   logger.With("adapter", "redis_lock"),
	}
}

// Lock acquires every key in sorted order. Waiting is bounded by the
// configured wait timeout and by ctx; on failure nothing stays held.
func (l *KeyLock) Lock(ctx context.Context, keys ...string) (func(), error) {
	keys = keymutex.SortedUnique(keys)
	token := uuid.NewString()

	waitCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	held := make([]string, 0, len(keys))
	for _, k := range keys {
		if err := l.acquire(waitCtx, k, token); err != nil {
			l.releaseAll(held, token)
			return nil, fmt.Errorf("lock %q: %w", k, err)
		}
		held = append(held, k)
	}

	var once sync.Once
	return func() { once.Do(func() { l.releaseAll(held, token) }) }, nil
}

func (l *KeyLock) acquire(ctx context.Context, key, token string) error {
	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()

	for {
		ok, err := l.rdb.SetNX(ctx, keyPrefix+key, token, l.ttl).Result()
		switch {
		case err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled):
			return fmt.Errorf("redis setnx: %w", err)
		case err != nil:
			return err
		case ok:
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (l *KeyLock) releaseAll(keys []string, token string) {
	// The caller's ctx may already be cancelled; release on a fresh one.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	for i := len(keys) - 1; i >= 0; i-- {
		if err := releaseScript.Run(ctx, l.rdb, []string{keyPrefix + keys[i]}, token).Err(); err != nil {
			l.log.WarnContext(ctx, "release lock",
				slog.String("key", keys[i]),
				slog.String("error", err.Error()),
			)
		}
	}
}
