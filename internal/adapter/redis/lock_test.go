package redis_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/heartmarshall/lexicon-backend/internal/adapter/redis"
	"github.com/heartmarshall/lexicon-backend/internal/config"
)

var (
	once      sync.Once
	sharedCfg config.LockConfig
	initErr   error
)

// setupRedis starts a shared Redis container once per test binary.
func setupRedis(t *testing.T) config.LockConfig {
	t.Helper()
	if testing.Short() {
		t.Skip("redis tests skipped in -short mode")
	}

	once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
		defer cancel()

		container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "redis:7-alpine",
				ExposedPorts: []string{"6379/tcp"},
				WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
			},
			Started: true,
		})
		if err != nil {
			initErr = fmt.Errorf("start container: %w", err)
			return
		}

		host, err := container.Host(ctx)
		if err != nil {
			initErr = err
			return
		}
		port, err := container.MappedPort(ctx, "6379")
		if err != nil {
			initErr = err
			return
		}

		sharedCfg = config.LockConfig{
			RedisAddr:     fmt.Sprintf("%s:%s", host, port.Port()),
			TTL:           2 * time.Second,
			WaitTimeout:   300 * time.Millisecond,
			RetryInterval: 10 * time.Millisecond,
		}
	})
	if initErr != nil {
		t.Fatalf("failed to setup redis: %v", initErr)
	}
	return sharedCfg
}

func newLock(t *testing.T) (*redis.KeyLock, *goredis.Client, config.LockConfig) {
	t.Helper()
	cfg := setupRedis(t)

	rdb, err := redis.NewClient(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return redis.NewKeyLock(rdb, cfg, logger), rdb, cfg
}

func TestKeyLock_AcquireRelease(t *testing.T) {
	t.Parallel()
	lock, rdb, _ := newLock(t)
	ctx := context.Background()

	unlock, err := lock.Lock(ctx, "ability", "abroad")
	require.NoError(t, err)

	n, err := rdb.Exists(ctx, "lexicon:lock:ability", "lexicon:lock:abroad").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	unlock()
	unlock()

	n, err = rdb.Exists(ctx, "lexicon:lock:ability", "lexicon:lock:abroad").Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestKeyLock_ContendedTimesOut(t *testing.T) {
	t.Parallel()
	lock, _, _ := newLock(t)
	ctx := context.Background()

	unlock, err := lock.Lock(ctx, "contended")
	require.NoError(t, err)
	defer unlock()

	start := time.Now()
	_, err = lock.Lock(ctx, "free-key", "contended")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)

	// "free-key" sorts first and must have been released on failure.
	unlockFree, err := lock.Lock(ctx, "free-key")
	require.NoError(t, err)
	unlockFree()
}

func TestKeyLock_WaitsForRelease(t *testing.T) {
	t.Parallel()
	lock, _, _ := newLock(t)
	ctx := context.Background()

	unlock, err := lock.Lock(ctx, "handoff")
	require.NoError(t, err)

	go func() {
		time.Sleep(50 * time.Millisecond)
		unlock()
	}()

	unlock2, err := lock.Lock(ctx, "handoff")
	require.NoError(t, err)
	unlock2()
}

func TestKeyLock_ReleaseKeepsForeignToken(t *testing.T) {
	t.Parallel()
	lock, rdb, cfg := newLock(t)
	ctx := context.Background()

	unlock, err := lock.Lock(ctx, "expired")
	require.NoError(t, err)

	// Simulate expiry followed by another holder taking the key.
	require.NoError(t, rdb.Set(ctx, "lexicon:lock:expired", "someone-else", cfg.TTL).Err())

	unlock()

	val, err := rdb.Get(ctx, "lexicon:lock:expired").Result()
	require.NoError(t, err)
	assert.Equal(t, "someone-else", val)
}
