package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/lexicon-backend/internal/adapter/postgres"
	"github.com/heartmarshall/lexicon-backend/internal/adapter/postgres/testhelper"
)

// wordExists checks whether a words row with the given key exists in the database.
func wordExists(t *testing.T, pool *pgxpool.Pool, key string) bool {
	t.Helper()
	var exists bool
	err := pool.QueryRow(
		context.Background(),
		`SELECT EXISTS(SELECT 1 FROM words WHERE key = $1)`,
		key,
	).Scan(&exists)
	if err != nil {
		t.Fatalf("wordExists query: %v", err)
	}
	return exists
}

func insertWord(ctx context.Context, q postgres.Querier, key string) error {
	_, err := q.Exec(ctx,
		`INSERT INTO words (key, entries, created_at, updated_at) VALUES ($1, '[]', now(), now())`,
		key,
	)
	return err
}

func uniqueKey(prefix string) string {
	return prefix + " " + uuid.NewString()[:8]
}

func TestRunInTx_Commit(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	key := uniqueKey("commit")

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		return insertWord(ctx, postgres.QuerierFromCtx(ctx, pool), key)
	})
	if err != nil {
		t.Fatalf("RunInTx returned error: %v", err)
	}

	if !wordExists(t, pool, key) {
		t.Fatal("expected word to exist after committed transaction")
	}
}

func TestRunInTx_RollbackOnError(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	key := uniqueKey("rollback")
	sentinel := errors.New("business logic error")

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		if execErr := insertWord(ctx, postgres.QuerierFromCtx(ctx, pool), key); execErr != nil {
			t.Fatalf("insert inside tx failed: %v", execErr)
		}
		return sentinel
	})

	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got: %v", err)
	}

	if wordExists(t, pool, key) {
		t.Fatal("expected word NOT to exist after rolled-back transaction")
	}
}

func TestRunInTx_RollbackOnPanic(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	key := uniqueKey("panic")

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic to be re-raised")
		}
		if r != "test panic" {
			t.Fatalf("expected panic value %q, got %v", "test panic", r)
		}

		if wordExists(t, pool, key) {
			t.Fatal("expected word NOT to exist after panic-rolled-back transaction")
		}
	}()

	_ = tm.RunInTx(context.Background(), func(ctx context.Context) error {
		if err := insertWord(ctx, postgres.QuerierFromCtx(ctx, pool), key); err != nil {
			t.Fatalf("insert inside tx failed: %v", err)
		}
		panic("test panic")
	})
}

func TestRunInTx_RollbackAfterCancel(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	key := uniqueKey("cancel")
	ctx, cancel := context.WithCancel(context.Background())

	err := tm.RunInTx(ctx, func(ctx context.Context) error {
		if execErr := insertWord(ctx, postgres.QuerierFromCtx(ctx, pool), key); execErr != nil {
			t.Fatalf("insert inside tx failed: %v", execErr)
		}
		cancel()
		return ctx.Err()
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got: %v", err)
	}
	if wordExists(t, pool, key) {
		t.Fatal("expected word NOT to exist after the cancelled transaction")
	}
}

func TestRunInTx_NestedJoinsOuter(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	key := uniqueKey("nested")
	sentinel := errors.New("outer failure")

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		if !postgres.InTx(ctx) {
			t.Fatal("expected ctx to carry a transaction")
		}
		innerErr := tm.RunInTx(ctx, func(ctx context.Context) error {
			return insertWord(ctx, postgres.QuerierFromCtx(ctx, pool), key)
		})
		if innerErr != nil {
			return innerErr
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got: %v", err)
	}

	if wordExists(t, pool, key) {
		t.Fatal("inner insert should be rolled back with the outer transaction")
	}
}

func TestRunInTx_QuerierFromCtx_UsesTx(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	tm := postgres.NewTxManager(pool)

	key := uniqueKey("ctx")

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		q := postgres.QuerierFromCtx(ctx, pool)
		if err := insertWord(ctx, q, key); err != nil {
			return err
		}

		var exists bool
		err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM words WHERE key = $1)`, key).Scan(&exists)
		if err != nil {
			return err
		}
		if !exists {
			t.Fatal("expected word to be visible within the transaction")
		}
		if wordExists(t, pool, key) {
			t.Fatal("expected word to be invisible outside the uncommitted transaction")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RunInTx returned error: %v", err)
	}

	if !wordExists(t, pool, key) {
		t.Fatal("expected word to exist after committed transaction")
	}
}
