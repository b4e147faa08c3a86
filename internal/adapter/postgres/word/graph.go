package word

import (
	"context"
	"fmt"

	postgres "github.com/heartmarshall/lexicon-backend/internal/adapter/postgres"
	"github.com/heartmarshall/lexicon-backend/internal/domain"
)

// FindByRoot returns every document whose root is rootKey, ordered by key.
func (r *Repo) FindByRoot(ctx context.Context, rootKey string) ([]domain.WordDocument, error) {
	if rootKey == "" {
		return []domain.WordDocument{}, nil
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx,
		`SELECT `+wordColumns+` FROM words WHERE root_key = $1 ORDER BY key COLLATE "C"`,
		rootKey,
	)
	if err != nil {
		return nil, postgres.MapError(err, entity, rootKey)
	}

	docs, err := scanWords(rows)
	if err != nil {
		return nil, postgres.MapError(err, entity, rootKey)
	}
	return docs, nil
}

// FindByRoots returns the children of all given roots in one query,
// grouped by root key.
func (r *Repo) FindByRoots(ctx context.Context, rootKeys []string) (map[string][]domain.WordDocument, error) {
	result := make(map[string][]domain.WordDocument, len(rootKeys))
	if len(rootKeys) == 0 {
		return result, nil
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx,
		`SELECT `+wordColumns+` FROM words WHERE root_key = ANY($1) ORDER BY root_key, key COLLATE "C"`,
		rootKeys,
	)
	if err != nil {
		return nil, postgres.MapError(err, entity, "children")
	}

	docs, err := scanWords(rows)
	if err != nil {
		return nil, postgres.MapError(err, entity, "children")
	}
	for _, d := range docs {
		parent, _ := d.Root.Parent()
		result[parent] = append(result[parent], d)
	}
	return result, nil
}

// CountChildren counts documents pointing at rootKey.
func (r *Repo) CountChildren(ctx context.Context, rootKey string) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var n int
	if err := q.QueryRow(ctx, `SELECT count(*) FROM words WHERE root_key = $1`, rootKey).Scan(&n); err != nil {
		return 0, postgres.MapError(err, entity, rootKey)
	}
	return n, nil
}

// SetRoot overwrites the root link of an existing document.
// Returns domain.ErrNotFound if the document is absent.
func (r *Repo) SetRoot(ctx context.Context, key string, link domain.RootLink) error {
	state, rootKey := rootColumns(link)

	q := postgres.QuerierFromCtx(ctx, r.pool)
	tag, err := q.Exec(ctx,
		`UPDATE words SET root_state = $2, root_key = $3, updated_at = now() WHERE key = $1`,
		key, state, rootKey,
	)
	if err != nil {
		return postgres.MapError(err, entity, key)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %q: %w", entity, key, domain.ErrNotFound)
	}
	return nil
}

const ensureRootSQL = `
INSERT INTO words (key, root_state, created_at, updated_at)
VALUES ($1, 'root', now(), now())
ON CONFLICT (key) DO UPDATE SET
    root_state = 'root',
    root_key   = NULL,
    updated_at = now()
RETURNING (xmax = 0)`

// EnsureRoot marks key as a root, creating an empty placeholder document when
// none exists. Reports whether a placeholder was created.
func (r *Repo) EnsureRoot(ctx context.Context, key string) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var created bool
	if err := q.QueryRow(ctx, ensureRootSQL, key).Scan(&created); err != nil {
		return false, postgres.MapError(err, entity, key)
	}
	return created, nil
}
