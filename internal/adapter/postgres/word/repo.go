// Package word implements the canonical word store using PostgreSQL.
// One row holds one canonical document; its entries live in a JSONB array
// and the root graph is encoded by root_state + root_key.
package word

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/lexicon-backend/internal/adapter/postgres"
	"github.com/heartmarshall/lexicon-backend/internal/domain"
)

const (
	entity = "word"

	wordColumns = `key, entries, variants, symbol, parts_of_speech, root_state, root_key, created_at, updated_at`
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides canonical word persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new word repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// FindByKey returns the document stored under the canonical key.
// Returns domain.ErrNotFound if absent.
func (r *Repo) FindByKey(ctx context.Context, key string) (*domain.WordDocument, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	doc, err := scanWord(q.QueryRow(ctx, `SELECT `+wordColumns+` FROM words WHERE key = $1`, key))
	if err != nil {
		return nil, postgres.MapError(err, entity, key)
	}
	return &doc, nil
}

// FindByKeyForUpdate is FindByKey with a row lock held until the surrounding
// transaction ends. Outside a transaction the lock is released immediately.
func (r *Repo) FindByKeyForUpdate(ctx context.Context, key string) (*domain.WordDocument, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	doc, err := scanWord(q.QueryRow(ctx, `SELECT `+wordColumns+` FROM words WHERE key = $1 FOR UPDATE`, key))
	if err != nil {
		return nil, postgres.MapError(err, entity, key)
	}
	return &doc, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

const upsertMergedSQL = `
INSERT INTO words (key, entries, variants, symbol, parts_of_speech, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())
ON CONFLICT (key) DO UPDATE SET
    entries         = EXCLUDED.entries,
    variants        = EXCLUDED.variants,
    symbol          = EXCLUDED.symbol,
    parts_of_speech = EXCLUDED.parts_of_speech,
    updated_at      = EXCLUDED.updated_at
RETURNING ` + wordColumns

// UpsertMerged writes the merged entry list and its summary. A new row starts
// standalone; an existing row keeps its created_at and root link.
func (r *Repo) UpsertMerged(ctx context.Context, w domain.MergedWord) (*domain.WordDocument, error) {
	if w.Key == "" {
		return nil, domain.NewValidationError("key", "required")
	}

	entries := w.Entries
	if entries == nil {
		entries = []domain.Entry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("%s %q: marshal entries: %w", entity, w.Key, err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	doc, err := scanWord(q.QueryRow(ctx, upsertMergedSQL,
		w.Key, raw, nonNil(w.Summary.Variants), w.Summary.Symbol, nonNil(w.Summary.PartsOfSpeech),
	))
	if err != nil {
		return nil, postgres.MapError(err, entity, w.Key)
	}
	return &doc, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func scanWord(row pgx.Row) (domain.WordDocument, error) {
	var (
		doc       domain.WordDocument
		rawEntry  []byte
		rootState string
		rootKey   *string
	)
	err := row.Scan(
		&doc.Key, &rawEntry, &doc.Variants, &doc.Symbol, &doc.PartsOfSpeech,
		&rootState, &rootKey, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return domain.WordDocument{}, err
	}
	return finishScan(doc, rawEntry, rootState, rootKey)
}

func scanWords(rows pgx.Rows) ([]domain.WordDocument, error) {
	defer rows.Close()

	docs := make([]domain.WordDocument, 0)
	for rows.Next() {
		doc, err := scanWord(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

func finishScan(doc domain.WordDocument, rawEntries []byte, rootState string, rootKey *string) (domain.WordDocument, error) {
	if err := json.Unmarshal(rawEntries, &doc.Entries); err != nil {
		return domain.WordDocument{}, fmt.Errorf("decode entries: %w", err)
	}
	if doc.Entries == nil {
		doc.Entries = []domain.Entry{}
	}

	switch domain.RootState(rootState) {
	case domain.RootStateRoot:
		doc.Root = domain.AsRoot()
	case domain.RootStateChild:
		if rootKey == nil {
			return domain.WordDocument{}, fmt.Errorf("child %q without root key", doc.Key)
		}
		doc.Root = domain.ChildOf(*rootKey)
	default:
		doc.Root = domain.Standalone()
	}

	doc.CreatedAt = doc.CreatedAt.UTC()
	doc.UpdatedAt = doc.UpdatedAt.UTC()
	return doc, nil
}

func rootColumns(link domain.RootLink) (string, *string) {
	if parent, ok := link.Parent(); ok {
		return string(domain.RootStateChild), &parent
	}
	if link.IsRoot() {
		return string(domain.RootStateRoot), nil
	}
	return string(domain.RootStateStandalone), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
