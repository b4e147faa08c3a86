package testhelper

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/lexicon-backend/internal/domain"
)

// UniqueSuffix returns a short lowercase letter string for non-conflicting keys.
// Keys must survive canonicalization, so digits from the uuid are mapped to letters.
func UniqueSuffix() string {
	raw := []byte(uuid.New().String()[:8])
	for i, c := range raw {
		if c >= '0' && c <= '9' {
			raw[i] = 'g' + (c - '0')
		}
	}
	return string(raw)
}

// SeedWord inserts a standalone document with one entry per surface word
// (the key itself when none are given). Summary fields are derived from the entries.
func SeedWord(t *testing.T, pool *pgxpool.Pool, key string, words ...string) domain.WordDocument {
	t.Helper()

	if len(words) == 0 {
		words = []string{key}
	}
	entries := make([]domain.Entry, 0, len(words))
	for _, w := range words {
		entries = append(entries, domain.Entry{
			Word:         w,
			PartOfSpeech: "noun",
			Senses:       []domain.Sense{{Definition: "definition of " + w}},
		})
	}
	domain.AssignIDs(entries, uuid.NewString)

	return SeedDocument(t, pool, key, entries, domain.Standalone())
}

// SeedDocument inserts a document with the given entries and root link.
func SeedDocument(t *testing.T, pool *pgxpool.Pool, key string, entries []domain.Entry, root domain.RootLink) domain.WordDocument {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	sum := domain.Summarize(entries)
	doc := domain.WordDocument{
		Key:           key,
		Entries:       entries,
		Variants:      sum.Variants,
		Symbol:        sum.Symbol,
		PartsOfSpeech: sum.PartsOfSpeech,
		Root:          root,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if doc.Root.State == "" {
		doc.Root = domain.Standalone()
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		t.Fatalf("testhelper: SeedDocument marshal entries: %v", err)
	}

	var rootKey *string
	if parent, ok := doc.Root.Parent(); ok {
		rootKey = &parent
	}

	_, err = pool.Exec(context.Background(),
		`INSERT INTO words (key, entries, variants, symbol, parts_of_speech, root_state, root_key, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		doc.Key, raw, doc.Variants, doc.Symbol, doc.PartsOfSpeech, string(doc.Root.State), rootKey, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedDocument insert %q: %v", key, err)
	}

	return doc
}
