package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/heartmarshall/lexicon-backend/internal/domain"
)

// FindByKey canonicalizes raw and returns the stored document.
func (s *Service) FindByKey(ctx context.Context, raw string) (*domain.WordDocument, error) {
	key := domain.Canonicalize(raw)
	if key == "" {
		return nil, domain.NewValidationError("key", "must contain letters")
	}
	return s.words.FindByKey(ctx, key)
}

// SearchByPrefix returns the distinct surface words of every document whose
// key, variants or surface words start with prefix (case-insensitive), sorted
// descending by byte order and sliced by page. A blank prefix matches nothing.
//
// Matching is per document: once a document matches, all of its surface words
// are results, including ones that do not themselves start with prefix. "ab"
// returns "-ability" from the document keyed "ability".
func (s *Service) SearchByPrefix(ctx context.Context, prefix string, page, perPage int) (WordPage, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return WordPage{Words: []string{}}, nil
	}

	words, total, err := s.words.SearchByPrefix(ctx, prefix, s.page(page, perPage))
	if err != nil {
		return WordPage{}, fmt.Errorf("search by prefix: %w", err)
	}
	return WordPage{Total: total, Words: words}, nil
}

// SearchIdiomsOnly matches idiom words token by token: "take bull" finds
// "take the bull by the horns". Punctuation and digits in q are ignored.
func (s *Service) SearchIdiomsOnly(ctx context.Context, q string, page, perPage int) (IdiomPage, error) {
	query := domain.SanitizeIdiomQuery(q)
	if query == "" {
		return IdiomPage{Idioms: []domain.IdiomHit{}}, nil
	}

	hits, total, err := s.words.SearchIdioms(ctx, query, s.page(page, perPage))
	if err != nil {
		return IdiomPage{}, fmt.Errorf("search idioms: %w", err)
	}
	return IdiomPage{Total: total, Idioms: hits}, nil
}

// ListAll lists standalone and root documents matching f, each root carrying
// its children. Child documents never appear at the top level.
func (s *Service) ListAll(ctx context.Context, f domain.ListFilter, page, perPage int) (ListPage, error) {
	p := s.page(page, perPage)

	f.Prefix = domain.Canonicalize(f.Prefix)
	f.Symbol = strings.ToLower(strings.TrimSpace(f.Symbol))

	docs, total, err := s.words.ListAll(ctx, f, p)
	if err != nil {
		return ListPage{}, fmt.Errorf("list words: %w", err)
	}

	var roots []string
	for _, d := range docs {
		if d.Root.IsRoot() {
			roots = append(roots, d.Key)
		}
	}
	if len(roots) > 0 {
		children, err := s.words.FindByRoots(ctx, roots)
		if err != nil {
			return ListPage{}, fmt.Errorf("list children: %w", err)
		}
		for i := range docs {
			if c, ok := children[docs[i].Key]; ok {
				docs[i].Children = c
			}
		}
	}

	return ListPage{Total: total, Page: p.Number, PerPage: p.PerPage, Data: docs}, nil
}

// ListKeysOnly lists canonical keys starting with prefix; an empty prefix
// lists every key.
func (s *Service) ListKeysOnly(ctx context.Context, prefix string, page, perPage int) (KeyPage, error) {
	keys, total, err := s.words.ListKeys(ctx, strings.ToLower(strings.TrimSpace(prefix)), s.page(page, perPage))
	if err != nil {
		return KeyPage{}, fmt.Errorf("list keys: %w", err)
	}
	return KeyPage{Total: total, Keys: keys}, nil
}
