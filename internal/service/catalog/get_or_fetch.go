package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/lexicon-backend/internal/domain"
)

// GetOrFetch returns the stored document for word, fetching its pages from the
// external source on a miss and merging them into the store. The source call
// is made outside any transaction. Nothing is persisted when the source has no
// data; ErrWordNotFound is returned instead.
func (s *Service) GetOrFetch(ctx context.Context, word string) (*domain.WordDocument, error) {
	key := domain.Canonicalize(word)
	if key == "" {
		return nil, domain.NewValidationError("word", "must contain letters")
	}

	// 1. Stored already.
	existing, err := s.words.FindByKey(ctx, key)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("find word: %w", err)
	}
	if s.source == nil {
		return nil, err
	}

	// 2. Fetch from the source.
	pages, err := s.source.FetchPages(ctx, word)
	if err != nil {
		s.log.ErrorContext(ctx, "external source error",
			slog.String("word", word),
			slog.String("error", err.Error()),
		)
		if errors.Is(err, domain.ErrSourceUnavailable) || ctx.Err() != nil {
			return nil, fmt.Errorf("fetch pages: %w", err)
		}
		return nil, fmt.Errorf("fetch pages: %w: %w", domain.ErrSourceUnavailable, err)
	}
	if len(pages) == 0 {
		return nil, ErrWordNotFound
	}

	// 3. Merge through the import engine, keeping the source's shape.
	res, err := s.merger.Merge(ctx, pages)
	if err != nil {
		return nil, fmt.Errorf("merge pages: %w", err)
	}
	if len(res.Errors) > 0 {
		s.log.WarnContext(ctx, "source pages partially merged",
			slog.String("word", word),
			slog.Int("errors", len(res.Errors)),
			slog.String("first_error", res.Errors[0].Message),
		)
	}

	// The source may answer with a different headword ("ran" -> "run"); the
	// document is then stored under the headword's key.
	stored := key
	doc, err := s.words.FindByKey(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		if head := domain.Canonicalize(pages[0].Word); head != "" && head != key {
			stored = head
			doc, err = s.words.FindByKey(ctx, head)
		}
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) && len(res.Errors) > 0 {
			return nil, fmt.Errorf("merge pages for %q: %s: %w", stored, res.Errors[0].Message, domain.ErrStore)
		}
		return nil, fmt.Errorf("find merged word: %w", err)
	}

	s.log.InfoContext(ctx, "word fetched and stored",
		slog.String("key", stored),
		slog.Int("pages", len(pages)),
		slog.Int("entries", len(doc.Entries)),
	)
	return doc, nil
}
