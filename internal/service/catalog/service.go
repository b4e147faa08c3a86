// Package catalog is the read side of the word store: key lookups, prefix and
// idiom search, listings, and get-or-fetch from the external source.
package catalog

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/lexicon-backend/internal/config"
	"github.com/heartmarshall/lexicon-backend/internal/domain"
	"github.com/heartmarshall/lexicon-backend/internal/service/importer"
)

type wordRepo interface {
	FindByKey(ctx context.Context, key string) (*domain.WordDocument, error)
	SearchByPrefix(ctx context.Context, prefix string, page domain.Page) ([]string, int, error)
	SearchIdioms(ctx context.Context, query string, page domain.Page) ([]domain.IdiomHit, int, error)
	ListAll(ctx context.Context, f domain.ListFilter, page domain.Page) ([]domain.WordDocument, int, error)
	FindByRoots(ctx context.Context, rootKeys []string) (map[string][]domain.WordDocument, error)
	ListKeys(ctx context.Context, prefix string, page domain.Page) ([]string, int, error)
}

type source interface {
	FetchPages(ctx context.Context, word string) ([]domain.Entry, error)
}

type merger interface {
	Merge(ctx context.Context, entries []domain.Entry) (importer.BatchResult, error)
}

// Service implements the query layer.
type Service struct {
	log    *slog.Logger
	words  wordRepo
	source source
	merger merger
	cfg    config.SearchConfig
}

// NewService creates a new catalog service. source may be nil, in which case
// GetOrFetch only serves stored documents.
func NewService(
	logger *slog.Logger,
	words wordRepo,
	src source,
	m merger,
	cfg config.SearchConfig,
) *Service {
	return &Service{
		log:    logger.With("service", "catalog"),
		words:  words,
		source: src,
		merger: m,
		cfg:    cfg,
	}
}

// page normalizes a 1-based page request against the configured bounds.
func (s *Service) page(number, perPage int) domain.Page {
	if number < 1 {
		number = 1
	}
	if perPage <= 0 {
		perPage = s.cfg.DefaultPerPage
	}
	if perPage > s.cfg.MaxPerPage {
		perPage = s.cfg.MaxPerPage
	}
	return domain.Page{Number: number, PerPage: perPage}
}
