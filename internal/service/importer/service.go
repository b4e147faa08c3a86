// Package importer groups raw dictionary entries by canonical key and merges
// them into the canonical word store.
package importer

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/lexicon-backend/internal/config"
	"github.com/heartmarshall/lexicon-backend/internal/domain"
)

type wordRepo interface {
	FindByKeyForUpdate(ctx context.Context, key string) (*domain.WordDocument, error)
	UpsertMerged(ctx context.Context, w domain.MergedWord) (*domain.WordDocument, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type keyLocker interface {
	Lock(ctx context.Context, keys ...string) (func(), error)
}

// Service implements batch import and the shared merge path.
type Service struct {
	log      *slog.Logger
	words    wordRepo
	tx       txManager
	locks    keyLocker
	cfg      config.ImportConfig
	patterns []string
	newID    func() string
}

// NewService creates a new importer service.
func NewService(
	logger *slog.Logger,
	words wordRepo,
	tx txManager,
	locks keyLocker,
	cfg config.ImportConfig,
) *Service {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &Service{
		log:      logger.With("service", "importer"),
		words:    words,
		tx:       tx,
		locks:    locks,
		cfg:      cfg,
		patterns: config.ParsePatterns(cfg.FilePatterns),
		newID:    uuid.NewString,
	}
}
