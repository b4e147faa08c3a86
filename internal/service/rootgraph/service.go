// Package rootgraph maintains the root/variant graph: a document may point at a
// root document, a root always has at least one child, and children never have
// children of their own.
package rootgraph

import (
	"context"
	"log/slog"
	"time"

	"github.com/heartmarshall/lexicon-backend/internal/domain"
)

type wordRepo interface {
	FindByKey(ctx context.Context, key string) (*domain.WordDocument, error)
	FindByKeyForUpdate(ctx context.Context, key string) (*domain.WordDocument, error)
	FindByRoot(ctx context.Context, rootKey string) ([]domain.WordDocument, error)
	CountChildren(ctx context.Context, rootKey string) (int, error)
	SetRoot(ctx context.Context, key string, link domain.RootLink) error
	EnsureRoot(ctx context.Context, key string) (bool, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type keyLocker interface {
	Lock(ctx context.Context, keys ...string) (func(), error)
}

// Service implements root assignment, child lookup and root reconciliation.
type Service struct {
	log     *slog.Logger
	words   wordRepo
	tx      txManager
	locks   keyLocker
	timeout time.Duration
}

// NewService creates a new root graph service. timeout bounds each operation,
// including the time spent waiting for key locks.
func NewService(
	logger *slog.Logger,
	words wordRepo,
	tx txManager,
	locks keyLocker,
	timeout time.Duration,
) *Service {
	return &Service{
		log:     logger.With("service", "rootgraph"),
		words:   words,
		tx:      tx,
		locks:   locks,
		timeout: timeout,
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}
