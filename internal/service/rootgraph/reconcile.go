package rootgraph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/lexicon-backend/internal/domain"
)

// ReconcileResult describes the state of a root after reconciliation.
type ReconcileResult struct {
	Key      string          `json:"key"`
	Children int             `json:"children"`
	Root     domain.RootLink `json:"root"`
	Changed  bool            `json:"changed"`
}

// GetByRoot returns the documents whose root is rootKey, ordered by key.
// A blank rootKey yields an empty list.
func (s *Service) GetByRoot(ctx context.Context, rootKey string) ([]domain.WordDocument, error) {
	key := domain.Canonicalize(rootKey)
	if key == "" {
		return []domain.WordDocument{}, nil
	}

	docs, err := s.words.FindByRoot(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("find by root %q: %w", key, err)
	}
	return docs, nil
}

// Reconcile re-derives the root state of a single document from its children:
// a document with children becomes a root, a root without children becomes
// standalone.
func (s *Service) Reconcile(ctx context.Context, rootKey string) (ReconcileResult, error) {
	key := domain.Canonicalize(rootKey)
	if key == "" {
		return ReconcileResult{}, domain.NewValidationError("root_key", "required")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	unlock, err := s.locks.Lock(ctx, key)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("lock: %w", err)
	}
	defer unlock()

	var res ReconcileResult
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.words.FindByKey(ctx, key); err != nil {
			return err
		}
		var err error
		res, err = s.reconcileLocked(ctx, key)
		return err
	})
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("reconcile %q: %w", key, err)
	}
	return res, nil
}

// reconcileLocked must run with key locked and inside a transaction.
// A missing document is left alone.
func (s *Service) reconcileLocked(ctx context.Context, key string) (ReconcileResult, error) {
	doc, err := s.words.FindByKeyForUpdate(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return ReconcileResult{Key: key, Root: domain.Standalone()}, nil
	}
	if err != nil {
		return ReconcileResult{}, err
	}

	n, err := s.words.CountChildren(ctx, key)
	if err != nil {
		return ReconcileResult{}, err
	}

	res := ReconcileResult{Key: key, Children: n, Root: doc.Root}
	switch {
	case n == 0 && doc.Root.IsRoot():
		res.Root = domain.Standalone()
	case n > 0 && !doc.Root.IsRoot():
		if parent, ok := doc.Root.Parent(); ok {
			s.log.WarnContext(ctx, "child document has children, promoting to root",
				slog.String("key", key),
				slog.String("former_root", parent),
				slog.Int("children", n),
			)
		}
		res.Root = domain.AsRoot()
	default:
		return res, nil
	}

	if err := s.words.SetRoot(ctx, key, res.Root); err != nil {
		return ReconcileResult{}, err
	}
	res.Changed = true

	s.log.DebugContext(ctx, "root reconciled",
		slog.String("key", key),
		slog.Int("children", n),
		slog.String("root", res.Root.String()),
	)
	return res, nil
}
