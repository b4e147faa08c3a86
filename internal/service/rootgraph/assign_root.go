package rootgraph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/lexicon-backend/internal/domain"
)

// maxAttempts bounds how often AssignRoot re-plans when the documents it
// touches change between planning and locking.
const maxAttempts = 3

var errStalePlan = errors.New("root graph changed concurrently")

// AssignResult reports how many target documents had their root link changed
// (0 when the target already had the requested link).
type AssignResult struct {
	ModifiedCount int `json:"modified_count"`
}

// plan is what AssignRoot expects to find once the locks are held.
type plan struct {
	key       string
	link      domain.RootLink
	oldRoot   string // current parent of the target, "" if none
	displaced string // current parent of the new root, "" if none
}

func (p plan) lockKeys() []string {
	keys := []string{p.key}
	if parent, ok := p.link.Parent(); ok {
		keys = append(keys, parent)
	}
	if p.oldRoot != "" {
		keys = append(keys, p.oldRoot)
	}
	if p.displaced != "" {
		keys = append(keys, p.displaced)
	}
	return keys
}

// AssignRoot points wordKey at newRoot, or makes it standalone when newRoot is
// blank. The new root is created as an empty placeholder when missing and is
// promoted to a root otherwise. The previous root, and the previous parent of
// the new root, are demoted to standalone once they have no children left.
//
// Errors: domain.ErrValidation for a key without letters, domain.ErrNotFound if
// wordKey has no document, domain.ErrInvalidOperation if wordKey is itself a
// root or equals newRoot.
func (s *Service) AssignRoot(ctx context.Context, wordKey, newRoot string) (AssignResult, error) {
	key := domain.Canonicalize(wordKey)
	if key == "" {
		return AssignResult{}, domain.NewValidationError("word_key", "required")
	}

	link := domain.Standalone()
	if strings.TrimSpace(newRoot) != "" {
		rootKey := domain.Canonicalize(newRoot)
		if rootKey == "" {
			return AssignResult{}, domain.NewValidationError("root_key", "must contain letters")
		}
		if rootKey == key {
			return AssignResult{}, domain.NewOperationError(key, "a word cannot be its own root")
		}
		link = domain.ChildOf(rootKey)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	for attempt := 1; ; attempt++ {
		p, err := s.plan(ctx, key, link)
		if err != nil {
			return AssignResult{}, err
		}

		res, err := s.apply(ctx, p)
		if errors.Is(err, errStalePlan) && attempt < maxAttempts {
			s.log.DebugContext(ctx, "root assignment replanned",
				slog.String("key", key),
				slog.Int("attempt", attempt),
			)
			continue
		}
		if err != nil {
			return AssignResult{}, fmt.Errorf("assign root %q: %w", key, err)
		}

		s.log.InfoContext(ctx, "root assigned",
			slog.String("key", key),
			slog.String("root", link.String()),
			slog.String("old_root", p.oldRoot),
			slog.Int("modified", res.ModifiedCount),
		)
		return res, nil
	}
}

// plan reads the current links without locks to learn which keys to lock.
func (s *Service) plan(ctx context.Context, key string, link domain.RootLink) (plan, error) {
	p := plan{key: key, link: link}

	doc, err := s.words.FindByKey(ctx, key)
	if err != nil {
		return plan{}, fmt.Errorf("find word: %w", err)
	}
	if doc.Root.IsRoot() {
		return plan{}, domain.NewOperationError(key, "word is a root; reassign its children first")
	}
	p.oldRoot, _ = doc.Root.Parent()

	if rootKey, ok := link.Parent(); ok {
		rootDoc, err := s.words.FindByKey(ctx, rootKey)
		switch {
		case errors.Is(err, domain.ErrNotFound):
		case err != nil:
			return plan{}, fmt.Errorf("find root: %w", err)
		default:
			p.displaced, _ = rootDoc.Root.Parent()
		}
	}
	return p, nil
}

// apply re-reads the documents under their locks and a single transaction and
// performs the change if the plan still holds.
func (s *Service) apply(ctx context.Context, p plan) (AssignResult, error) {
	unlock, err := s.locks.Lock(ctx, p.lockKeys()...)
	if err != nil {
		return AssignResult{}, fmt.Errorf("lock: %w", err)
	}
	defer unlock()

	var res AssignResult
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		doc, err := s.words.FindByKeyForUpdate(ctx, p.key)
		if err != nil {
			return fmt.Errorf("find word: %w", err)
		}
		if doc.Root.IsRoot() {
			return domain.NewOperationError(p.key, "word is a root; reassign its children first")
		}
		if parent, _ := doc.Root.Parent(); parent != p.oldRoot {
			return errStalePlan
		}

		rootKey, hasRoot := p.link.Parent()
		if hasRoot {
			rootDoc, err := s.words.FindByKeyForUpdate(ctx, rootKey)
			displaced := ""
			switch {
			case errors.Is(err, domain.ErrNotFound):
			case err != nil:
				return fmt.Errorf("find root: %w", err)
			default:
				displaced, _ = rootDoc.Root.Parent()
			}
			if displaced != p.displaced {
				return errStalePlan
			}

			created, err := s.words.EnsureRoot(ctx, rootKey)
			if err != nil {
				return fmt.Errorf("ensure root: %w", err)
			}
			if created {
				s.log.InfoContext(ctx, "root placeholder created", slog.String("key", rootKey))
			}
		}

		if !sameLink(doc.Root, p.link) {
			if err := s.words.SetRoot(ctx, p.key, p.link); err != nil {
				return fmt.Errorf("set root: %w", err)
			}
			res.ModifiedCount = 1
		}

		for _, k := range staleRoots(p, rootKey) {
			if _, err := s.reconcileLocked(ctx, k); err != nil {
				return fmt.Errorf("reconcile %q: %w", k, err)
			}
		}
		return nil
	})
	if err != nil {
		return AssignResult{}, err
	}
	return res, nil
}

// staleRoots lists the roots that may have lost a child, without duplicates.
func staleRoots(p plan, newRoot string) []string {
	var out []string
	if p.oldRoot != "" && p.oldRoot != newRoot {
		out = append(out, p.oldRoot)
	}
	if p.displaced != "" && p.displaced != p.oldRoot {
		out = append(out, p.displaced)
	}
	return out
}

func sameLink(a, b domain.RootLink) bool {
	if a.IsStandalone() && b.IsStandalone() {
		return true
	}
	return a.State == b.State && a.Key == b.Key
}
