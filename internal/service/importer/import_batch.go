package importer

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/lexicon-backend/internal/domain"
)

// ImportBatch groups raw entries by canonical key, assigns identifiers to every
// nested node lacking one, applies the import shape defaults, and merges each
// group. Per-key failures are collected in the result and never abort the batch.
//
// The returned error is non-nil only when ctx ends; the partial result gathered
// up to that point is still returned.
func (s *Service) ImportBatch(ctx context.Context, raw []domain.Entry) (BatchResult, error) {
	return s.run(ctx, raw, true)
}

// Merge is ImportBatch without the import shape defaults, for entries that
// already carry their final shape (e.g. pages from the external source).
func (s *Service) Merge(ctx context.Context, entries []domain.Entry) (BatchResult, error) {
	return s.run(ctx, entries, false)
}

func (s *Service) run(ctx context.Context, raw []domain.Entry, importShape bool) (BatchResult, error) {
	start := time.Now()
	result := newBatchResult(len(raw))

	groups, skipped := groupByKey(raw)
	result.GroupedWords = len(groups)
	result.Skipped = skipped

	for _, g := range groups {
		domain.AssignIDs(g.entries, s.newID)
		if importShape {
			normalizeShape(g.entries)
		}
	}

	outcomes := make([]mergeOutcome, len(groups))
	errs := make([]error, len(groups))
	scheduled := 0

	var eg errgroup.Group
	eg.SetLimit(s.cfg.Concurrency)
	for i, g := range groups {
		if ctx.Err() != nil {
			break
		}
		scheduled++
		eg.Go(func() error {
			outcomes[i], errs[i] = s.mergeGroup(ctx, g)
			return nil
		})
	}
	_ = eg.Wait()

	for i := range scheduled {
		if errs[i] != nil {
			s.log.WarnContext(ctx, "key import failed",
				slog.String("key", groups[i].key),
				slog.String("error", errs[i].Error()),
			)
			result.Errors = append(result.Errors, KeyError{Key: groups[i].key, Message: errs[i].Error()})
			continue
		}
		switch outcomes[i] {
		case outcomeCreated, outcomeAppended:
			result.Imported++
		default:
			result.Unchanged++
		}
	}

	s.log.InfoContext(ctx, "batch merged",
		slog.Int("total_words", result.TotalWords),
		slog.Int("grouped_words", result.GroupedWords),
		slog.Int("imported", result.Imported),
		slog.Int("unchanged", result.Unchanged),
		slog.Int("skipped", result.Skipped),
		slog.Int("errors", len(result.Errors)),
		slog.Int("scheduled", scheduled),
		slog.Duration("elapsed", time.Since(start)),
	)

	return result, ctx.Err()
}
