package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/lexicon-backend/internal/domain"
)

// group is the input of one per-key merge.
type group struct {
	key     string
	entries []domain.Entry
}

// groupByKey partitions raw entries by canonical key. Groups keep the order in
// which their key first appears; entries keep input order within a group.
// Entries whose word has no canonical form are counted as skipped.
func groupByKey(raw []domain.Entry) (groups []group, skipped int) {
	index := make(map[string]int)
	for _, e := range raw {
		key := domain.Canonicalize(e.Word)
		if key == "" {
			skipped++
			continue
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, group{key: key})
		}
		groups[i].entries = append(groups[i].entries, e)
	}
	return groups, skipped
}

// normalizeShape applies the import-only defaults: entries arrive untranslated
// and always carry a phrasal-verb list.
func normalizeShape(entries []domain.Entry) {
	for i := range entries {
		entries[i].IsTranslated = false
		if entries[i].PhrasalVerbSenses == nil {
			entries[i].PhrasalVerbSenses = []domain.PhrasalVerbGroup{}
		}
	}
}

// MergeEntries appends the incoming entries whose surface word is not already
// stored in existing, comparing exact strings. Incoming entries are not
// deduplicated among themselves: one source page per part of speech shares a
// surface word and every page is kept. It returns the merged list and how many
// entries were appended. existing is never modified.
func MergeEntries(existing, incoming []domain.Entry) ([]domain.Entry, int) {
	present := make(map[string]struct{}, len(existing))
	for _, e := range existing {
		present[e.Word] = struct{}{}
	}

	merged := make([]domain.Entry, len(existing), len(existing)+len(incoming))
	copy(merged, existing)

	added := 0
	for _, e := range incoming {
		if _, dup := present[e.Word]; dup {
			continue
		}
		merged = append(merged, e)
		added++
	}
	return merged, added
}

type mergeOutcome int

const (
	outcomeUnchanged mergeOutcome = iota
	outcomeCreated
	outcomeAppended
)

// mergeGroup upserts one key under its lock and inside one transaction.
func (s *Service) mergeGroup(ctx context.Context, g group) (mergeOutcome, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.OperationTimeout)
	defer cancel()

	unlock, err := s.locks.Lock(ctx, g.key)
	if err != nil {
		return outcomeUnchanged, fmt.Errorf("lock: %w", err)
	}
	defer unlock()

	outcome := outcomeUnchanged
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var existing []domain.Entry
		doc, err := s.words.FindByKeyForUpdate(ctx, g.key)
		switch {
		case errors.Is(err, domain.ErrNotFound):
		case err != nil:
			return fmt.Errorf("find: %w", err)
		default:
			existing = doc.Entries
		}

		merged, added := MergeEntries(existing, g.entries)
		if added == 0 {
			return nil
		}

		if _, err := s.words.UpsertMerged(ctx, domain.NewMergedWord(g.key, merged)); err != nil {
			return fmt.Errorf("upsert: %w", err)
		}

		outcome = outcomeAppended
		if doc == nil {
			outcome = outcomeCreated
		}

		s.log.DebugContext(ctx, "key merged",
			slog.String("key", g.key),
			slog.Int("added", added),
			slog.Int("entries", len(merged)),
		)
		return nil
	})
	if err != nil {
		return outcomeUnchanged, err
	}
	return outcome, nil
}
