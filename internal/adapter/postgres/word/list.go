package word

import (
	"context"
	"slices"
	"strings"

	sq "github.com/Masterminds/squirrel"

	postgres "github.com/heartmarshall/lexicon-backend/internal/adapter/postgres"
	"github.com/heartmarshall/lexicon-backend/internal/domain"
)

// topLevelStates are the root states listed at the top level; children are
// only reachable through their root.
var topLevelStates = []string{string(domain.RootStateStandalone), string(domain.RootStateRoot)}

// ListAll returns one page of top-level documents matching the filter, ordered
// by key, and the total number of matches.
func (r *Repo) ListAll(ctx context.Context, f domain.ListFilter, page domain.Page) ([]domain.WordDocument, int, error) {
	where := listConditions(f)

	total, err := r.count(ctx, where)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.WordDocument{}, 0, nil
	}

	query, args, err := psql.Select(wordColumns).
		From("words").
		Where(where).
		OrderBy(`key COLLATE "C" ASC`).
		Limit(uint64(page.PerPage)).
		Offset(uint64(page.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, postgres.MapError(err, entity, f.Prefix)
	}

	docs, err := scanWords(rows)
	if err != nil {
		return nil, 0, postgres.MapError(err, entity, f.Prefix)
	}
	return docs, total, nil
}

// ListKeys returns one page of canonical keys starting with prefix, ordered by
// key, and the total. An empty prefix lists every key.
func (r *Repo) ListKeys(ctx context.Context, prefix string, page domain.Page) ([]string, int, error) {
	where := sq.And{}
	if prefix != "" {
		where = append(where, sq.Like{"key": likePrefix(prefix)})
	}

	total, err := r.count(ctx, where)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []string{}, 0, nil
	}

	query, args, err := psql.Select("key").
		From("words").
		Where(where).
		OrderBy(`key COLLATE "C" ASC`).
		Limit(uint64(page.PerPage)).
		Offset(uint64(page.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, postgres.MapError(err, entity, prefix)
	}
	defer rows.Close()

	keys := make([]string, 0, page.PerPage)
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, 0, postgres.MapError(err, entity, prefix)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, postgres.MapError(err, entity, prefix)
	}
	return keys, total, nil
}

func (r *Repo) count(ctx context.Context, where sq.Sqlizer) (int, error) {
	query, args, err := psql.Select("count(*)").From("words").Where(where).ToSql()
	if err != nil {
		return 0, err
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	var n int
	if err := q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, postgres.MapError(err, entity, "count")
	}
	return n, nil
}

// listConditions builds the WHERE clause of ListAll.
func listConditions(f domain.ListFilter) sq.And {
	where := sq.And{sq.Eq{"root_state": topLevelStates}}

	if f.Prefix != "" {
		where = append(where, sq.Like{"key": likePrefix(f.Prefix)})
	}

	if len(f.PartsOfSpeech) > 0 {
		pos := slices.Clone(f.PartsOfSpeech)
		slices.Sort(pos)
		pos = slices.Compact(pos)
		// Set equality: each side contains the other.
		where = append(where, sq.Expr("parts_of_speech @> ?::text[] AND parts_of_speech <@ ?::text[]", pos, pos))
	}

	switch sym := strings.ToLower(strings.TrimSpace(f.Symbol)); {
	case sym == "":
	case sym == domain.SymbolOther:
		where = append(where, sq.NotEq{"symbol": domain.SymbolPriority})
	default:
		where = append(where, sq.Eq{"symbol": sym})
	}

	return where
}
