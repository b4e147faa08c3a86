package word

import (
	"context"
	"strings"

	postgres "github.com/heartmarshall/lexicon-backend/internal/adapter/postgres"
	"github.com/heartmarshall/lexicon-backend/internal/domain"
)

// A document matches a prefix through its key, any variant, or any entry's
// surface word; every surface word of a matching document is a result.
const searchByPrefixSQL = `
WITH matched AS (
    SELECT DISTINCT e->>'word' AS word
    FROM words w
    CROSS JOIN LATERAL jsonb_array_elements(w.entries) AS e
    WHERE coalesce(e->>'word', '') <> ''
      AND (
          w.key LIKE $1
          OR EXISTS (SELECT 1 FROM unnest(w.variants) AS v WHERE lower(v) LIKE $1)
          OR EXISTS (SELECT 1 FROM jsonb_array_elements(w.entries) AS x WHERE lower(x->>'word') LIKE $1)
      )
)
SELECT
    (SELECT count(*) FROM matched),
    coalesce((
        SELECT array_agg(word ORDER BY word COLLATE "C" DESC)
        FROM (SELECT word FROM matched ORDER BY word COLLATE "C" DESC LIMIT $2 OFFSET $3) AS p
    ), '{}')`

// SearchByPrefix returns one page of the distinct surface words matching the
// lowercase prefix, sorted descending by byte order, and the full match count.
// An empty prefix matches nothing.
func (r *Repo) SearchByPrefix(ctx context.Context, prefix string, page domain.Page) ([]string, int, error) {
	if prefix == "" {
		return []string{}, 0, nil
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		total int
		words []string
	)
	err := q.QueryRow(ctx, searchByPrefixSQL, likePrefix(prefix), page.PerPage, page.Offset()).Scan(&total, &words)
	if err != nil {
		return nil, 0, postgres.MapError(err, entity, prefix)
	}
	if words == nil {
		words = []string{}
	}
	return words, total, nil
}

const idiomHitsCTE = `
WITH hits AS (
    SELECT DISTINCT
        w.key                                 AS document_key,
        i->>'word'                            AS word,
        coalesce(e->>'part_of_speech', '')    AS part_of_speech
    FROM words w
    CROSS JOIN LATERAL jsonb_array_elements(w.entries) AS e
    CROSS JOIN LATERAL jsonb_array_elements(coalesce(e->'idioms', '[]'::jsonb)) AS i
    WHERE lower(i->>'word') LIKE $1
)`

const countIdiomsSQL = idiomHitsCTE + `
SELECT count(*) FROM hits`

const searchIdiomsSQL = idiomHitsCTE + `
SELECT document_key, word, part_of_speech
FROM hits
ORDER BY document_key COLLATE "C", part_of_speech COLLATE "C", word COLLATE "C"
LIMIT $2 OFFSET $3`

// SearchIdioms matches idiom words against a sanitized query (see
// domain.SanitizeIdiomQuery) and returns one page of hits plus the full count.
func (r *Repo) SearchIdioms(ctx context.Context, query string, page domain.Page) ([]domain.IdiomHit, int, error) {
	pattern := IdiomPattern(query)
	if pattern == "" {
		return []domain.IdiomHit{}, 0, nil
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	var total int
	if err := q.QueryRow(ctx, countIdiomsSQL, pattern).Scan(&total); err != nil {
		return nil, 0, postgres.MapError(err, "idiom", pattern)
	}
	if total == 0 {
		return []domain.IdiomHit{}, 0, nil
	}

	rows, err := q.Query(ctx, searchIdiomsSQL, pattern, page.PerPage, page.Offset())
	if err != nil {
		return nil, 0, postgres.MapError(err, "idiom", pattern)
	}
	defer rows.Close()

	hits := make([]domain.IdiomHit, 0, page.PerPage)
	for rows.Next() {
		var h domain.IdiomHit
		if err := rows.Scan(&h.DocumentKey, &h.Word, &h.PartOfSpeech); err != nil {
			return nil, 0, postgres.MapError(err, "idiom", pattern)
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, postgres.MapError(err, "idiom", pattern)
	}

	return hits, total, nil
}

// IdiomPattern turns a sanitized idiom query into a left-anchored LIKE pattern
// where every token boundary may span any text: "take by" -> "take%by%".
func IdiomPattern(sanitized string) string {
	tokens := strings.Fields(sanitized)
	if len(tokens) == 0 {
		return ""
	}
	return strings.Join(tokens, "%") + "%"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePrefix escapes LIKE metacharacters and appends the trailing wildcard.
func likePrefix(prefix string) string {
	return likeEscaper.Replace(prefix) + "%"
}
