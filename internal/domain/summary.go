package domain

import (
	"slices"
	"strings"
)

// Summary holds the aggregate fields of a WordDocument derived from its entries.
type Summary struct {
	Variants      []string
	Symbol        string
	PartsOfSpeech []string
}

// Summarize recomputes every derived field over the full entry list.
func Summarize(entries []Entry) Summary {
	return Summary{
		Variants:      BuildVariants(entries),
		Symbol:        BuildTopSymbol(entries),
		PartsOfSpeech: BuildPartsOfSpeech(entries),
	}
}

// BuildVariants returns the canonical forms of the entries' surface words in
// first-seen order, followed by their counterparts not already listed.
func BuildVariants(entries []Entry) []string {
	seen := make(map[string]struct{}, len(entries)*2)
	primary := make([]string, 0, len(entries))
	for _, e := range entries {
		key := Canonicalize(e.Word)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		primary = append(primary, key)
	}

	variants := slices.Clone(primary)
	for _, key := range primary {
		alt, ok := Counterpart(key)
		if !ok {
			continue
		}
		if _, dup := seen[alt]; dup {
			continue
		}
		seen[alt] = struct{}{}
		variants = append(variants, alt)
	}
	return variants
}

// BuildTopSymbol picks the highest-priority symbol present among the entries.
// If none of the collected symbols is a known one, the first collected symbol wins.
func BuildTopSymbol(entries []Entry) string {
	var collected []string
	for _, e := range entries {
		if s := strings.TrimSpace(e.Symbol); s != "" {
			collected = append(collected, s)
		}
	}
	if len(collected) == 0 {
		return ""
	}

	for _, p := range SymbolPriority {
		for _, s := range collected {
			if strings.EqualFold(s, p) {
				return p
			}
		}
	}
	return collected[0]
}

// BuildPartsOfSpeech returns the distinct non-empty parts of speech, sorted.
func BuildPartsOfSpeech(entries []Entry) []string {
	pos := make([]string, 0, len(entries))
	for _, e := range entries {
		if p := strings.TrimSpace(e.PartOfSpeech); p != "" {
			pos = append(pos, p)
		}
	}
	slices.Sort(pos)
	return slices.Compact(pos)
}
