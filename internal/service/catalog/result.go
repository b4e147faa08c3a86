package catalog

import "github.com/heartmarshall/lexicon-backend/internal/domain"

// WordPage is one page of prefix search results.
type WordPage struct {
	Total int      `json:"total"`
	Words []string `json:"words"`
}

// IdiomPage is one page of idiom search results.
type IdiomPage struct {
	Total  int               `json:"total"`
	Idioms []domain.IdiomHit `json:"idioms"`
}

// ListPage is one page of top-level documents with their children attached.
type ListPage struct {
	Total   int                   `json:"total"`
	Page    int                   `json:"page"`
	PerPage int                   `json:"per_page"`
	Data    []domain.WordDocument `json:"data"`
}

// KeyPage is one page of canonical keys.
type KeyPage struct {
	Total int      `json:"total"`
	Keys  []string `json:"keys"`
}
