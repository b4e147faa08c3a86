package catalog

import (
	"fmt"

	"github.com/heartmarshall/lexicon-backend/internal/domain"
)

// ErrWordNotFound indicates the external source has no data for the word.
var ErrWordNotFound = fmt.Errorf("word not found in external source: %w", domain.ErrNotFound)
