// Package filecache keeps fetched dictionary pages on disk so repeated
// lookups of the same word skip the network.
package filecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/heartmarshall/lexicon-backend/internal/domain"
)

// Fetcher is the source being cached.
type Fetcher interface {
	FetchPages(ctx context.Context, word string) ([]domain.Entry, error)
}

// Source serves pages from rootDir, falling back to the wrapped Fetcher.
// Empty results are never written, so an unknown word is asked again next time.
type Source struct {
	next    Fetcher
	rootDir string
	log     *slog.Logger
}

// New creates the cache directory if needed and returns a Source.
func New(next Fetcher, rootDir string, logger *slog.Logger) (*Source, error) {
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, fmt.Errorf("filecache: create dir %s: %w", rootDir, err)
	}
	return &Source{
		next:    next,
		rootDir: rootDir,
		log:     logger.With("adapter", "filecache"),
	}, nil
}

func (s *Source) filePath(key string) string {
	return filepath.Join(s.rootDir, key+".json")
}

// FetchPages implements the source contract on top of the wrapped Fetcher.
func (s *Source) FetchPages(ctx context.Context, word string) ([]domain.Entry, error) {
	key := domain.Canonicalize(word)
	if key == "" {
		return s.next.FetchPages(ctx, word)
	}

	entries, err := s.read(key)
	switch {
	case err == nil:
		s.log.DebugContext(ctx, "cache hit", slog.String("key", key))
		return entries, nil
	case !errors.Is(err, fs.ErrNotExist):
		s.log.WarnContext(ctx, "cache read failed, refetching", slog.String("key", key), slog.String("error", err.Error()))
	}

	entries, err = s.next.FetchPages(ctx, word)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return entries, nil
	}

	if err := s.write(key, entries); err != nil {
		s.log.WarnContext(ctx, "cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return entries, nil
}

func (s *Source) read(key string) ([]domain.Entry, error) {
	contents, err := os.ReadFile(s.filePath(key))
	if err != nil {
		return nil, err
	}
	var entries []domain.Entry
	if err := json.Unmarshal(contents, &entries); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.filePath(key), err)
	}
	return entries, nil
}

// write stores entries via a temp file and rename so readers never see a partial file.
func (s *Source) write(key string, entries []domain.Entry) error {
	contents, err := json.Marshal(entries)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.rootDir, key+".*.tmp")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(contents); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.filePath(key))
}
