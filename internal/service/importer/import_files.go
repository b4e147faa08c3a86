package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/heartmarshall/lexicon-backend/pkg/ctxutil"
)

// ImportReader decodes one batch from r and imports it. Items that failed to
// decode appear in the result's Errors next to per-key failures.
func (s *Service) ImportReader(ctx context.Context, r io.Reader, format Format) (BatchResult, error) {
	decoded, err := DecodeBatch(r, format)
	if err != nil {
		return BatchResult{}, err
	}

	result, err := s.ImportBatch(ctx, decoded.Entries)
	result.TotalWords += len(decoded.Errors)
	result.Errors = append(append([]KeyError{}, decoded.Errors...), result.Errors...)
	return result, err
}

// ImportFile imports a single file, picking the format by extension.
func (s *Service) ImportFile(ctx context.Context, path string) (BatchResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return BatchResult{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	ctx = ctxutil.WithSource(ctx, path)
	s.log.InfoContext(ctx, "importing file", slog.String("path", path))

	return s.ImportReader(ctx, f, FormatFromPath(path))
}

// ImportMultiple imports every file in dir matching the configured patterns,
// in file-name order, one batch per file. A file that cannot be read or decoded
// is recorded in FileErrors and the rest still run. Cancellation stops before
// the next file and returns the aggregate so far with ctx.Err().
func (s *Service) ImportMultiple(ctx context.Context, dir string) (MultiResult, error) {
	files, err := s.matchFiles(dir)
	if err != nil {
		return MultiResult{}, err
	}

	agg := newMultiResult()
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return agg, err
		}

		res, err := s.ImportFile(ctx, path)
		if err != nil && ctx.Err() == nil {
			s.log.WarnContext(ctx, "file import failed",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
			agg.FileErrors = append(agg.FileErrors, FileError{File: filepath.Base(path), Message: err.Error()})
			continue
		}
		agg.add(res)
	}

	s.log.InfoContext(ctx, "directory imported",
		slog.String("dir", dir),
		slog.Int("files", agg.Files),
		slog.Int("imported", agg.Imported),
		slog.Int("errors", len(agg.Errors)),
		slog.Int("file_errors", len(agg.FileErrors)),
	)

	return agg, ctx.Err()
}

// matchFiles lists regular files in dir matching any pattern, sorted by name.
func (s *Service) matchFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		for _, p := range s.patterns {
			if ok, _ := filepath.Match(p, e.Name()); ok {
				files = append(files, filepath.Join(dir, e.Name()))
				break
			}
		}
	}
	if len(files) == 0 && len(entries) > 0 {
		s.log.Warn("no files matched", slog.String("dir", dir), slog.Any("patterns", s.patterns))
	}

	slices.Sort(files)
	return files, nil
}
