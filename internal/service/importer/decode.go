package importer

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/heartmarshall/lexicon-backend/internal/domain"
)

// Format is the encoding of a bulk import input.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
)

// FormatFromPath picks the format by file extension; unknown extensions are JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return FormatJSONL
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatJSONL, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", domain.NewValidationError("format", fmt.Sprintf("unsupported format %q", s))
}

// Decoded is a decoded batch. Items that could not be decoded are reported in
// Errors by position and left out of Entries.
type Decoded struct {
	Entries []domain.Entry
	Errors  []KeyError
}

// DecodeBatch reads a list of raw entries. A top level that is not a list is a
// domain.ErrValidation failure for the whole batch.
func DecodeBatch(r io.Reader, format Format) (Decoded, error) {
	switch format {
	case FormatJSONL:
		return decodeJSONL(r)
	case FormatYAML:
		return decodeYAML(r)
	default:
		return decodeJSON(r)
	}
}

func decodeJSON(r io.Reader) (Decoded, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Decoded{}, fmt.Errorf("read batch: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return Decoded{}, domain.NewValidationError("batch", "top-level value must be a list")
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return Decoded{}, domain.NewValidationError("batch", err.Error())
	}

	out := Decoded{Entries: make([]domain.Entry, 0, len(items))}
	for i, item := range items {
		var e domain.Entry
		if err := json.Unmarshal(item, &e); err != nil {
			out.Errors = append(out.Errors, itemError(i, err))
			continue
		}
		out.Entries = append(out.Entries, e)
	}
	return out, nil
}

func decodeJSONL(r io.Reader) (Decoded, error) {
	var out Decoded

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line := 0
	for sc.Scan() {
		text := bytes.TrimSpace(sc.Bytes())
		if len(text) == 0 {
			continue
		}
		var e domain.Entry
		if err := json.Unmarshal(text, &e); err != nil {
			out.Errors = append(out.Errors, itemError(line, err))
			line++
			continue
		}
		out.Entries = append(out.Entries, e)
		line++
	}
	if err := sc.Err(); err != nil {
		return Decoded{}, fmt.Errorf("read batch: %w", err)
	}
	return out, nil
}

func decodeYAML(r io.Reader) (Decoded, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return Decoded{}, domain.NewValidationError("batch", "top-level value must be a list")
		}
		return Decoded{}, domain.NewValidationError("batch", err.Error())
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.SequenceNode {
		return Decoded{}, domain.NewValidationError("batch", "top-level value must be a list")
	}

	out := Decoded{Entries: make([]domain.Entry, 0, len(root.Content))}
	for i, item := range root.Content {
		var e domain.Entry
		if err := item.Decode(&e); err != nil {
			out.Errors = append(out.Errors, itemError(i, err))
			continue
		}
		out.Entries = append(out.Entries, e)
	}
	return out, nil
}

func itemError(index int, err error) KeyError {
	return KeyError{Key: fmt.Sprintf("item %d", index+1), Message: err.Error()}
}
