package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/heartmarshall/lexicon-backend/internal/service/importer"
)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed)
	dimColor  = color.New(color.Faint)
)

// partialError marks an import that finished with per-key or per-file failures.
type partialError struct {
	keys  int
	files int
}

func (e *partialError) Error() string {
	return fmt.Sprintf("import finished with %d key error(s) and %d file error(s)", e.keys, e.files)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// maxListedErrors caps the errors printed in a summary; --json prints all.
const maxListedErrors = 20

func printBatchSummary(w io.Writer, name string, r importer.BatchResult) {
	fmt.Fprintf(w, "%s\n", name)
	printCounts(w, 0, r.TotalWords, r.GroupedWords, r.Imported, r.Unchanged, r.Skipped)
	printKeyErrors(w, r.Errors)
}

func printMultiSummary(w io.Writer, name string, r importer.MultiResult) {
	fmt.Fprintf(w, "%s\n", name)
	printCounts(w, r.Files, r.TotalWords, r.GroupedWords, r.Imported, r.Unchanged, r.Skipped)
	for _, fe := range r.FileErrors {
		errColor.Fprintf(w, "  file %s: %s\n", fe.File, fe.Message)
	}
	printKeyErrors(w, r.Errors)
}

func printCounts(w io.Writer, files, total, grouped, imported, unchanged, skipped int) {
	if files > 0 {
		fmt.Fprintf(w, "  files:     %d\n", files)
	}
	fmt.Fprintf(w, "  words:     %d (%d keys)\n", total, grouped)
	okColor.Fprintf(w, "  imported:  %d\n", imported)
	dimColor.Fprintf(w, "  unchanged: %d\n", unchanged)
	if skipped > 0 {
		warnColor.Fprintf(w, "  skipped:   %d\n", skipped)
	}
}

func printKeyErrors(w io.Writer, errs []importer.KeyError) {
	if len(errs) == 0 {
		return
	}
	errColor.Fprintf(w, "  errors:    %d\n", len(errs))
	for i, e := range errs {
		if i == maxListedErrors {
			dimColor.Fprintf(w, "    ... %d more\n", len(errs)-maxListedErrors)
			break
		}
		fmt.Fprintf(w, "    %s: %s\n", e.Key, e.Message)
	}
}
