package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/lexicon-backend/internal/app"
	"github.com/heartmarshall/lexicon-backend/internal/service/importer"
	"github.com/heartmarshall/lexicon-backend/pkg/ctxutil"
)

func (c *cli) newImportCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <file|dir|->...",
		Short: "Merge dictionary entries from files, directories, or stdin",
		Long: `Import groups entries by canonical key and merges them into the store.
A directory imports every file matching import.file_patterns, in name order.
"-" reads one batch from stdin in the format given by --format.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var stdinFormat importer.Format
			if format != "" {
				f, err := importer.ParseFormat(format)
				if err != nil {
					return err
				}
				stdinFormat = f
			} else {
				stdinFormat = importer.FormatJSON
			}

			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				ctx, runID := ctxutil.NewRunID(ctx)
				a.Log.InfoContext(ctx, "import started", slog.String("run_id", runID), slog.Int("inputs", len(args)))

				failed := &partialError{}
				for _, path := range args {
					if err := c.importPath(ctx, a, path, stdinFormat, failed); err != nil {
						return err
					}
				}
				if failed.keys > 0 || failed.files > 0 {
					return failed
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "stdin format: json, jsonl or yaml (default json)")
	return cmd
}

func (c *cli) importPath(ctx context.Context, a *app.App, path string, stdinFormat importer.Format, failed *partialError) error {
	if path == "-" {
		res, err := a.Importer.ImportReader(ctxutil.WithSource(ctx, "stdin"), os.Stdin, stdinFormat)
		failed.keys += len(res.Errors)
		if outErr := c.reportBatch("stdin", res); outErr != nil {
			return outErr
		}
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}

	if info.IsDir() {
		res, err := a.Importer.ImportMultiple(ctx, path)
		failed.keys += len(res.Errors)
		failed.files += len(res.FileErrors)
		if outErr := c.reportMulti(path, res); outErr != nil {
			return outErr
		}
		return err
	}

	res, err := a.Importer.ImportFile(ctx, path)
	if err != nil && ctx.Err() == nil {
		failed.files++
		errColor.Fprintf(c.out, "%s: %v\n", path, err)
		return nil
	}
	failed.keys += len(res.Errors)
	if outErr := c.reportBatch(path, res); outErr != nil {
		return outErr
	}
	return err
}

func (c *cli) reportBatch(name string, r importer.BatchResult) error {
	if c.jsonOutput {
		return writeJSON(c.out, struct {
			Input string `json:"input"`
			importer.BatchResult
		}{name, r})
	}
	printBatchSummary(c.out, name, r)
	return nil
}

func (c *cli) reportMulti(name string, r importer.MultiResult) error {
	if c.jsonOutput {
		return writeJSON(c.out, struct {
			Input string `json:"input"`
			importer.MultiResult
		}{name, r})
	}
	printMultiSummary(c.out, name, r)
	return nil
}
