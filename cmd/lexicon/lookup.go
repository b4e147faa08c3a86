package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/avast/retry-go"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/lexicon-backend/internal/app"
	"github.com/heartmarshall/lexicon-backend/internal/domain"
)

func (c *cli) newLookupCommand() *cobra.Command {
	var (
		retries uint
		delay   time.Duration
		offline bool
	)

	cmd := &cobra.Command{
		Use:   "lookup <word>",
		Short: "Show the stored document for a word, fetching it from the external source on a miss",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if offline {
					doc, err := a.Catalog.FindByKey(ctx, args[0])
					if err != nil {
						return err
					}
					return writeJSON(c.out, doc)
				}

				var doc *domain.WordDocument
				err := withSourceRetry(ctx, a.Log, retries, delay, func() error {
					var err error
					doc, err = a.Catalog.GetOrFetch(ctx, args[0])
					return err
				})
				if err != nil {
					return err
				}
				return writeJSON(c.out, doc)
			})
		},
	}
	cmd.Flags().UintVar(&retries, "retries", 2, "retries when the external source is unavailable")
	cmd.Flags().DurationVar(&delay, "retry-delay", 500*time.Millisecond, "initial delay between retries, doubled each time")
	cmd.Flags().BoolVar(&offline, "offline", false, "only read the store, never call the external source")
	return cmd
}

// withSourceRetry runs fn, retrying with exponential backoff only while it
// fails with domain.ErrSourceUnavailable. The last error is returned as is.
func withSourceRetry(ctx context.Context, log *slog.Logger, retries uint, delay time.Duration, fn func() error) error {
	return retry.Do(
		fn,
		retry.Context(ctx),
		retry.Attempts(retries+1),
		retry.Delay(delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, domain.ErrSourceUnavailable)
		}),
		retry.OnRetry(func(n uint, err error) {
			log.WarnContext(ctx, "external source unavailable, retrying",
				slog.Uint64("attempt", uint64(n+1)),
				slog.String("error", err.Error()),
			)
		}),
	)
}
