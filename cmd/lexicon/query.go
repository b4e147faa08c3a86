package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/lexicon-backend/internal/app"
	"github.com/heartmarshall/lexicon-backend/internal/domain"
)

type pageFlags struct {
	page    int
	perPage int
}

func (p *pageFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.page, "page", 1, "1-based page number")
	cmd.Flags().IntVar(&p.perPage, "per-page", 0, "results per page (default search.default_per_page)")
}

func (c *cli) newSearchCommand() *cobra.Command {
	var (
		p      pageFlags
		idioms bool
	)

	cmd := &cobra.Command{
		Use:   "search <prefix>",
		Short: "Prefix search over surface words, or token search over idioms with --idioms",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if idioms {
					res, err := a.Catalog.SearchIdiomsOnly(ctx, args[0], p.page, p.perPage)
					if err != nil {
						return err
					}
					return writeJSON(c.out, res)
				}
				res, err := a.Catalog.SearchByPrefix(ctx, args[0], p.page, p.perPage)
				if err != nil {
					return err
				}
				return writeJSON(c.out, res)
			})
		},
	}
	p.register(cmd)
	cmd.Flags().BoolVar(&idioms, "idioms", false, "search idioms instead of words")
	return cmd
}

func (c *cli) newListCommand() *cobra.Command {
	var (
		p      pageFlags
		filter domain.ListFilter
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List top-level documents with their children",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				res, err := a.Catalog.ListAll(ctx, filter, p.page, p.perPage)
				if err != nil {
					return err
				}
				return writeJSON(c.out, res)
			})
		},
	}
	p.register(cmd)
	cmd.Flags().StringVar(&filter.Prefix, "prefix", "", "key prefix")
	cmd.Flags().StringSliceVar(&filter.PartsOfSpeech, "pos", nil, "exact set of parts of speech, comma separated")
	cmd.Flags().StringVar(&filter.Symbol, "symbol", "", `proficiency symbol (a1..c2) or "other"`)
	return cmd
}

func (c *cli) newKeysCommand() *cobra.Command {
	var p pageFlags

	cmd := &cobra.Command{
		Use:   "keys [prefix]",
		Short: "List canonical keys, optionally by prefix",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				res, err := a.Catalog.ListKeysOnly(ctx, prefix, p.page, p.perPage)
				if err != nil {
					return err
				}
				return writeJSON(c.out, res)
			})
		},
	}
	p.register(cmd)
	return cmd
}
