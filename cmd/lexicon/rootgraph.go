package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/lexicon-backend/internal/app"
)

func (c *cli) newRootGraphCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "root",
		Short: "Root/variant graph commands",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "assign <word> [root]",
			Short: "Point a word at a root, or make it standalone when root is omitted",
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				newRoot := ""
				if len(args) == 2 {
					newRoot = args[1]
				}
				return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
					res, err := a.RootGraph.AssignRoot(ctx, args[0], newRoot)
					if err != nil {
						return err
					}
					return writeJSON(c.out, res)
				})
			},
		},
		&cobra.Command{
			Use:   "children <root>",
			Short: "List the documents whose root is the given key",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
					docs, err := a.RootGraph.GetByRoot(ctx, args[0])
					if err != nil {
						return err
					}
					return writeJSON(c.out, docs)
				})
			},
		},
		&cobra.Command{
			Use:   "reconcile <root>",
			Short: "Recompute a document's root state from its children",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
					res, err := a.RootGraph.Reconcile(ctx, args[0])
					if err != nil {
						return err
					}
					return writeJSON(c.out, res)
				})
			},
		},
	)
	return cmd
}
