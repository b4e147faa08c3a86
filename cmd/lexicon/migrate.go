package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/lexicon-backend/internal/adapter/postgres"
)

func (c *cli) newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			results, err := postgres.Migrate(cmd.Context(), cfg.Database.DSN)
			if err != nil {
				return err
			}
			if c.jsonOutput {
				return writeJSON(c.out, results)
			}
			if len(results) == 0 {
				dimColor.Fprintln(c.out, "no pending migrations")
				return nil
			}
			for _, r := range results {
				okColor.Fprintf(c.out, "applied %d", r.Version)
				fmt.Fprintf(c.out, " %s (%s)\n", r.Source, r.Duration)
			}
			return nil
		},
	}
}
