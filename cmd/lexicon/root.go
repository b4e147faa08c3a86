package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/lexicon-backend/internal/app"
	"github.com/heartmarshall/lexicon-backend/internal/config"
)

// cli carries what every subcommand needs. openApp is replaced in tests.
type cli struct {
	out        io.Writer
	configPath string
	debug      bool
	jsonOutput bool

	openApp func(ctx context.Context) (*app.App, error)
}

func newRootCommand(out io.Writer) *cobra.Command {
	c := &cli{out: out}
	c.openApp = c.defaultOpenApp

	rootCommand := &cobra.Command{
		Use:           "lexicon",
		Short:         "Canonical word store: import, root graph, search",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := rootCommand.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file path (default $CONFIG_PATH or ./config.yaml)")
	flags.BoolVar(&c.debug, "debug", false, "log at debug level")
	flags.BoolVar(&c.jsonOutput, "json", false, "print machine-readable JSON instead of a summary")

	rootCommand.AddCommand(
		c.newImportCommand(),
		c.newLookupCommand(),
		c.newRootGraphCommand(),
		c.newSearchCommand(),
		c.newListCommand(),
		c.newKeysCommand(),
		c.newMigrateCommand(),
		newVersionCommand(out),
	)
	return rootCommand
}

func (c *cli) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.LoadFile(c.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if c.debug {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

func (c *cli) logger(cfg *config.Config) *slog.Logger {
	return app.NewLogger(cfg.Log, os.Stderr)
}

func (c *cli) defaultOpenApp(ctx context.Context) (*app.App, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, c.logger(cfg))
}

// withApp opens the application for the duration of fn.
func (c *cli) withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	ctx := cmd.Context()
	a, err := c.openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}
