package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/shopassist/backend/config"
	"github.com/shopassist/backend/internal/app"
	"github.com/shopassist/backend/pkg/logger"
)

// cli carries state shared by every subcommand
type cli struct {
	logLevel string
	pretty   bool
	asJSON   bool

	app *app.Application
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "shopassist",
		Short: "Shopping assistant backend",
		Long: `shopassist serves a product catalog with filtering, a cart and compare
list, and a rule-based assistant that turns free text into a shortlist.

Configuration comes from config.yaml (., ./config, /etc/shopassist/) and
SHOPASSIST_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd.Context(), cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.app == nil {
				return nil
			}
			return c.app.Close()
		},
	}

	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&c.pretty, "pretty", false, "human-readable console logs")
	root.PersistentFlags().BoolVar(&c.asJSON, "json", false, "print results as JSON")

	root.AddCommand(
		newServeCmd(c),
		newProductsCmd(c),
		newAskCmd(c),
		newToolCmd(c),
		newCartCmd(c),
		newExportCmd(c),
	)
	return root
}

func (c *cli) setup(ctx context.Context, logOut io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logCfg := logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty || c.pretty}
	if c.logLevel != "" {
		logCfg.Level = c.logLevel
	}
	logger.InitWriter(logCfg, logOut)

	log.Info().
		Str("environment", cfg.Server.Environment).
		Str("catalog_source", cfg.Catalog.Source).
		Str("persistence", cfg.Persistence.Type).
		Msg("starting shopassist")

	if ctx == nil {
		ctx = context.Background()
	}
	c.app, err = app.New(ctx, cfg, app.Options{})
	return err
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
