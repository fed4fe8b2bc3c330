// Command burrow resolves short typed commands into URLs.
//
// With no subcommand it resolves its arguments and prints the URL:
//
//	burrow gh facebook/react
//
// "burrow serve" runs the HTTP front end for browser keyword setups,
// and "burrow list" prints every loaded command.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/burrowsh/burrow/internal/config"
	"github.com/burrowsh/burrow/internal/dispatch"
	"github.com/burrowsh/burrow/internal/history"
	"github.com/burrowsh/burrow/internal/observability"
	"github.com/burrowsh/burrow/internal/plugin"
	"github.com/burrowsh/burrow/internal/server"
)

// Overridden by ldflags at release build time.
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v, continuing with defaults\n", err)
		cfg = config.Default()
	}

	logger := observability.InitLogger("burrow", cfg.Server.LogLevel)

	root := newRootCommand(cfg, logger)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(cfg config.Config, logger zerolog.Logger) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "burrow [binding] [args...]",
		Short:   "Smart bookmarks: resolve short commands into URLs",
		Version: version,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			app, err := newApp(cfg, logger)
			if err != nil {
				return err
			}
			defer app.Close()

			url := app.resolver.Resolve(cmd.Context(), strings.Join(args, " "))
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}

	rootCmd.AddCommand(newListCommand(cfg, logger))
	rootCmd.AddCommand(newServeCommand(cfg, logger))
	return rootCmd
}

func newListCommand(cfg config.Config, logger zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all available command bindings",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cfg, logger)
			if err != nil {
				return err
			}
			defer app.Close()

			fmt.Fprint(cmd.OutOrStdout(), renderCommandTable(app.resolver.ListCommands()))
			return nil
		},
	}
}

func newServeCommand(cfg config.Config, logger zerolog.Logger) *cobra.Command {
	var port int
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the burrow web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port > 0 {
				cfg.Server.Port = port
			}
			if address != "" {
				cfg.Server.Address = address
			}

			app, err := newApp(cfg, logger)
			if err != nil {
				return err
			}
			defer app.Close()

			// Live reload only matters for a long-running server.
			watcher, err := plugin.NewWatcher(app.registry, logger)
			if err != nil {
				logger.Warn().Err(err).Msg("filesystem watch unavailable, live reload disabled")
			} else {
				defer watcher.Close()
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return server.New(cfg.Server, app.resolver, logger).Run(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to bind (overrides config)")
	cmd.Flags().StringVarP(&address, "address", "a", "", "address to bind (overrides config)")
	return cmd
}

// app bundles the wired core held by every subcommand.
type app struct {
	registry *plugin.Registry
	resolver *dispatch.Resolver
	store    *history.Store
}

// newApp builds the registry, performs the startup scan, and wires the
// resolver. A failed scan is not fatal: resolution degrades to the
// fallback provider.
func newApp(cfg config.Config, logger zerolog.Logger) (*app, error) {
	paths := plugin.NewPaths(cfg.Plugins.ExtraDirs)
	registry := plugin.NewRegistry(paths, plugin.NewLoader(logger), logger)
	if err := registry.Rebuild(); err != nil {
		logger.Warn().Err(err).Msg("startup scan failed, continuing with empty registry")
	}

	var store *history.Store
	var notify dispatch.NotifyFunc
	if cfg.History.Enabled {
		var err error
		store, err = history.Open(history.DefaultPath(), cfg.History.MaxEntries)
		if err != nil {
			logger.Warn().Err(err).Msg("history disabled")
		} else {
			notify = store.Hook()
		}
	}

	resolver := dispatch.NewResolver(registry,
		dispatch.WithAliases(cfg.Aliases),
		dispatch.WithProvider(dispatch.NormalizeProvider(cfg.DefaultSearch)),
		dispatch.WithExecTimeout(cfg.ExecTimeout()),
		dispatch.WithNotify(notify),
		dispatch.WithLogger(logger),
	)

	return &app{registry: registry, resolver: resolver, store: store}, nil
}

func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
}
