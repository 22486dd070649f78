// ABOUTME: Entry point for the campus-api server and its admin commands
// ABOUTME: serve, bootstrap, principal, token, health, and version subcommands

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cs156/campus-api/internal/config"
	"github.com/cs156/campus-api/internal/server"
)

const banner = `
                                                      _
  ___ __ _ _ __ ___  _ __  _   _ ___        __ _ _ __ (_)
 / __/ _' | '_ ' _ \| '_ \| | | / __|_____ / _' | '_ \| |
| (_| (_| | | | | | | |_) | |_| \__ \_____| (_| | |_) | |
 \___\__,_|_| |_| |_| .__/ \__,_|___/      \__,_| .__/|_|
                    |_|                         |_|
`

// rootOptions holds global flags for all commands.
type rootOptions struct {
	ConfigPath string
}

// configPath returns --config, or the default location when the flag is unset.
func (o *rootOptions) configPath() string {
	if o.ConfigPath != "" {
		return o.ConfigPath
	}
	return config.DefaultPath()
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	path := o.configPath()
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	return cfg, nil
}

// newRootCommand creates the campus-api command tree.
func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "campus-api",
		Short:         "campus-api - CRUD service for campus records",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (default $CAMPUS_CONFIG or ~/.config/campus/api.yaml)")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newBootstrapCommand(opts))
	cmd.AddCommand(newPrincipalCommand(opts))
	cmd.AddCommand(newTokenCommand(opts))
	cmd.AddCommand(newHealthCommand(opts))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *rootOptions) error {
	out := cmd.OutOrStdout()

	cyan := color.New(color.FgCyan)
	gray := color.New(color.FgHiBlack)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	cyan.Fprint(out, banner)
	gray.Fprintf(out, "    version: %s\n\n", server.Version())

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Logging)

	green.Fprint(out, "    ▶ ")
	fmt.Fprintf(out, "Config:    %s\n", opts.configPath())
	green.Fprint(out, "    ▶ ")
	fmt.Fprintf(out, "Database:  %s\n", databaseLabel(cfg.Database))
	if cfg.Tailscale.Enabled {
		green.Fprint(out, "    ▶ ")
		fmt.Fprint(out, "Tailscale: ")
		cyan.Fprint(out, cfg.Tailscale.Hostname)
		if cfg.Tailscale.Funnel {
			yellow.Fprint(out, " [funnel]")
		}
		if cfg.Tailscale.Ephemeral {
			gray.Fprint(out, " (ephemeral)")
		}
		fmt.Fprintln(out)
	} else {
		green.Fprint(out, "    ▶ ")
		fmt.Fprintf(out, "HTTP:      %s\n", cfg.Server.HTTPAddr)
	}
	if cfg.Metrics.Enabled {
		green.Fprint(out, "    ▶ ")
		fmt.Fprintf(out, "Metrics:   %s\n", cfg.Metrics.Path)
	}
	fmt.Fprintln(out)

	logger.Info("starting campus-api",
		"config", opts.configPath(),
		"http_addr", cfg.Server.HTTPAddr,
		"driver", cfg.Database.Driver,
	)

	srv, err := server.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	return srv.Run(cmd.Context())
}

// databaseLabel describes the configured database without exposing a DSN's
// credentials.
func databaseLabel(cfg config.DatabaseConfig) string {
	if cfg.Driver == "postgres" {
		return "postgres"
	}
	return "sqlite " + cfg.Path
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), server.Version())
		},
	}
}
