package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// options are the flags shared by every subcommand.
type options struct {
	configPath string
	dataset    string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "plasticlens",
		Short: "Query plastic chemical test results for food products",
		Long: `plasticlens loads a table of laboratory measurements of plastic-associated
chemicals in food products and answers questions about it.

Without a subcommand it serves the query tools over MCP on stdin/stdout.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCP(cmd.Context(), opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (default: search ./config.yaml, ./config, /etc/plasticlens)")
	flags.StringVar(&opts.dataset, "dataset", "", "dataset file path or http(s) URL, overrides dataset.source")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level, overrides log.level")

	root.AddCommand(
		&cobra.Command{
			Use:   "mcp",
			Short: "Serve the query tools over MCP on stdin/stdout",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runMCP(cmd.Context(), opts)
			},
		},
		&cobra.Command{
			Use:   "http",
			Short: "Serve the queries as a JSON HTTP API",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runHTTP(cmd.Context(), opts)
			},
		},
	)

	return root
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
