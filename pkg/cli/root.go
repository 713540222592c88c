// Package cli implements the localmock command line on top of cobra.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/localmock/localmock/pkg/logging"
)

var (
	// Persistent flags available to all subcommands
	logLevel  string
	logFormat string
	logFile   string

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "localmock",
	Short: "localmock is a local HTTP mock server",
	Long: `localmock serves declaratively configured HTTP endpoints for front-end and
integration work against APIs that are unavailable or not built yet.

Each endpoint returns a templated JSON body, optionally after a delay and with a
simulated failure rate. A small record database, a wishlist and a games store
provide server-side state. Traffic can be recorded from a real API and replayed.`,
	SilenceUsage:  true,
	SilenceErrors: true, // We handle errors in Execute()
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write JSON logs to this file")
}

// newLogger builds the operational logger from the persistent flags. The
// returned close function releases the log file, if any.
func newLogger(cmd *cobra.Command) (*slog.Logger, func(), error) {
	cfg := logging.Config{
		Level:  logging.ParseLevel(logLevel),
		Format: logging.ParseFormat(logFormat),
		Output: cmd.ErrOrStderr(),
	}

	closeFn := func() {}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		cfg.Mirror = f
		closeFn = func() { _ = f.Close() }
	}
	return logging.New(cfg), closeFn, nil
}

func stdout(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
