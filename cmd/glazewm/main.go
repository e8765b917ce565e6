// Package main provides the glazewm CLI entrypoint.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/stianeklund/glazewm/internal/config"
)

// Build-time variables (set via ldflags)
var (
	version = "dev"
	commit  = "unknown"
)

var (
	cfg        config.Config
	logger     *slog.Logger
	globalOpts struct {
		verbose    bool
		configPath string
	}
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:     "glazewm",
	Short:   "Tiling window manager for Windows",
	Version: fmt.Sprintf("%s (commit: %s)", version, commit),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := globalOpts.configPath
		if path == "" {
			path = config.DefaultPath()
		}
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger = setupLogger(cfg.LogLevel, globalOpts.verbose)
		slog.SetDefault(logger)
		return nil
	},
}

// startCmd runs the window manager service.
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the window manager",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

// monitorsCmd prints the current monitor topology.
var monitorsCmd = &cobra.Command{
	Use:   "monitors",
	Short: "List connected monitors",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printMonitors(cmd.OutOrStdout())
	},
}

// queryCmd asks a running instance over IPC.
var queryCmd = &cobra.Command{
	Use:       "query [monitors|placements]",
	Short:     "Query a running instance",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"monitors", "placements"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd.OutOrStdout(), cfg.IPC.ListenAddr, args[0])
	},
}

// setupLogger builds the process logger from the configured level.
func setupLogger(level string, verbose bool) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&globalOpts.configPath, "config", "c", "", "path to config file")
	rootCmd.AddCommand(startCmd, monitorsCmd, queryCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
