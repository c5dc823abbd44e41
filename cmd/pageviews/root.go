package main

import (
	"fmt"
	"log/slog"
	"os"

	corecfg "github.com/aevon-lab/pageviews/internal/core/config"
	"github.com/spf13/cobra"
)

var configPath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pageviews",
	Short: "Per-tenant page view counters over HTTP.",
	Long: `Per-tenant page view counters over HTTP.
Every (Host, path) pair owns one durable counter. For example:
  pageviews serve --config pageviews.yaml
  pageviews migrate --config pageviews.yaml`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to configuration file (env vars with prefix "+corecfg.EnvPrefix+" override it)")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

// loadConfig loads the configuration and installs the default logger it describes.
func loadConfig() (*corecfg.Config, error) {
	cfg, err := corecfg.Load(configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		return nil, err
	}

	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(newLogHandler(cfg.Log.Format, level)))

	slog.Info("Loaded config",
		"storage", cfg.Storage.Type,
		"addr", cfg.Server.Addr(),
		"mode", cfg.Server.Mode,
	)
	return cfg, nil
}

func newLogHandler(format string, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.NewTextHandler(os.Stdout, opts)
}

func wrapErr(step string, err error) error {
	return fmt.Errorf("failed to %s: %w", step, err)
}
