package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"linkcfg/internal/boot"
	"linkcfg/pkg/config"
	"linkcfg/pkg/settings"
	"linkcfg/pkg/version"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "linkctl",
	Short: "Inspect and edit linkcfg device settings",
	Long: `linkctl works directly on the linkcfg database. It builds the same
settings registry the daemon does, so changes go through the same clamping,
persistence and command handling.

Stop linkcfgd before editing pairings; the daemon reads them at startup.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/linkcfg.yaml", "Path to the config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// openEnv loads the config and opens the device. The caller must Close it.
func openEnv(ctx context.Context, stderr io.Writer) (*boot.Env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	return boot.Open(ctx, cfg, nil, logger)
}

// withRegistry runs fn against a freshly opened registry and flushes pending
// saves afterwards.
func withRegistry(ctx context.Context, stderr io.Writer, fn func(env *boot.Env, reg *settings.Registry) error) error {
	env, err := openEnv(ctx, stderr)
	if err != nil {
		return err
	}
	fnErr := fn(env, env.Device.Registry)
	if err := env.Close(); err != nil && fnErr == nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return fnErr
}
