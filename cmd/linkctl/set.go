package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"linkcfg/internal/boot"
	"linkcfg/pkg/settings"
)

func init() {
	rootCmd.AddCommand(newSetCmd(), newStepCmd("inc", "Step a numeric setting up", (*settings.Registry).Increment),
		newStepCmd("dec", "Step a numeric setting down", (*settings.Registry).Decrement))
}

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change the value of a setting",
		Long: `The set command writes a value through the settings pipeline. Numeric
settings accept a number or one of their value names.

Example:
  linkctl set tx.rf_power 25mw
  linkctl set screen.brightness 2
  linkctl set tx.pilot_name "Ground"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], args[1])
		},
	}
}

func runSet(ctx context.Context, out, stderr io.Writer, key, value string) error {
	return withRegistry(ctx, stderr, func(_ *boot.Env, reg *settings.Registry) error {
		if err := reg.Apply(key, value); err != nil {
			return err
		}
		fmt.Fprintln(out, settings.Format(reg.Must(key)))
		return nil
	})
}

func newStepCmd(use, short string, move func(*settings.Registry, *settings.Setting)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <key>",
		Short: short,
		Long: short + `. Stepping past either bound wraps around.

Example:
  linkctl ` + use + ` screen.brightness`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStep(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], move)
		},
	}
}

func runStep(ctx context.Context, out, stderr io.Writer, key string, move func(*settings.Registry, *settings.Setting)) error {
	return withRegistry(ctx, stderr, func(_ *boot.Env, reg *settings.Registry) error {
		s, ok := reg.GetByKey(key)
		if !ok {
			return fmt.Errorf("%w: %q", settings.ErrNotFound, key)
		}
		if s.Type() != settings.TypeU8 || s.IsCommand() {
			return fmt.Errorf("%w: %q is not numeric", settings.ErrTypeMismatch, key)
		}
		if s.Flags.Has(settings.FlagReadOnly) {
			return fmt.Errorf("%w: %q", settings.ErrReadOnly, key)
		}
		move(reg, s)
		fmt.Fprintln(out, settings.Format(s))
		return nil
	})
}
