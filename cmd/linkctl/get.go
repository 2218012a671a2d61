package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"linkcfg/internal/boot"
	"linkcfg/pkg/settings"
)

var getRaw bool

func init() {
	cmd := newGetCmd()
	cmd.Flags().BoolVar(&getRaw, "raw", false, "Print the stored value instead of its display form")
	rootCmd.AddCommand(cmd)
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print the value of a setting",
		Long: `The get command prints the display value of a single setting.

Example:
  linkctl get tx.rf_power
  linkctl get screen.brightness --raw`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0])
		},
	}
}

func runGet(ctx context.Context, out, stderr io.Writer, key string) error {
	return withRegistry(ctx, stderr, func(_ *boot.Env, reg *settings.Registry) error {
		s, ok := reg.GetByKey(key)
		if !ok {
			return fmt.Errorf("%w: %q", settings.ErrNotFound, key)
		}
		fmt.Fprintln(out, render(s, getRaw))
		return nil
	})
}

func render(s *settings.Setting, raw bool) string {
	if !raw {
		return settings.FormatValue(s)
	}
	switch {
	case s.IsFolder():
		return fmt.Sprint(uint8(s.FolderID()))
	case s.Type() == settings.TypeU8:
		return fmt.Sprint(s.U8())
	}
	return settings.FormatValue(s)
}
