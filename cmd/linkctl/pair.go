package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"linkcfg/internal/boot"
	"linkcfg/pkg/pairing"
	"linkcfg/pkg/settings"
)

var pairName string

func init() {
	cmd := newPairCmd()
	cmd.Flags().StringVar(&pairName, "name", "", "Name to record for the receiver")
	rootCmd.AddCommand(cmd, newUnpairCmd(), newPairingsCmd())
}

func newPairCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pair <slot> <addr> <key>",
		Short: "Store a receiver pairing in a slot",
		Long: `The pair command binds a receiver address and key to a pairing slot.

Example:
  linkctl pair 0 0A:0B:0C:0D:0E:0F 1234 --name Quad`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPair(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args)
		},
	}
}

func runPair(ctx context.Context, out, stderr io.Writer, args []string) error {
	slot, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid slot %q", args[0])
	}
	addr, err := pairing.ParseAddr(args[1])
	if err != nil {
		return err
	}
	key, err := strconv.ParseUint(args[2], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid key %q", args[2])
	}
	return withRegistry(ctx, stderr, func(env *boot.Env, _ *settings.Registry) error {
		if err := env.Directory.Pair(ctx, slot, pairing.Pairing{Addr: addr, Key: uint32(key)}); err != nil {
			return err
		}
		if pairName != "" {
			if err := env.Directory.SetName(ctx, addr, pairName); err != nil {
				return err
			}
		}
		fmt.Fprintf(out, "Paired %s in slot %d\n", addr, slot)
		return nil
	})
}

func newUnpairCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unpair <slot>",
		Short: "Clear a pairing slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid slot %q", args[0])
			}
			return withRegistry(cmd.Context(), cmd.ErrOrStderr(), func(env *boot.Env, _ *settings.Registry) error {
				if err := env.Directory.Unpair(cmd.Context(), slot); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared slot %d\n", slot)
				return nil
			})
		},
	}
}

func newPairingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pairings",
		Short: "List the pairing slots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPairings(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

func runPairings(ctx context.Context, out, stderr io.Writer) error {
	return withRegistry(ctx, stderr, func(env *boot.Env, _ *settings.Registry) error {
		selected, hasSelected := env.Directory.Selected()
		for slot := 0; slot < env.Directory.Len(); slot++ {
			p, ok := env.Directory.PairedAt(slot)
			if !ok {
				fmt.Fprintf(out, "%d  -\n", slot)
				continue
			}
			mark := ""
			if hasSelected && slot == selected {
				mark = " *"
			}
			name, _ := env.Directory.Name(p.Addr)
			fmt.Fprintf(out, "%d  %s  %q%s\n", slot, p.Addr, name, mark)
		}
		return nil
	})
}
