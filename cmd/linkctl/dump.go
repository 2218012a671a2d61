package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"linkcfg/internal/boot"
	"linkcfg/pkg/settings"
)

var dumpRaw bool

func init() {
	cmd := newDumpCmd()
	cmd.Flags().BoolVar(&dumpRaw, "raw", false, "Dump stored values instead of display forms")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Dump every value setting as YAML",
		Long: `The dump command writes all non-folder, non-command settings as a YAML
mapping of key to value, in declaration order.

Example:
  linkctl dump > settings.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

func runDump(ctx context.Context, out, stderr io.Writer) error {
	return withRegistry(ctx, stderr, func(_ *boot.Env, reg *settings.Registry) error {
		doc := &yaml.Node{Kind: yaml.MappingNode}
		reg.Settings(func(s *settings.Setting) bool {
			if s.IsFolder() || s.IsCommand() {
				return true
			}
			doc.Content = append(doc.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: s.Key},
				&yaml.Node{Kind: yaml.ScalarNode, Value: render(s, dumpRaw), Style: yaml.DoubleQuotedStyle},
			)
			return true
		})
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	})
}
