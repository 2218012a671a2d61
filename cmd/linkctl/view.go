package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"linkcfg/internal/boot"
	"linkcfg/pkg/settings"
)

var (
	viewKind   string
	viewFolder string
	viewKeys   bool
)

func init() {
	cmd := newViewCmd()
	cmd.Flags().StringVar(&viewKind, "kind", "menu", "View to list: menu, remote or input")
	cmd.Flags().StringVar(&viewFolder, "folder", "", "Key of the folder to list (root when empty)")
	cmd.Flags().BoolVar(&viewKeys, "keys", false, "Prefix every line with the setting key")
	rootCmd.AddCommand(cmd)
}

func newViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "List the settings of a folder as a menu would",
		Long: `The view command prints the settings a consumer sees in a folder.

Example:
  linkctl view
  linkctl view --folder tx
  linkctl view --kind remote --keys`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

func runView(ctx context.Context, out, stderr io.Writer) error {
	kind, ok := settings.ParseViewKind(viewKind)
	if !ok {
		return fmt.Errorf("unknown view %q", viewKind)
	}
	return withRegistry(ctx, stderr, func(_ *boot.Env, reg *settings.Registry) error {
		folder, err := resolveFolder(reg, viewFolder)
		if err != nil {
			return err
		}
		v, _ := reg.GetView(kind, folder)
		for i := 0; i < v.Len(); i++ {
			s, _ := reg.SettingAt(v, i)
			line := settings.Format(s)
			if kind == settings.ViewRemote {
				line = strings.Repeat("  ", depth(reg, s, folder)) + line
			}
			if viewKeys {
				line = fmt.Sprintf("%-28s %s", s.Key, line)
			}
			fmt.Fprintln(out, line)
		}
		return nil
	})
}

func resolveFolder(reg *settings.Registry, key string) (settings.FolderID, error) {
	if key == "" {
		return settings.RootFolder, nil
	}
	s, ok := reg.GetByKey(key)
	if !ok {
		return 0, fmt.Errorf("setting %q not found", key)
	}
	if !s.IsFolder() {
		return 0, fmt.Errorf("setting %q is not a folder", key)
	}
	return s.FolderID(), nil
}

// depth counts the folders between s and top.
func depth(reg *settings.Registry, s *settings.Setting, top settings.FolderID) int {
	d := 0
	for id := s.ParentFolderID(); id != top && id != settings.RootFolder; d++ {
		f, ok := reg.GetFolder(id)
		if !ok {
			break
		}
		id = f.ParentFolderID()
	}
	return d
}
