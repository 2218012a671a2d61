package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// setupConfig points the global --config flag at a fresh config with its
// database and board profile in a temp dir.
func setupConfig(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "linkcfg.yaml")
	cfg := `
db:
    path: "` + filepath.Join(dir, "linkcfg.db") + `"
device:
    board_file: "` + filepath.Join(dir, "board.toml") + `"
`
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))

	prevPath, prevVerbose := configPath, verbose
	configPath, verbose = path, false
	t.Cleanup(func() { configPath, verbose = prevPath, prevVerbose })
}

// capture runs fn with fresh output buffers.
func capture(t *testing.T, fn func(ctx context.Context, out, stderr *bytes.Buffer) error) (string, error) {
	t.Helper()
	var out, stderr bytes.Buffer
	err := fn(context.Background(), &out, &stderr)
	return out.String(), err
}
