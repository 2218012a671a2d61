package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkcfg/pkg/settings"
)

func TestGetSet(t *testing.T) {
	setupConfig(t)

	tests := []struct {
		name    string
		key     string
		value   string
		want    string
		wantErr error
	}{
		{name: "by name", key: "tx.rf_power", value: "25mw", want: "Power: 25mw"},
		{name: "by number", key: "screen.brightness", value: "2", want: "Brightness: High"},
		{name: "string", key: "tx.pilot_name", value: "Ground", want: "Pilot Name: Ground"},
		{name: "unknown key", key: "tx.nope", value: "1", wantErr: settings.ErrNotFound},
		{name: "read only", key: "about.version", value: "x", wantErr: settings.ErrReadOnly},
		{name: "bad value", key: "tx.rf_power", value: "lots", wantErr: settings.ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := capture(t, func(ctx context.Context, out, stderr *bytes.Buffer) error {
				return runSet(ctx, out, stderr, tt.key, tt.value)
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want+"\n", out)
		})
	}

	// Values survive reopening the database.
	out, err := capture(t, func(ctx context.Context, out, stderr *bytes.Buffer) error {
		return runGet(ctx, out, stderr, "tx.rf_power")
	})
	require.NoError(t, err)
	assert.Equal(t, "25mw\n", out)

	getRaw = true
	defer func() { getRaw = false }()
	out, err = capture(t, func(ctx context.Context, out, stderr *bytes.Buffer) error {
		return runGet(ctx, out, stderr, "tx.rf_power")
	})
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)
}

func TestStep(t *testing.T) {
	setupConfig(t)

	step := func(move func(*settings.Registry, *settings.Setting)) string {
		out, err := capture(t, func(ctx context.Context, out, stderr *bytes.Buffer) error {
			return runStep(ctx, out, stderr, "screen.brightness", move)
		})
		require.NoError(t, err)
		return out
	}

	assert.Equal(t, "Brightness: High\n", step((*settings.Registry).Increment))
	assert.Equal(t, "Brightness: Low\n", step((*settings.Registry).Increment))
	assert.Equal(t, "Brightness: High\n", step((*settings.Registry).Decrement))

	_, err := capture(t, func(ctx context.Context, out, stderr *bytes.Buffer) error {
		return runStep(ctx, out, stderr, "tx.pilot_name", (*settings.Registry).Increment)
	})
	assert.ErrorIs(t, err, settings.ErrTypeMismatch)
}

func TestView(t *testing.T) {
	setupConfig(t)

	viewFolder = "tx"
	defer func() { viewFolder = "" }()
	out, err := capture(t, func(ctx context.Context, out, stderr *bytes.Buffer) error {
		return runView(ctx, out, stderr)
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Power: Auto\n")
	assert.Contains(t, out, "Pilot Name: \n")

	viewFolder = "tx.rf_power"
	_, err = capture(t, func(ctx context.Context, out, stderr *bytes.Buffer) error {
		return runView(ctx, out, stderr)
	})
	assert.Error(t, err)

	viewFolder, viewKind = "", "sideways"
	defer func() { viewKind = "menu" }()
	_, err = capture(t, func(ctx context.Context, out, stderr *bytes.Buffer) error {
		return runView(ctx, out, stderr)
	})
	assert.Error(t, err)
}

func TestDump(t *testing.T) {
	setupConfig(t)

	_, err := capture(t, func(ctx context.Context, out, stderr *bytes.Buffer) error {
		return runSet(ctx, out, stderr, "tx.pilot_name", "Ground")
	})
	require.NoError(t, err)

	out, err := capture(t, func(ctx context.Context, out, stderr *bytes.Buffer) error {
		return runDump(ctx, out, stderr)
	})
	require.NoError(t, err)
	assert.Contains(t, out, `tx.rf_power: "Auto"`)
	assert.Contains(t, out, `tx.pilot_name: "Ground"`)
	assert.NotContains(t, out, "power_off")
	assert.NotContains(t, out, "tx:")
}

func TestPair(t *testing.T) {
	setupConfig(t)

	pairName = "Quad"
	defer func() { pairName = "" }()
	out, err := capture(t, func(ctx context.Context, out, stderr *bytes.Buffer) error {
		return runPair(ctx, out, stderr, []string{"1", "0A:0B:0C:0D:0E:0F", "1234"})
	})
	require.NoError(t, err)
	assert.Equal(t, "Paired 0A:0B:0C:0D:0E:0F in slot 1\n", out)

	out, err = capture(t, func(ctx context.Context, out, stderr *bytes.Buffer) error {
		return runPairings(ctx, out, stderr)
	})
	require.NoError(t, err)
	assert.Contains(t, out, "0  -\n")
	assert.Contains(t, out, "1  0A:0B:0C:0D:0E:0F  \"Quad\"\n")

	for _, args := range [][]string{
		{"x", "0A:0B:0C:0D:0E:0F", "1"},
		{"0", "not-an-addr", "1"},
		{"0", "0A:0B:0C:0D:0E:0F", "-1"},
		{"99", "0A:0B:0C:0D:0E:0F", "1"},
	} {
		_, err := capture(t, func(ctx context.Context, out, stderr *bytes.Buffer) error {
			return runPair(ctx, out, stderr, args)
		})
		assert.Error(t, err, "args %v", args)
	}
}

func TestRootCommand(t *testing.T) {
	setupConfig(t)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"--config", configPath, "get", "screen.brightness"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "Medium\n", out.String())
}
