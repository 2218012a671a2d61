package boot

import (
	"context"
	"fmt"
	"os"

	"linkcfg/pkg/config"
	"linkcfg/pkg/deviceconf"
	"linkcfg/pkg/probe"
)

const probeKey = "probe.startup"

// Probes returns the startup checks for an opened environment.
func (e *Env) Probes(cfg *config.Config) []probe.Probe {
	return []probe.Probe{
		{
			Name:     "Database",
			Check:    e.checkDatabase,
			Critical: true,
		},
		{
			Name:     "Settings Registry",
			Check:    e.checkRegistry,
			Critical: true,
		},
		{
			Name: "Board Profile",
			Check: func(context.Context) error {
				if _, err := os.Stat(cfg.Device.BoardFile); err != nil {
					return fmt.Errorf("using built-in reference board: %w", err)
				}
				return nil
			},
		},
	}
}

// checkDatabase writes, reads back and removes a state row.
func (e *Env) checkDatabase(ctx context.Context) error {
	if err := e.Store.SetState(ctx, probeKey, "ok"); err != nil {
		return err
	}
	v, ok := e.Store.GetState(ctx, probeKey)
	if !ok || v != "ok" {
		return fmt.Errorf("state row did not read back")
	}
	return e.Store.DeleteState(ctx, probeKey)
}

func (e *Env) checkRegistry(context.Context) error {
	want := deviceconf.ExpectedCount(e.Profile.MaxPairedRX)
	if got := e.Device.Count(); got != want {
		return fmt.Errorf("registry has %d settings, want %d", got, want)
	}
	return nil
}
