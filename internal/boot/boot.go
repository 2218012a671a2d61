// Package boot opens the persistent state shared by linkcfgd and linkctl and
// builds the device registry on top of it.
package boot

import (
	"context"
	"fmt"
	"log/slog"

	"linkcfg/pkg/board"
	"linkcfg/pkg/config"
	"linkcfg/pkg/db"
	"linkcfg/pkg/deviceconf"
	"linkcfg/pkg/metrics"
	"linkcfg/pkg/pairing"
	"linkcfg/pkg/settings"
	"linkcfg/pkg/store"
)

// Env is everything a binary needs to work on the device settings.
type Env struct {
	DB        *db.DB
	Store     *store.SQLiteStore
	Adapter   *store.SettingsAdapter
	Profile   *board.Profile
	Directory *pairing.Directory
	Device    *deviceconf.Device
}

// Open initialises the database, loads the board profile and the pairing
// directory, then builds the registry. m is optional; when set, persistence
// is instrumented.
func Open(ctx context.Context, cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) (*Env, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dbConn, err := db.Init(cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	env := &Env{DB: dbConn, Store: store.NewSQLiteStore(dbConn)}

	env.Profile, err = board.Load(cfg.Device.BoardFile)
	if err != nil {
		dbConn.Close()
		return nil, fmt.Errorf("failed to load board profile: %w", err)
	}

	env.Directory = pairing.NewDirectory(env.Profile.MaxPairedRX, env.Store)
	if err := env.Directory.Load(ctx); err != nil {
		// A corrupt directory must not keep the device from starting.
		logger.Warn("Failed to load pairing directory, starting empty", "error", err)
		env.Directory = pairing.NewDirectory(env.Profile.MaxPairedRX, env.Store)
	}

	env.Adapter = store.NewSettingsAdapter(env.Store)
	var backend settings.Store = env.Adapter
	if m != nil {
		backend = m.InstrumentStore(backend)
	}

	env.Device, err = deviceconf.Build(env.Profile, env.Directory, backend,
		settings.WithLogger(logger),
		settings.WithListenerCapacity(cfg.Registry.ListenerCapacity),
		settings.WithCommandTimeout(cfg.Registry.CommandTimeout.Std()),
	)
	if err != nil {
		dbConn.Close()
		return nil, err
	}

	logger.Info("Device registry ready",
		"board", env.Profile.Name,
		"settings", env.Device.Count(),
		"max_paired_rx", env.Profile.MaxPairedRX)
	return env, nil
}

// Close flushes pending saves and closes the database.
func (e *Env) Close() error {
	if err := e.Adapter.Commit(); err != nil {
		slog.Warn("Failed to flush settings on close", "error", err)
	}
	return e.Store.Close()
}
