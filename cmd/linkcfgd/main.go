package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"linkcfg/internal/api"
	"linkcfg/internal/boot"
	"linkcfg/pkg/config"
	"linkcfg/pkg/logging"
	"linkcfg/pkg/metrics"
	"linkcfg/pkg/output"
	"linkcfg/pkg/pairing"
	"linkcfg/pkg/probe"
	"linkcfg/pkg/settings"
	"linkcfg/pkg/version"
)

var (
	configPath = flag.String("config", "configs/linkcfg.yaml", "Path to the config file")
	initConfig = flag.Bool("init-config", false, "Generate default config file and exit")
)

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %v\n", err)
	}

	if *initConfig {
		if err := config.GenerateDefault(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Config file generated:", *configPath)
		return
	}

	if err := run(context.Background(), *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: Application failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	appCfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogs, err := logging.Init(&appCfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	slog.Info("linkcfgd started", "version", version.Version, "build_date", version.BuildDate)

	m := metrics.New()
	env, err := boot.Open(ctx, appCfg, m, slog.Default())
	if err != nil {
		return err
	}
	defer env.Close()

	if err := probe.AnalyzeResults(slog.Default(), probe.Run(ctx, env.Probes(appCfg))); err != nil {
		return fmt.Errorf("startup checks failed: %w", err)
	}

	guard := api.NewGuard(env.Device.Registry)
	ctl := &controller{Directory: env.Directory, powerOff: cancel}

	var detach []func()
	guard.Do(func(r *settings.Registry) {
		detach = append(detach,
			m.Attach(r),
			env.Device.HandleCommands(ctx, ctl, slog.Default()),
		)
	})
	defer func() {
		guard.Do(func(*settings.Registry) {
			for _, fn := range detach {
				fn()
			}
		})
	}()

	var craftH *api.CraftNameHandler
	if env.Profile.RX {
		craft := output.NewCraftNameSync(env.Device.Registry, slog.Default(), appCfg.Device.CraftNamePoll.Std())
		guard.Do(func(*settings.Registry) { craft.Open() })
		defer guard.Do(func(*settings.Registry) { craft.Close() })
		craftH = api.NewCraftNameHandler(guard, craft)
	}

	hub := api.NewStreamHub(m)
	defer hub.Attach(guard)()

	srv := api.NewServer(appCfg.Server.Address, api.NewSettingsHandler(guard), hub, craftH, m, cancel)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	return runServerLifecycle(ctx, srv, hub, quit, appCfg.Server.ShutdownTimeout.Std())
}

func runServerLifecycle(ctx context.Context, srv *http.Server, hub *api.StreamHub, quit chan os.Signal, timeout time.Duration) error {
	slog.Info("Starting server", "addr", srv.Addr)
	serverErrors := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()
	select {
	case <-quit:
		slog.Info("Shutting down server...")
	case <-ctx.Done():
		slog.Info("Context cancelled, shutting down...")
	case err := <-serverErrors:
		return fmt.Errorf("server failed: %w", err)
	}
	hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// controller carries out device commands against the pairing directory.
type controller struct {
	*pairing.Directory
	powerOff func()
}

func (c *controller) PowerOff(context.Context) error {
	slog.Info("Power off requested, stopping")
	c.powerOff()
	return nil
}
