package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"

	"github.com/Versifine/locomote/internal/config"
	"github.com/Versifine/locomote/internal/debug"
	"github.com/Versifine/locomote/internal/hud"
	"github.com/Versifine/locomote/internal/logger"
	"github.com/Versifine/locomote/internal/physics"
	"github.com/Versifine/locomote/internal/sandbox"
	"github.com/Versifine/locomote/internal/world"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "config file")
	driver := flag.String("driver", "", "override sandbox.driver (console, tui, headless)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if *driver != "" {
		cfg.Sandbox.Driver = *driver
		if err := cfg.Validate(); err != nil {
			slog.Error("Invalid driver", "error", err)
			os.Exit(1)
		}
	}

	var output io.Writer = os.Stdout
	if cfg.Sandbox.Driver == config.DriverTUI {
		// The HUD owns the screen; logs go to the file only.
		output = io.Discard
	}
	logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: output,
		File:   cfg.Logging.File,
	})
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Sandbox stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	if cfg.Telemetry.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Telemetry.SentryDSN,
			Environment: cfg.Telemetry.Environment,
		}); err != nil {
			slog.Warn("Sentry disabled", "error", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	if cfg.Telemetry.StatsviewAddr != "" {
		// set configurations before calling `statsview.New()` method
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr(cfg.Telemetry.StatsviewAddr))
		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
		slog.Info("Statsview listening", "addr", cfg.Telemetry.StatsviewAddr)
	}

	level := world.DefaultLevel()
	if cfg.Sandbox.Level != "" {
		loaded, err := world.LoadLevel(cfg.Sandbox.Level)
		if err != nil {
			return err
		}
		level = loaded
	}

	host, err := sandbox.New(sandbox.Options{
		Level:  level,
		Params: cfg.Player,
		Body: physics.Parameters{
			Radius:    cfg.Sandbox.BodyRadius,
			Height:    cfg.Sandbox.BodyHeight,
			IsCapsule: true,
		},
		Journal: cfg.Sandbox.EventJournal,
	})
	if err != nil {
		return err
	}
	host.Activate()
	slog.Info("Sandbox ready", "level", level.Name, "boxes", len(level.Boxes), "driver", cfg.Sandbox.Driver)

	if cfg.Sandbox.Level != "" && cfg.Sandbox.WatchLevel {
		w, err := config.WatchFile(cfg.Sandbox.Level, level.Hash)
		if err != nil {
			slog.Warn("Level hot reload disabled", "error", err)
		} else {
			defer w.Close()
			go reloadLevels(w, host)
		}
	}

	rate := cfg.Sandbox.TickRate
	if cfg.Sandbox.Driver == config.DriverHeadless {
		host.RunTicks(cfg.Sandbox.HeadlessTicks, 1/float32(rate))
		s := host.Snapshot()
		slog.Info("Headless run finished",
			"ticks", s.Tick,
			"position", s.Body.Position,
			"on_ground", s.Body.OnGround,
			"stance", s.Player.Stance,
		)
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- host.Run(ctx, rate, nil) }()

	switch cfg.Sandbox.Driver {
	case config.DriverTUI:
		err = hud.Run(ctx, host)
	default:
		err = debug.NewConsole(host).Start(ctx)
	}
	cancel()
	if runErr := <-done; err == nil {
		err = runErr
	}
	return err
}

func reloadLevels(w *config.Watcher, host *sandbox.Host) {
	log := logger.L().With("component", "level-watch")
	for {
		select {
		case change, ok := <-w.Changes:
			if !ok {
				return
			}
			level, err := world.ParseLevel(change.Data)
			if err != nil {
				log.Warn("Ignoring invalid level", "path", change.Path, "error", err)
				continue
			}
			log.Debug("Level changed", "path", change.Path, "hash", change.Hash)
			host.Do(func() { host.ReloadLevel(level) })
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Warn("Level watcher error", "error", err)
		}
	}
}
