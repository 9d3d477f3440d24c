package command

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/urfave/cli/v2"

	"github.com/xuleilx/tscontainer/internal/config"
	"github.com/xuleilx/tscontainer/internal/infra/confloader"
	"github.com/xuleilx/tscontainer/internal/infra/shutdown"
	"github.com/xuleilx/tscontainer/internal/server/httpserver"
	"github.com/xuleilx/tscontainer/internal/stress"
	"github.com/xuleilx/tscontainer/internal/telemetry/logger"
	"github.com/xuleilx/tscontainer/internal/telemetry/metric"
)

// SoakCommand returns the soak command.
func SoakCommand() *cli.Command {
	return &cli.Command{
		Name:  "soak",
		Usage: "Run a rate-limited mixed workload and expose lock metrics",
		Description: `Runs concurrent readers and writers against one Map until the duration
elapses or the process receives SIGINT or SIGTERM. Lock wait times and
operation counts are served in Prometheus format while the soak runs.
Changes to the log level in the configuration file apply immediately.`,
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:    "duration",
				Aliases: []string{"d"},
				Usage:   "How long to run",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Number of concurrent workers",
			},
			&cli.Float64Flag{
				Name:  "rate",
				Usage: "Total operations per second across workers",
			},
			&cli.Float64Flag{
				Name:  "write-ratio",
				Usage: "Fraction of operations that mutate",
			},
			&cli.IntFlag{
				Name:  "key-space",
				Usage: "Number of distinct keys touched",
			},
			&cli.BoolFlag{
				Name:  "metrics",
				Usage: "Serve Prometheus metrics while running",
				Value: true,
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "Listen address of the metrics endpoint",
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "Seed for keys and operation mix (default: current time)",
			},
		},
		Action: runSoak,
	}
}

func runSoak(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	cfg := rt.cfg

	if c.IsSet("duration") {
		cfg.Soak.Duration = c.Duration("duration")
	}
	if c.IsSet("workers") {
		cfg.Soak.Workers = c.Int("workers")
	}
	if c.IsSet("rate") {
		cfg.Soak.Rate = c.Float64("rate")
	}
	if c.IsSet("write-ratio") {
		cfg.Soak.WriteRatio = c.Float64("write-ratio")
	}
	if c.IsSet("key-space") {
		cfg.Soak.KeySpace = c.Int("key-space")
	}
	if c.IsSet("metrics") {
		cfg.Metrics.Enabled = c.Bool("metrics")
	}
	if c.IsSet("metrics-addr") {
		cfg.Metrics.Addr = c.String("metrics-addr")
	}
	if err := rt.verify(c); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(rt.context(c))
	defer cancel()

	h := shutdown.NewHandler(cfg.Shutdown.Timeout)

	var running atomic.Bool
	if cfg.Metrics.Enabled {
		srv := httpserver.New(cfg.Metrics.Addr, httpserver.NewRouter(&httpserver.RouterConfig{
			MetricsPath: cfg.Metrics.Path,
			Metrics:     metric.Handler(),
			Ready:       running.Load,
			Logger:      logger.Slog(rt.log),
		}))
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				rt.log.Error("metrics server failed", "addr", srv.Addr(), "error", err)
			}
		}()
		rt.log.Info("serving metrics", "addr", srv.Addr(), "path", cfg.Metrics.Path)
		h.OnShutdown(srv.Shutdown)
	}

	if path := rt.loader.FilePath(); path != "" {
		w, err := watchLogLevel(rt, path)
		if err != nil {
			return err
		}
		h.OnShutdown(func(context.Context) error { return w.Stop() })
	}

	var (
		report *stress.SoakReport
		runErr error
	)
	finished := make(chan struct{})
	running.Store(true)
	go func() {
		defer close(finished)
		defer running.Store(false)
		report, runErr = stress.Soak(ctx, stress.SoakParams{
			Duration:       cfg.Soak.Duration,
			Workers:        cfg.Soak.Workers,
			Rate:           cfg.Soak.Rate,
			Burst:          cfg.Soak.Burst,
			KeySpace:       cfg.Soak.KeySpace,
			WriteRatio:     cfg.Soak.WriteRatio,
			ReportInterval: cfg.Soak.ReportInterval,
			Seed:           seed(c),
			Options:        cfg.Container.Options(nil),
			FreeListSize:   cfg.Container.FreeListSize,
			Metrics:        metric.Global(),
		})
		h.Trigger()
	}()

	// Hooks run in reverse, so the workload stops before the servers.
	h.OnShutdown(func(sctx context.Context) error {
		cancel()
		select {
		case <-finished:
			return nil
		case <-sctx.Done():
			return fmt.Errorf("soak did not stop: %w", sctx.Err())
		}
	})

	if err := h.Wait(ctx); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}
	return rt.print(c, report)
}

// watchLogLevel reloads the configuration file on change and applies its
// log level.
func watchLogLevel(rt *runtime, path string) (*confloader.Watcher, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(logger.Slog(rt.log)))
	if err != nil {
		return nil, fmt.Errorf("create config watcher: %w", err)
	}
	if err := w.Watch(path); err != nil {
		_ = w.Stop()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	w.OnChange(func(string) {
		fresh := config.Default()
		if err := rt.loader.Reload(fresh); err != nil {
			rt.log.Warn("config reload failed", "error", err)
			return
		}
		if err := config.Verify(fresh); err != nil {
			rt.log.Warn("reloaded config rejected", "error", err)
			return
		}
		logger.SetLevel(fresh.Log.Level)
		rt.log.Info("log level applied", "level", fresh.Log.Level)
	})
	w.StartAsync()
	return w, nil
}
