// Package main provides the glazewm CLI entrypoint.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/stianeklund/glazewm/internal/config"
	"github.com/stianeklund/glazewm/internal/diag"
	"github.com/stianeklund/glazewm/internal/dpi"
	"github.com/stianeklund/glazewm/internal/ipc"
	"github.com/stianeklund/glazewm/internal/monitor"
	"github.com/stianeklund/glazewm/internal/placement"
	"github.com/stianeklund/glazewm/internal/platform"
)

// deferredTick is the cadence at which second-phase DPI placements drain.
const deferredTick = 50 * time.Millisecond

// run wires the service and blocks until shutdown.
func run(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()

	registry := monitor.NewRegistry(monitor.NewEnumerator(), logger)
	registry.SetDebounce(time.Duration(cfg.Monitors.RefreshDebounceMs) * time.Millisecond)

	var refreshErr error
	dpi.WithPerMonitorContext(func() {
		refreshErr = registry.Refresh()
	})
	if refreshErr != nil {
		return refreshErr
	}

	recorder := diag.NewRecorder(logger)
	pipeline := placement.NewPipeline(registry, platform.NewApplier(), recorder, logger)

	var server *ipc.Server
	var httpServer *http.Server
	errCh := make(chan error, 1)
	if cfg.IPC.Enabled {
		server = ipc.NewServer(registry, recorder, logger)
		recorder.SetOnAppend(server.BroadcastPlacement)
		registry.SetOnRefresh(server.BroadcastTopology)

		mux := http.NewServeMux()
		server.RegisterRoutes(mux)
		httpServer = &http.Server{Addr: cfg.IPC.ListenAddr, Handler: mux}
		go func() {
			logger.Info("ipc listening", "addr", cfg.IPC.ListenAddr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
	}

	go registry.Run(ctx)

	listener := platform.NewDisplayChangeListener(registry.NotifyDisplayChange, logger)
	go func() {
		if err := listener.Run(ctx); err != nil {
			logger.Error("display change listener stopped", "error", err)
		}
	}()

	configPath := globalOpts.configPath
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	watcher := config.NewWatcher(configPath, func(next config.Config) {
		registry.SetDebounce(time.Duration(next.Monitors.RefreshDebounceMs) * time.Millisecond)
		logger.Info("runtime config applied",
			"refresh_debounce_ms", next.Monitors.RefreshDebounceMs)
	}, logger)
	go func() {
		if err := watcher.Run(ctx); err != nil {
			logger.Error("config watcher stopped", "error", err)
		}
	}()

	// Drain deferred second-phase placements on a fixed tick.
	go func() {
		ticker := time.NewTicker(deferredTick)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				pipeline.RunDeferred(ctx)
			}
		}
	}()

	logger.Info("glazewm started", "monitors", len(registry.List()))

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	if httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
	return nil
}
