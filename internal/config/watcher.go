// Package config loads runtime configuration from a YAML file and
// environment overrides.
package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the config file when it changes on disk and hands the
// result to a callback. Editors that replace the file via rename are
// handled by watching the parent directory.
type Watcher struct {
	path     string
	logger   *slog.Logger
	onReload func(Config)
	// settle absorbs editor write bursts before reloading.
	settle time.Duration
}

// NewWatcher returns a watcher for the given config path.
func NewWatcher(path string, onReload func(Config), logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		path:     path,
		logger:   logger,
		onReload: onReload,
		settle:   100 * time.Millisecond,
	}
}

// Run watches until ctx is cancelled. A reload that fails to parse keeps
// the previous configuration and logs the error.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	var timer *time.Timer
	reload := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.settle, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("config watch error", "error", err)
		case <-reload:
			cfg, err := Load(w.path)
			if err != nil {
				w.logger.Error("config reload failed, keeping previous", "path", w.path, "error", err)
				continue
			}
			w.logger.Info("config reloaded", "path", w.path)
			if w.onReload != nil {
				w.onReload(cfg)
			}
		}
	}
}
