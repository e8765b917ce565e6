package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestWatcher_ReloadOnWrite verifies a config rewrite triggers the reload
// callback with the new values.
func TestWatcher_ReloadOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("log_level: info\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	reloaded := make(chan Config, 1)
	w := NewWatcher(path, func(cfg Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	}, nil)
	w.settle = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		if err := w.Run(ctx); err != nil {
			t.Errorf("watcher failed: %v", err)
		}
		close(done)
	}()

	// Give the watcher time to install before writing.
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte("log_level: debug\n"), 0o600); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.LogLevel != "debug" {
			t.Fatalf("expected reloaded level debug, got %q", cfg.LogLevel)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("reload callback never fired")
	}

	cancel()
	<-done
}

// TestWatcher_BadReloadKeepsRunning verifies a malformed rewrite is logged
// and skipped without stopping the watcher.
func TestWatcher_BadReloadKeepsRunning(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("log_level: info\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	reloaded := make(chan Config, 2)
	w := NewWatcher(path, func(cfg Config) { reloaded <- cfg }, nil)
	w.settle = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte(":\n  - ["), 0o600); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	time.Sleep(100 * time.Millisecond)
	select {
	case <-reloaded:
		t.Fatalf("malformed config must not reach the callback")
	default:
	}

	if err := os.WriteFile(path, []byte("log_level: warn\n"), 0o600); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	select {
	case cfg := <-reloaded:
		if cfg.LogLevel != "warn" {
			t.Fatalf("expected warn, got %q", cfg.LogLevel)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("watcher stopped after malformed reload")
	}
}
