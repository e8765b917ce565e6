// Package config loads runtime configuration from a YAML file and
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/stianeklund/glazewm/internal/geometry"
)

const (
	defaultLogLevel       = "info"
	defaultIPCEnabled     = true
	defaultIPCListenAddr  = "127.0.0.1:6123"
	defaultDebounceMs     = 200
	defaultBorderLeft     = 7
	defaultBorderTop      = 0
	defaultBorderRight    = 7
	defaultBorderBottom   = 7
	defaultConfigFileName = "config.yaml"
)

// Config holds runtime configuration values.
type Config struct {
	LogLevel string        `yaml:"log_level"`
	IPC      IPCConfig     `yaml:"ipc"`
	Monitors MonitorConfig `yaml:"monitors"`
	Window   WindowConfig  `yaml:"window"`
}

// IPCConfig configures the local introspection server.
type IPCConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ListenAddr string `yaml:"listen_addr"`
}

// MonitorConfig configures topology refresh behavior.
type MonitorConfig struct {
	// RefreshDebounceMs coalesces bursts of display-change notifications
	// into a single rebuild.
	RefreshDebounceMs int `yaml:"refresh_debounce_ms"`
}

// WindowConfig configures per-window placement defaults.
type WindowConfig struct {
	BorderDelta BorderDeltaConfig `yaml:"border_delta"`
}

// BorderDeltaConfig mirrors geometry.BorderDelta for YAML decoding.
type BorderDeltaConfig struct {
	Left   int32 `yaml:"left"`
	Top    int32 `yaml:"top"`
	Right  int32 `yaml:"right"`
	Bottom int32 `yaml:"bottom"`
}

// Delta converts the configured border delta to its geometry type.
func (b BorderDeltaConfig) Delta() geometry.BorderDelta {
	return geometry.BorderDelta{Left: b.Left, Top: b.Top, Right: b.Right, Bottom: b.Bottom}
}

// DefaultPath returns the default config file location under the user's
// home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultConfigFileName
	}
	return filepath.Join(home, ".glazewm", defaultConfigFileName)
}

// Load reads configuration from the given YAML file, then applies
// environment overrides. A missing file yields defaults; a malformed file
// is an error.
func Load(path string) (Config, error) {
	cfg := Config{
		LogLevel: defaultLogLevel,
		IPC: IPCConfig{
			Enabled:    defaultIPCEnabled,
			ListenAddr: defaultIPCListenAddr,
		},
		Monitors: MonitorConfig{RefreshDebounceMs: defaultDebounceMs},
		Window: WindowConfig{BorderDelta: BorderDeltaConfig{
			Left:   defaultBorderLeft,
			Top:    defaultBorderTop,
			Right:  defaultBorderRight,
			Bottom: defaultBorderBottom,
		}},
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// Defaults apply.
	default:
		return Config{}, err
	}

	cfg.LogLevel = envString("GLAZEWM_LOG_LEVEL", cfg.LogLevel)
	cfg.IPC.ListenAddr = envString("GLAZEWM_IPC_ADDR", cfg.IPC.ListenAddr)
	cfg.IPC.Enabled = envBool("GLAZEWM_IPC_ENABLED", cfg.IPC.Enabled)

	debounce, err := envInt("GLAZEWM_REFRESH_DEBOUNCE_MS", cfg.Monitors.RefreshDebounceMs)
	if err != nil {
		return Config{}, err
	}
	cfg.Monitors.RefreshDebounceMs = debounce

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// validate rejects values the rest of the system cannot work with.
func (c Config) validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error")
	}
	if c.Monitors.RefreshDebounceMs <= 0 {
		return fmt.Errorf("monitors.refresh_debounce_ms must be > 0")
	}
	if c.IPC.Enabled && strings.TrimSpace(c.IPC.ListenAddr) == "" {
		return fmt.Errorf("ipc.listen_addr is required when ipc is enabled")
	}
	return nil
}

// envString returns an env override when present, otherwise a default.
func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// envInt returns an int env override when present, otherwise a default.
func envInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return value, nil
}

// envBool returns a bool env override when present, otherwise a default.
func envBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}
