// Package monitor describes display geometry and maintains the monitor
// topology registry.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrMonitorUnavailable reports a lookup for a monitor no longer present in
// the topology.
var ErrMonitorUnavailable = errors.New("monitor unavailable")

// DefaultDebounce is the interval over which display-change notifications
// are coalesced into a single rebuild.
const DefaultDebounce = 200 * time.Millisecond

// Registry caches the connected monitor set. It is built once at startup
// and rebuilt only by Refresh; between refreshes it is read-only. Rebuilds
// swap the full descriptor slice under the lock, so a placement pass never
// observes a partially-built set.
type Registry struct {
	mu       sync.RWMutex
	enum     Enumerator
	logger   *slog.Logger
	monitors []Descriptor

	debounce  time.Duration
	notifyCh  chan struct{}
	onRefresh func()
}

// NewRegistry creates an empty registry backed by the given enumerator.
// Call Refresh before first use.
func NewRegistry(enum Enumerator, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		enum:     enum,
		logger:   logger,
		debounce: DefaultDebounce,
		notifyCh: make(chan struct{}, 1),
	}
}

// SetDebounce overrides the notification coalescing interval.
func (r *Registry) SetDebounce(d time.Duration) {
	if d > 0 {
		r.debounce = d
	}
}

// SetOnRefresh registers a callback invoked after every successful rebuild,
// used to notify IPC subscribers of topology changes. Set before Run.
func (r *Registry) SetOnRefresh(fn func()) {
	r.mu.Lock()
	r.onRefresh = fn
	r.mu.Unlock()
}

// Refresh rebuilds the monitor set from the platform. Idempotent; safe to
// call concurrently with readers. The previous set stays visible until the
// new one is complete.
func (r *Registry) Refresh() error {
	raw, err := r.enum.Enumerate()
	if err != nil {
		return fmt.Errorf("enumerate monitors: %w", err)
	}
	if len(raw) == 0 {
		return errors.New("no monitors detected")
	}

	monitors := make([]Descriptor, len(raw))
	for i, m := range raw {
		m.ID = uuid.NewString()
		if m.Scale == 0 {
			m.Scale = ScaleFactor(m.DPI)
		}
		monitors[i] = m
	}

	r.mu.Lock()
	r.monitors = monitors
	onRefresh := r.onRefresh
	r.mu.Unlock()

	if onRefresh != nil {
		onRefresh()
	}

	for _, m := range monitors {
		r.logger.Info("monitor topology refreshed",
			"id", m.ID,
			"device", m.Device,
			"rect", m.Rect,
			"work_rect", m.WorkRect,
			"dpi", m.DPI,
			"scale", m.Scale,
			"primary", m.Primary,
		)
	}
	return nil
}

// Get returns the descriptor for the given registry ID.
func (r *Registry) Get(id string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.monitors {
		if m.ID == id {
			return m, true
		}
	}
	return Descriptor{}, false
}

// GetByDevice returns the descriptor matching a platform device name.
func (r *Registry) GetByDevice(device string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.monitors {
		if m.Device == device {
			return m, true
		}
	}
	return Descriptor{}, false
}

// Primary returns the primary monitor, falling back to the first known
// monitor when the platform reports none as primary.
func (r *Registry) Primary() (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.monitors {
		if m.Primary {
			return m, true
		}
	}
	if len(r.monitors) > 0 {
		return r.monitors[0], true
	}
	return Descriptor{}, false
}

// List returns a copy of the current monitor set.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Descriptor, len(r.monitors))
	copy(out, r.monitors)
	return out
}

// NotifyDisplayChange records a display-configuration-changed event. Bursts
// of notifications coalesce into one rebuild once the debounce interval
// passes. Non-blocking; safe from any goroutine, including the platform
// message loop.
func (r *Registry) NotifyDisplayChange() {
	select {
	case r.notifyCh <- struct{}{}:
	default:
	}
}

// Run drains display-change notifications until ctx is cancelled, issuing
// one debounced Refresh per burst. A pass already running keeps its
// resolved snapshot; only subsequent passes observe the new topology.
func (r *Registry) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.notifyCh:
		}

		timer := time.NewTimer(r.debounce)
	drain:
		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-r.notifyCh:
				// Burst continues; restart the quiet period.
				if !timer.Stop() {
					<-timer.C
				}
				timer.Reset(r.debounce)
			case <-timer.C:
				break drain
			}
		}

		if err := r.Refresh(); err != nil {
			r.logger.Error("monitor refresh failed", "error", err)
		}
	}
}
