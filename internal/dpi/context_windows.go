//go:build windows

// Package dpi scopes per-monitor DPI awareness around geometry calls.
package dpi

import (
	"runtime"
	"syscall"
)

var (
	modUser32                 = syscall.NewLazyDLL("user32.dll")
	procSetThreadDpiAwareness = modUser32.NewProc("SetThreadDpiAwarenessContext")
	procGetDpiForWindow       = modUser32.NewProc("GetDpiForWindow")
)

// DPI_AWARENESS_CONTEXT_PER_MONITOR_AWARE_V2, a pseudo handle.
const perMonitorAwareV2 = ^uintptr(3) // (DPI_AWARENESS_CONTEXT)-4

// WithPerMonitorContext runs fn with the calling goroutine pinned to an OS
// thread whose DPI awareness is per-monitor-aware v2, restoring the prior
// context on all exit paths. Every geometry read or placement call that
// must observe physical pixels runs inside this scope; reading under the
// wrong context silently mixes unit systems.
func WithPerMonitorContext(fn func()) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := procSetThreadDpiAwareness.Find(); err != nil {
		// Pre-1703 systems have no thread DPI context; process-wide
		// awareness from the manifest applies.
		fn()
		return
	}

	prev, _, _ := procSetThreadDpiAwareness.Call(perMonitorAwareV2)
	defer func() {
		if prev != 0 {
			procSetThreadDpiAwareness.Call(prev)
		}
	}()

	fn()
}

// WindowDPI reads the effective DPI for a window. Returns 0 when the
// handle is invalid or the API is unavailable.
func WindowDPI(hwnd uintptr) uint32 {
	if err := procGetDpiForWindow.Find(); err != nil {
		return 0
	}
	dpi, _, _ := procGetDpiForWindow.Call(hwnd)
	return uint32(dpi)
}
