//go:build !windows

// Package dpi scopes per-monitor DPI awareness around geometry calls.
package dpi

// WithPerMonitorContext runs fn directly; DPI awareness contexts exist only
// on Windows.
func WithPerMonitorContext(fn func()) {
	fn()
}

// WindowDPI returns 0 on non-Windows platforms.
func WindowDPI(hwnd uintptr) uint32 {
	return 0
}
