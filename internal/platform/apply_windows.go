//go:build windows

// Package platform issues window placement calls and surfaces display
// configuration events from the host windowing system.
package platform

import (
	"fmt"
	"syscall"

	"github.com/lxn/win"

	"github.com/stianeklund/glazewm/internal/dpi"
	"github.com/stianeklund/glazewm/internal/geometry"
	"github.com/stianeklund/glazewm/internal/placement"
)

var procIsWindow = syscall.NewLazyDLL("user32.dll").NewProc("IsWindow")

func isWindow(hwnd win.HWND) bool {
	ret, _, _ := procIsWindow.Call(uintptr(hwnd))
	return ret != 0
}

// WinApplier positions windows through SetWindowPos. Z-order is left
// untouched; the visual reflow step owns it.
type WinApplier struct{}

// NewApplier returns the Windows placement applier.
func NewApplier() placement.Applier {
	return &WinApplier{}
}

// Apply moves and sizes the window, then reads the window DPI back to
// detect a pending renegotiation caused by crossing monitors with
// different scale factors.
func (*WinApplier) Apply(handle uintptr, rect geometry.Rect) (placement.Outcome, error) {
	hwnd := win.HWND(handle)
	if !isWindow(hwnd) {
		return placement.Outcome{}, fmt.Errorf("hwnd %#x: %w", handle, placement.ErrWindowGone)
	}

	before := dpi.WindowDPI(handle)

	flags := uint32(win.SWP_NOACTIVATE | win.SWP_NOZORDER | win.SWP_NOOWNERZORDER | win.SWP_NOCOPYBITS)
	if !win.SetWindowPos(hwnd, 0, rect.X, rect.Y, rect.Width, rect.Height, flags) {
		if !isWindow(hwnd) {
			return placement.Outcome{}, fmt.Errorf("hwnd %#x: %w", handle, placement.ErrWindowGone)
		}
		return placement.Outcome{}, fmt.Errorf("SetWindowPos failed for hwnd %#x", handle)
	}

	after := dpi.WindowDPI(handle)
	if before != 0 && after != 0 && before != after {
		return placement.Outcome{PendingDPIChange: true, NewDPI: after}, nil
	}
	return placement.Outcome{}, nil
}
