//go:build windows

// Package monitor describes display geometry and maintains the monitor
// topology registry.
package monitor

import (
	"fmt"
	"syscall"
	"unsafe"

	"github.com/lxn/win"

	"github.com/stianeklund/glazewm/internal/geometry"
)

var (
	modShcore               = syscall.NewLazyDLL("shcore.dll")
	procGetDpiForMon        = modShcore.NewProc("GetDpiForMonitor")
	modUser32               = syscall.NewLazyDLL("user32.dll")
	procGetMonitorInfo      = modUser32.NewProc("GetMonitorInfoW")
	procEnumDisplayMonitors = modUser32.NewProc("EnumDisplayMonitors")
)

// mdtEffectiveDPI selects the DPI that accounts for the user scale setting.
const mdtEffectiveDPI = 0

// monitorInfoEx mirrors MONITORINFOEXW, extending win.MONITORINFO with the
// display device name.
type monitorInfoEx struct {
	info   win.MONITORINFO
	device [32]uint16
}

// WinEnumerator reads the monitor topology through the WinAPI.
type WinEnumerator struct{}

// NewEnumerator returns the Windows monitor enumerator.
func NewEnumerator() Enumerator {
	return &WinEnumerator{}
}

// Enumerate returns all connected displays with physical bounds, working
// bounds, and effective DPI.
func (*WinEnumerator) Enumerate() ([]Descriptor, error) {
	state := &enumState{}
	callback := syscall.NewCallback(state.enumProc)

	if ret, _, _ := procEnumDisplayMonitors.Call(0, 0, callback, 0); ret == 0 {
		return nil, fmt.Errorf("EnumDisplayMonitors failed")
	}
	if len(state.list) == 0 {
		return nil, fmt.Errorf("no monitors detected")
	}
	return state.list, nil
}

type enumState struct {
	list []Descriptor
}

func (s *enumState) enumProc(hMonitor win.HMONITOR, hdc win.HDC, rect *win.RECT, lparam uintptr) uintptr {
	var info monitorInfoEx
	info.info.CbSize = uint32(unsafe.Sizeof(info))
	ret, _, _ := procGetMonitorInfo.Call(uintptr(hMonitor), uintptr(unsafe.Pointer(&info)))
	if ret == 0 {
		return 1
	}

	dpi := monitorDPI(hMonitor)
	d := Descriptor{
		Device:   syscall.UTF16ToString(info.device[:]),
		Handle:   uintptr(hMonitor),
		Rect:     rectFromWin(info.info.RcMonitor),
		WorkRect: rectFromWin(info.info.RcWork),
		DPI:      dpi,
		Scale:    ScaleFactor(dpi),
		Primary:  info.info.DwFlags&win.MONITORINFOF_PRIMARY != 0,
	}
	s.list = append(s.list, d)
	return 1
}

// monitorDPI reads the effective DPI for a monitor, falling back to the
// baseline when the shcore API is unavailable (pre-8.1 systems).
func monitorDPI(hMonitor win.HMONITOR) uint32 {
	if err := procGetDpiForMon.Find(); err != nil {
		return BaselineDPI
	}
	var dpiX, dpiY uint32
	hr, _, _ := procGetDpiForMon.Call(
		uintptr(hMonitor),
		uintptr(mdtEffectiveDPI),
		uintptr(unsafe.Pointer(&dpiX)),
		uintptr(unsafe.Pointer(&dpiY)),
	)
	if hr != 0 || dpiX == 0 {
		return BaselineDPI
	}
	// X and Y are always identical for effective DPI.
	return dpiX
}

func rectFromWin(r win.RECT) geometry.Rect {
	return geometry.FromLTRB(r.Left, r.Top, r.Right, r.Bottom)
}
