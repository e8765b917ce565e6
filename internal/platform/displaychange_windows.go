//go:build windows

// Package platform issues window placement calls and surfaces display
// configuration events from the host windowing system.
package platform

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"syscall"
	"unsafe"

	"github.com/lxn/win"
)

// HWND_MESSAGE parent makes the window message-only: no UI, messages only.
const hwndMessage = ^uintptr(2)

const displayListenerClass = "glazewm_display_listener"

// WM_SETTINGCHANGE; covers work-area changes such as a moved taskbar.
const wmSettingChange = 0x001A

// DisplayChangeListener owns a message-only window that receives
// WM_DISPLAYCHANGE and forwards each event to the registered callback. The
// callback runs on the message-loop thread and must not block.
type DisplayChangeListener struct {
	logger   *slog.Logger
	onChange func()
	hwnd     win.HWND
}

// NewDisplayChangeListener returns a listener invoking onChange for every
// display configuration change.
func NewDisplayChangeListener(onChange func(), logger *slog.Logger) *DisplayChangeListener {
	if logger == nil {
		logger = slog.Default()
	}
	return &DisplayChangeListener{logger: logger, onChange: onChange}
}

// Run creates the message-only window and pumps messages until ctx is
// cancelled. Blocks; run on its own goroutine.
func (l *DisplayChangeListener) Run(ctx context.Context) error {
	// The window and its message loop must live on one OS thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := l.createWindow(); err != nil {
		return err
	}
	defer win.DestroyWindow(l.hwnd)

	go func() {
		<-ctx.Done()
		win.PostMessage(l.hwnd, win.WM_CLOSE, 0, 0)
	}()

	var msg win.MSG
	for {
		switch win.GetMessage(&msg, 0, 0, 0) {
		case 0, -1:
			return nil
		}
		win.TranslateMessage(&msg)
		win.DispatchMessage(&msg)
	}
}

// createWindow registers the listener class and creates the message-only
// window.
func (l *DisplayChangeListener) createWindow() error {
	classNamePtr, err := syscall.UTF16PtrFromString(displayListenerClass)
	if err != nil {
		return err
	}

	wndProc := syscall.NewCallback(func(hwnd win.HWND, msg uint32, wParam, lParam uintptr) uintptr {
		switch msg {
		case win.WM_DISPLAYCHANGE:
			l.logger.Debug("display configuration changed",
				"bpp", wParam,
				"width", lParam&0xffff,
				"height", (lParam>>16)&0xffff,
			)
			if l.onChange != nil {
				l.onChange()
			}
			return 0
		case wmSettingChange:
			if l.onChange != nil {
				l.onChange()
			}
			return 0
		case win.WM_CLOSE:
			win.DestroyWindow(hwnd)
			return 0
		case win.WM_DESTROY:
			win.PostQuitMessage(0)
			return 0
		}
		return win.DefWindowProc(hwnd, msg, wParam, lParam)
	})

	var wc win.WNDCLASSEX
	wc.CbSize = uint32(unsafe.Sizeof(wc))
	wc.LpfnWndProc = wndProc
	wc.HInstance = win.GetModuleHandle(nil)
	wc.LpszClassName = classNamePtr
	if win.RegisterClassEx(&wc) == 0 {
		return fmt.Errorf("RegisterClassEx failed for %s", displayListenerClass)
	}

	hwnd := win.CreateWindowEx(
		0,
		classNamePtr,
		nil,
		0,
		0, 0, 0, 0,
		win.HWND(hwndMessage),
		0,
		wc.HInstance,
		nil,
	)
	if hwnd == 0 {
		return fmt.Errorf("CreateWindowEx failed for %s", displayListenerClass)
	}
	l.hwnd = hwnd
	return nil
}
