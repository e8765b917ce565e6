package testutil

import (
	"sync"

	"github.com/stianeklund/glazewm/internal/geometry"
	"github.com/stianeklund/glazewm/internal/placement"
)

// ApplyCall records a single platform placement call.
type ApplyCall struct {
	Handle uintptr
	Rect   geometry.Rect
}

// FakeApplier implements placement.Applier and records calls for tests.
type FakeApplier struct {
	mu    sync.Mutex
	Calls []ApplyCall
	// FailHandles makes Apply return the given error for matching handles.
	FailHandles map[uintptr]error
	// PendingDPI makes Apply report a DPI renegotiation for matching
	// handles, one time each.
	PendingDPI map[uintptr]uint32
}

// Ensure FakeApplier implements the interface.
var _ placement.Applier = (*FakeApplier)(nil)

// Apply records the call and returns the configured outcome.
func (f *FakeApplier) Apply(handle uintptr, rect geometry.Rect) (placement.Outcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, ApplyCall{Handle: handle, Rect: rect})
	if err, ok := f.FailHandles[handle]; ok {
		return placement.Outcome{}, err
	}
	if newDPI, ok := f.PendingDPI[handle]; ok {
		delete(f.PendingDPI, handle)
		return placement.Outcome{PendingDPIChange: true, NewDPI: newDPI}, nil
	}
	return placement.Outcome{}, nil
}

// CallCount returns the number of recorded calls.
func (f *FakeApplier) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}

// LastCall returns the most recent recorded call.
func (f *FakeApplier) LastCall() (ApplyCall, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Calls) == 0 {
		return ApplyCall{}, false
	}
	return f.Calls[len(f.Calls)-1], true
}
