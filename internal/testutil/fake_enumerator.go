package testutil

import (
	"sync"

	"github.com/stianeklund/glazewm/internal/geometry"
	"github.com/stianeklund/glazewm/internal/monitor"
)

// FakeEnumerator implements monitor.Enumerator with a swappable monitor
// set.
type FakeEnumerator struct {
	mu  sync.Mutex
	set []monitor.Descriptor
	err error
}

// Ensure FakeEnumerator implements the interface.
var _ monitor.Enumerator = (*FakeEnumerator)(nil)

// NewFakeEnumerator returns an enumerator serving the given set.
func NewFakeEnumerator(set []monitor.Descriptor) *FakeEnumerator {
	return &FakeEnumerator{set: set}
}

// Enumerate returns a copy of the current set.
func (f *FakeEnumerator) Enumerate() ([]monitor.Descriptor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]monitor.Descriptor, len(f.set))
	copy(out, f.set)
	return out, nil
}

// SetMonitors replaces the served monitor set.
func (f *FakeEnumerator) SetMonitors(set []monitor.Descriptor) {
	f.mu.Lock()
	f.set = set
	f.mu.Unlock()
}

// SetError makes Enumerate fail with err.
func (f *FakeEnumerator) SetError(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

// DualMonitorSet returns a primary 96 DPI monitor at the origin and a
// 144 DPI secondary to its left, both with a 40px taskbar strip excluded
// from the working area.
func DualMonitorSet() []monitor.Descriptor {
	return []monitor.Descriptor{
		{
			Device:   `\\.\DISPLAY1`,
			Rect:     geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1080},
			WorkRect: geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1040},
			DPI:      96,
			Primary:  true,
		},
		{
			Device:   `\\.\DISPLAY2`,
			Rect:     geometry.Rect{X: -1920, Y: 0, Width: 1920, Height: 1080},
			WorkRect: geometry.Rect{X: -1920, Y: 0, Width: 1920, Height: 1040},
			DPI:      144,
		},
	}
}
