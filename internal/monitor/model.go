// Package monitor describes display geometry and maintains the monitor
// topology registry.
package monitor

import "github.com/stianeklund/glazewm/internal/geometry"

// BaselineDPI is the reference DPI a scale factor of 1.0 corresponds to.
const BaselineDPI = 96

// Descriptor describes one connected display. Descriptors are owned by the
// Registry and replaced wholesale on refresh; callers keep copies, never
// long-lived references.
type Descriptor struct {
	// ID is a registry-assigned identifier, regenerated on every rebuild.
	ID string
	// Device is the platform device name, stable across rebuilds while the
	// display stays connected.
	Device   string
	Handle   uintptr
	Rect     geometry.Rect
	WorkRect geometry.Rect
	DPI      uint32
	Scale    float64
	Primary  bool
}

// ScaleFactor converts a monitor DPI reading to its scale factor relative
// to the 96 DPI baseline.
func ScaleFactor(dpi uint32) float64 {
	if dpi == 0 {
		return 1.0
	}
	return float64(dpi) / float64(BaselineDPI)
}

// Enumerator reads the connected display set from the platform. Tests
// substitute a fake.
type Enumerator interface {
	Enumerate() ([]Descriptor, error)
}
