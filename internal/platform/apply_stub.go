//go:build !windows

// Package platform issues window placement calls and surfaces display
// configuration events from the host windowing system.
package platform

import (
	"fmt"

	"github.com/stianeklund/glazewm/internal/geometry"
	"github.com/stianeklund/glazewm/internal/placement"
)

// stubApplier fails on non-Windows platforms.
type stubApplier struct{}

// NewApplier returns an applier that reports the platform as unsupported.
func NewApplier() placement.Applier {
	return stubApplier{}
}

// Apply returns an error on non-Windows platforms.
func (stubApplier) Apply(handle uintptr, rect geometry.Rect) (placement.Outcome, error) {
	return placement.Outcome{}, fmt.Errorf("window placement is only supported on Windows")
}
