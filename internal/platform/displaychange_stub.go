//go:build !windows

// Package platform issues window placement calls and surfaces display
// configuration events from the host windowing system.
package platform

import (
	"context"
	"fmt"
	"log/slog"
)

// DisplayChangeListener is unavailable on non-Windows platforms.
type DisplayChangeListener struct{}

// NewDisplayChangeListener returns a listener stub.
func NewDisplayChangeListener(onChange func(), logger *slog.Logger) *DisplayChangeListener {
	_ = onChange
	_ = logger
	return &DisplayChangeListener{}
}

// Run returns an error on non-Windows platforms.
func (*DisplayChangeListener) Run(ctx context.Context) error {
	return fmt.Errorf("display change listening is only supported on Windows")
}
