//go:build !windows

// Package monitor describes display geometry and maintains the monitor
// topology registry.
package monitor

import "fmt"

// stubEnumerator fails on non-Windows platforms.
type stubEnumerator struct{}

// NewEnumerator returns an enumerator that reports the platform as
// unsupported.
func NewEnumerator() Enumerator {
	return stubEnumerator{}
}

// Enumerate returns an error on non-Windows platforms.
func (stubEnumerator) Enumerate() ([]Descriptor, error) {
	return nil, fmt.Errorf("monitor enumeration is only supported on Windows")
}
