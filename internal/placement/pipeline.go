// Package placement orchestrates the window placement pipeline.
package placement

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/stianeklund/glazewm/internal/diag"
	"github.com/stianeklund/glazewm/internal/dpi"
	"github.com/stianeklund/glazewm/internal/geometry"
	"github.com/stianeklund/glazewm/internal/monitor"
)

// Request asks for one window to be positioned. Built fresh each layout
// pass from the layout engine's output and discarded once applied.
type Request struct {
	WindowID        string
	Handle          uintptr
	DesiredRect     geometry.Rect
	BorderDelta     geometry.BorderDelta
	TargetMonitorID string
}

// Result reports the outcome of one placement.
type Result struct {
	WindowID  string
	FinalRect geometry.Rect
	MonitorID string
	// Clamped is set when the final rect differs from the desired rect
	// after the border delta.
	Clamped bool
	// Degraded is set when a fallback was taken (missing monitor, out of
	// range coordinates, degenerate delta).
	Degraded bool
	// Err carries the failure for skipped or dropped windows; the pass
	// continues regardless.
	Err error
}

// LayoutSource yields the ordered placement requests for one pass. The
// layout engine's output is treated as final tiling geometry.
type LayoutSource interface {
	Requests() []Request
}

// Outcome reports what the platform did with a placement call.
type Outcome struct {
	// PendingDPIChange is set when the platform renegotiated the window's
	// DPI as a side effect of the move; a second placement call under the
	// new DPI is required to settle the final size.
	PendingDPIChange bool
	NewDPI           uint32
}

// Applier issues platform placement calls. Implementations must be safe to
// call from inside the per-monitor DPI awareness scope.
type Applier interface {
	Apply(handle uintptr, rect geometry.Rect) (Outcome, error)
}

// ErrWindowGone reports a placement target whose handle became invalid
// between layout computation and apply.
var ErrWindowGone = errors.New("window handle no longer valid")

// Pipeline runs the coordinate normalization and placement steps for each
// window of a layout pass.
type Pipeline struct {
	registry *monitor.Registry
	applier  Applier
	recorder *diag.Recorder
	deferred *DeferredQueue
	logger   *slog.Logger
}

// NewPipeline wires a placement pipeline.
func NewPipeline(registry *monitor.Registry, applier Applier, recorder *diag.Recorder, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		registry: registry,
		applier:  applier,
		recorder: recorder,
		deferred: NewDeferredQueue(),
		logger:   logger,
	}
}

// Deferred exposes the next-tick queue of second-phase placements.
func (p *Pipeline) Deferred() *DeferredQueue {
	return p.deferred
}

// PlaceAll runs one placement pass over the given requests, in order. All
// placements resolve against one consistent monitor snapshot taken at the
// start of the pass; a topology refresh arriving mid-pass is observed by
// the next pass only. Errors are isolated per window and never abort the
// remaining requests.
func (p *Pipeline) PlaceAll(ctx context.Context, requests []Request) []Result {
	passID := uuid.NewString()
	p.recorder.BeginPass(passID)

	snapshot := newTopologySnapshot(p.registry)
	results := make([]Result, 0, len(requests))

	dpi.WithPerMonitorContext(func() {
		for _, req := range requests {
			if ctx.Err() != nil {
				break
			}
			results = append(results, p.placeOne(passID, snapshot, req, false))
		}
	})
	return results
}

// RunDeferred drains the next-tick queue and issues the second-phase
// placement calls, re-validating coordinates under the renegotiated DPI.
func (p *Pipeline) RunDeferred(ctx context.Context) []Result {
	tasks := p.deferred.Drain()
	if len(tasks) == 0 {
		return nil
	}

	passID := uuid.NewString()
	snapshot := newTopologySnapshot(p.registry)
	results := make([]Result, 0, len(tasks))

	dpi.WithPerMonitorContext(func() {
		for _, task := range tasks {
			if ctx.Err() != nil {
				break
			}
			results = append(results, p.placeOne(passID, snapshot, task.Request, true))
		}
	})
	return results
}

// placeOne runs steps 2-7 of the pipeline for a single window.
func (p *Pipeline) placeOne(passID string, snapshot *topologySnapshot, req Request, secondPhase bool) Result {
	rec := diag.Record{
		PassID:      passID,
		WindowID:    req.WindowID,
		DesiredRect: req.DesiredRect,
		BorderDelta: req.BorderDelta,
	}
	res := Result{WindowID: req.WindowID}

	rect, err := geometry.ApplyDelta(req.DesiredRect, req.BorderDelta)
	if err != nil {
		// Unplaceable this pass; skip rather than emit garbage coordinates.
		res.Err = err
		res.Degraded = true
		rec.Degraded = true
		rec.ErrKind = "degenerate"
		p.recorder.Append(rec)
		p.logger.Warn("window skipped: degenerate rect",
			"window_id", req.WindowID, "error", err)
		return res
	}

	mon, found := snapshot.resolve(req.TargetMonitorID)
	if !found {
		res.Err = monitor.ErrMonitorUnavailable
		res.Degraded = true
		rec.Degraded = true
		rec.ErrKind = "monitor_unavailable"
		p.recorder.Append(rec)
		p.logger.Warn("window skipped: no monitor available",
			"window_id", req.WindowID, "target_monitor", req.TargetMonitorID)
		return res
	}
	if mon.ID != req.TargetMonitorID {
		// Target monitor left the topology; degrade to the primary.
		res.Degraded = true
		res.Clamped = true
		rec.Degraded = true
		p.logger.Warn("target monitor missing, using primary",
			"window_id", req.WindowID,
			"target_monitor", req.TargetMonitorID,
			"fallback_monitor", mon.ID)
	}
	res.MonitorID = mon.ID
	rec.MonitorID = mon.ID
	rec.MonitorRect = mon.Rect
	rec.WorkRect = mon.WorkRect
	rec.DPI = mon.DPI
	rec.Scale = mon.Scale

	clamped := rect.ClampWithinBounds(mon.WorkRect)
	if clamped != rect {
		res.Clamped = true
		rec.Clamped = true
	}

	validated, err := geometry.ValidateCoordinateRange(clamped)
	if err != nil {
		// Proceed with the range-corrected rect; imperfect beats dropped.
		res.Clamped = true
		res.Degraded = true
		rec.Clamped = true
		rec.Degraded = true
		rec.ErrKind = "out_of_range"
		p.logger.Warn("coordinates corrected to platform range",
			"window_id", req.WindowID, "error", err)
	}

	outcome, err := p.applier.Apply(req.Handle, validated)
	if err != nil {
		res.Err = err
		res.Degraded = true
		rec.Degraded = true
		rec.ErrKind = "platform_apply"
		p.recorder.Append(rec)
		p.logger.Error("platform apply failed",
			"window_id", req.WindowID, "error", err)
		return res
	}

	res.FinalRect = validated
	rec.FinalRect = validated
	p.recorder.Append(rec)

	if outcome.PendingDPIChange && !secondPhase {
		// The platform renegotiates DPI asynchronously for windows moved
		// across monitors with different scale factors; a single call can
		// settle on the wrong size. Defer a second call to the next tick
		// so the first change lands before we correct.
		p.deferred.Enqueue(DeferredTask{Request: Request{
			WindowID:        req.WindowID,
			Handle:          req.Handle,
			DesiredRect:     req.DesiredRect,
			BorderDelta:     req.BorderDelta,
			TargetMonitorID: req.TargetMonitorID,
		}})
		p.logger.Debug("second placement deferred for DPI change",
			"window_id", req.WindowID, "new_dpi", outcome.NewDPI)
	}
	return res
}

// topologySnapshot freezes the monitor set for one pass so every placement
// resolves against consistent bounds.
type topologySnapshot struct {
	byID    map[string]monitor.Descriptor
	primary monitor.Descriptor
	havePri bool
}

func newTopologySnapshot(reg *monitor.Registry) *topologySnapshot {
	snap := &topologySnapshot{byID: make(map[string]monitor.Descriptor)}
	for _, m := range reg.List() {
		snap.byID[m.ID] = m
	}
	snap.primary, snap.havePri = reg.Primary()
	return snap
}

// resolve returns the target monitor, or the primary when the target is
// gone. The second return is false only when no monitor exists at all.
func (s *topologySnapshot) resolve(id string) (monitor.Descriptor, bool) {
	if m, ok := s.byID[id]; ok {
		return m, true
	}
	if s.havePri {
		return s.primary, true
	}
	return monitor.Descriptor{}, false
}
