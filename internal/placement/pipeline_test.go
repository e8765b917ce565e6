package placement_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stianeklund/glazewm/internal/diag"
	"github.com/stianeklund/glazewm/internal/geometry"
	"github.com/stianeklund/glazewm/internal/monitor"
	"github.com/stianeklund/glazewm/internal/placement"
	"github.com/stianeklund/glazewm/internal/testutil"
)

func newTestPipeline(t *testing.T) (*placement.Pipeline, *monitor.Registry, *testutil.FakeApplier, *diag.Recorder) {
	t.Helper()
	reg := monitor.NewRegistry(testutil.NewFakeEnumerator(testutil.DualMonitorSet()), nil)
	require.NoError(t, reg.Refresh())
	applier := &testutil.FakeApplier{}
	recorder := diag.NewRecorder(nil)
	return placement.NewPipeline(reg, applier, recorder, nil), reg, applier, recorder
}

func primaryID(t *testing.T, reg *monitor.Registry) string {
	t.Helper()
	p, ok := reg.Primary()
	require.True(t, ok)
	return p.ID
}

func secondaryID(t *testing.T, reg *monitor.Registry) string {
	t.Helper()
	m, ok := reg.GetByDevice(`\\.\DISPLAY2`)
	require.True(t, ok)
	return m.ID
}

func TestPlaceAll_FittingRectUnchanged(t *testing.T) {
	pipe, reg, applier, _ := newTestPipeline(t)

	desired := geometry.Rect{X: 100, Y: 100, Width: 800, Height: 600}
	results := pipe.PlaceAll(context.Background(), []placement.Request{{
		WindowID:        "w1",
		Handle:          1,
		DesiredRect:     desired,
		TargetMonitorID: primaryID(t, reg),
	}})

	require.Len(t, results, 1)
	res := results[0]
	require.NoError(t, res.Err)
	assert.Equal(t, desired, res.FinalRect)
	assert.False(t, res.Clamped)
	assert.False(t, res.Degraded)

	last, ok := applier.LastCall()
	require.True(t, ok)
	assert.Equal(t, desired, last.Rect)
}

func TestPlaceAll_ClampsToWorkingArea(t *testing.T) {
	pipe, reg, applier, _ := newTestPipeline(t)

	// Overhangs the right edge of the 1920x1040 working area.
	results := pipe.PlaceAll(context.Background(), []placement.Request{{
		WindowID:        "w1",
		Handle:          1,
		DesiredRect:     geometry.Rect{X: 1800, Y: 50, Width: 300, Height: 300},
		TargetMonitorID: primaryID(t, reg),
	}})

	require.Len(t, results, 1)
	res := results[0]
	require.NoError(t, res.Err)
	assert.Equal(t, geometry.Rect{X: 1620, Y: 50, Width: 300, Height: 300}, res.FinalRect)
	assert.True(t, res.Clamped)
	assert.False(t, res.Degraded)

	last, _ := applier.LastCall()
	assert.Equal(t, res.FinalRect, last.Rect)
}

func TestPlaceAll_BorderDeltaApplied(t *testing.T) {
	pipe, reg, applier, _ := newTestPipeline(t)

	results := pipe.PlaceAll(context.Background(), []placement.Request{{
		WindowID:        "w1",
		Handle:          1,
		DesiredRect:     geometry.Rect{X: 100, Y: 100, Width: 800, Height: 600},
		BorderDelta:     geometry.BorderDelta{Left: 7, Top: 0, Right: 7, Bottom: 7},
		TargetMonitorID: primaryID(t, reg),
	}})

	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	want := geometry.Rect{X: 93, Y: 100, Width: 814, Height: 607}
	assert.Equal(t, want, results[0].FinalRect)

	last, _ := applier.LastCall()
	assert.Equal(t, want, last.Rect)
}

func TestPlaceAll_DegenerateDeltaSkipsWindow(t *testing.T) {
	pipe, reg, applier, _ := newTestPipeline(t)
	monID := primaryID(t, reg)

	results := pipe.PlaceAll(context.Background(), []placement.Request{
		{
			WindowID:        "bad",
			Handle:          1,
			DesiredRect:     geometry.Rect{X: 0, Y: 0, Width: 20, Height: 20},
			BorderDelta:     geometry.BorderDelta{Left: -15, Right: -15},
			TargetMonitorID: monID,
		},
		{
			WindowID:        "good",
			Handle:          2,
			DesiredRect:     geometry.Rect{X: 10, Y: 10, Width: 100, Height: 100},
			TargetMonitorID: monID,
		},
	})

	require.Len(t, results, 2)
	assert.ErrorIs(t, results[0].Err, geometry.ErrDegenerateRect)
	assert.True(t, results[0].Degraded)
	require.NoError(t, results[1].Err)

	// The degenerate window must not reach the platform.
	assert.Equal(t, 1, applier.CallCount())
}

func TestPlaceAll_MissingMonitorFallsBackToPrimary(t *testing.T) {
	pipe, reg, _, _ := newTestPipeline(t)

	results := pipe.PlaceAll(context.Background(), []placement.Request{
		{
			WindowID:        "orphan",
			Handle:          1,
			DesiredRect:     geometry.Rect{X: 100, Y: 100, Width: 400, Height: 300},
			TargetMonitorID: "no-such-monitor",
		},
		{
			WindowID:        "fine",
			Handle:          2,
			DesiredRect:     geometry.Rect{X: -1800, Y: 0, Width: 400, Height: 300},
			TargetMonitorID: secondaryID(t, reg),
		},
	})

	require.Len(t, results, 2)
	orphan := results[0]
	require.NoError(t, orphan.Err)
	assert.Equal(t, primaryID(t, reg), orphan.MonitorID)
	assert.True(t, orphan.Degraded)
	assert.True(t, orphan.Clamped)

	// The rest of the pass is unaffected.
	require.NoError(t, results[1].Err)
	assert.False(t, results[1].Degraded)
}

func TestPlaceAll_OutOfRangeCorrected(t *testing.T) {
	// A monitor parked beyond the 16-bit range forces range correction.
	enum := testutil.NewFakeEnumerator([]monitor.Descriptor{{
		Device:   `\\.\DISPLAY9`,
		Rect:     geometry.Rect{X: 39000, Y: 0, Width: 1920, Height: 1080},
		WorkRect: geometry.Rect{X: 39000, Y: 0, Width: 1920, Height: 1040},
		DPI:      96,
		Primary:  true,
	}})
	reg := monitor.NewRegistry(enum, nil)
	require.NoError(t, reg.Refresh())
	applier := &testutil.FakeApplier{}
	pipe := placement.NewPipeline(reg, applier, diag.NewRecorder(nil), nil)

	results := pipe.PlaceAll(context.Background(), []placement.Request{{
		WindowID:        "w1",
		Handle:          1,
		DesiredRect:     geometry.Rect{X: 40000, Y: 100, Width: 300, Height: 300},
		TargetMonitorID: reg.List()[0].ID,
	}})

	require.Len(t, results, 1)
	res := results[0]
	require.NoError(t, res.Err)
	assert.True(t, res.Degraded)
	assert.LessOrEqual(t, res.FinalRect.X, int32(geometry.CoordMax))

	last, _ := applier.LastCall()
	assert.LessOrEqual(t, last.Rect.X, int32(geometry.CoordMax))
}

func TestPlaceAll_ApplyFailureIsolated(t *testing.T) {
	pipe, reg, applier, _ := newTestPipeline(t)
	applier.FailHandles = map[uintptr]error{1: placement.ErrWindowGone}
	monID := primaryID(t, reg)

	results := pipe.PlaceAll(context.Background(), []placement.Request{
		{WindowID: "gone", Handle: 1, DesiredRect: geometry.Rect{X: 0, Y: 0, Width: 100, Height: 100}, TargetMonitorID: monID},
		{WindowID: "alive", Handle: 2, DesiredRect: geometry.Rect{X: 0, Y: 0, Width: 100, Height: 100}, TargetMonitorID: monID},
	})

	require.Len(t, results, 2)
	assert.ErrorIs(t, results[0].Err, placement.ErrWindowGone)
	require.NoError(t, results[1].Err)
	assert.Equal(t, 2, applier.CallCount())
}

func TestPlaceAll_PendingDPIChangeDefersSecondCall(t *testing.T) {
	pipe, reg, applier, _ := newTestPipeline(t)
	applier.PendingDPI = map[uintptr]uint32{1: 144}

	req := placement.Request{
		WindowID:        "w1",
		Handle:          1,
		DesiredRect:     geometry.Rect{X: -1800, Y: 0, Width: 500, Height: 500},
		TargetMonitorID: secondaryID(t, reg),
	}
	results := pipe.PlaceAll(context.Background(), []placement.Request{req})
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)

	// The second call waits for the next tick rather than firing inline.
	assert.Equal(t, 1, applier.CallCount())
	require.Equal(t, 1, pipe.Deferred().Len())

	deferred := pipe.RunDeferred(context.Background())
	require.Len(t, deferred, 1)
	require.NoError(t, deferred[0].Err)
	assert.Equal(t, 2, applier.CallCount())
	// The outcome was consumed: no third phase is scheduled.
	assert.Equal(t, 0, pipe.Deferred().Len())
}

func TestPlaceAll_SnapshotStableAcrossMidPassRefresh(t *testing.T) {
	enum := testutil.NewFakeEnumerator(testutil.DualMonitorSet())
	reg := monitor.NewRegistry(enum, nil)
	require.NoError(t, reg.Refresh())
	applier := &testutil.FakeApplier{}
	pipe := placement.NewPipeline(reg, applier, diag.NewRecorder(nil), nil)
	monID := primaryID(t, reg)

	// A refresh between two passes invalidates old IDs; re-resolve falls
	// back to primary rather than failing the window.
	require.NoError(t, reg.Refresh())
	results := pipe.PlaceAll(context.Background(), []placement.Request{{
		WindowID:        "w1",
		Handle:          1,
		DesiredRect:     geometry.Rect{X: 0, Y: 0, Width: 100, Height: 100},
		TargetMonitorID: monID,
	}})
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	assert.True(t, results[0].Degraded)
	assert.Equal(t, primaryID(t, reg), results[0].MonitorID)
}

func TestPlaceAll_NoMonitorsAtAll(t *testing.T) {
	enum := testutil.NewFakeEnumerator(nil)
	reg := monitor.NewRegistry(enum, nil)
	// Refresh fails on an empty set; the registry stays empty.
	require.Error(t, reg.Refresh())
	applier := &testutil.FakeApplier{}
	pipe := placement.NewPipeline(reg, applier, diag.NewRecorder(nil), nil)

	results := pipe.PlaceAll(context.Background(), []placement.Request{{
		WindowID:        "w1",
		Handle:          1,
		DesiredRect:     geometry.Rect{X: 0, Y: 0, Width: 100, Height: 100},
		TargetMonitorID: "anything",
	}})
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, monitor.ErrMonitorUnavailable)
	assert.Equal(t, 0, applier.CallCount())
}

func TestRecorder_CapturesPlacementDecision(t *testing.T) {
	pipe, reg, _, recorder := newTestPipeline(t)

	pipe.PlaceAll(context.Background(), []placement.Request{{
		WindowID:        "w1",
		Handle:          1,
		DesiredRect:     geometry.Rect{X: 1800, Y: 50, Width: 300, Height: 300},
		TargetMonitorID: primaryID(t, reg),
	}})

	recs := recorder.PassRecords()
	require.Len(t, recs, 1)
	rec := recs[0]
	assert.Equal(t, "w1", rec.WindowID)
	assert.Equal(t, geometry.Rect{X: 1800, Y: 50, Width: 300, Height: 300}, rec.DesiredRect)
	assert.Equal(t, geometry.Rect{X: 1620, Y: 50, Width: 300, Height: 300}, rec.FinalRect)
	assert.True(t, rec.Clamped)
	assert.Equal(t, uint32(96), rec.DPI)
	assert.Equal(t, 1.0, rec.Scale)

	latest := recorder.LatestByWindow()
	require.Contains(t, latest, "w1")
	assert.Equal(t, rec.FinalRect, latest["w1"].FinalRect)
}

func TestRecorder_PassRecordsResetPerPass(t *testing.T) {
	pipe, reg, _, recorder := newTestPipeline(t)
	monID := primaryID(t, reg)

	reqs := []placement.Request{
		{WindowID: "a", Handle: 1, DesiredRect: geometry.Rect{X: 0, Y: 0, Width: 100, Height: 100}, TargetMonitorID: monID},
		{WindowID: "b", Handle: 2, DesiredRect: geometry.Rect{X: 100, Y: 0, Width: 100, Height: 100}, TargetMonitorID: monID},
	}
	pipe.PlaceAll(context.Background(), reqs)
	require.Len(t, recorder.PassRecords(), 2)

	pipe.PlaceAll(context.Background(), reqs[:1])
	assert.Len(t, recorder.PassRecords(), 1)
	// The most recent record per window survives across passes.
	assert.Len(t, recorder.LatestByWindow(), 2)
}

func TestDeferredQueue_DrainOrderAndReset(t *testing.T) {
	q := placement.NewDeferredQueue()
	q.Enqueue(placement.DeferredTask{Request: placement.Request{WindowID: "a"}})
	q.Enqueue(placement.DeferredTask{Request: placement.Request{WindowID: "b"}})

	tasks := q.Drain()
	require.Len(t, tasks, 2)
	assert.Equal(t, "a", tasks[0].Request.WindowID)
	assert.Equal(t, "b", tasks[1].Request.WindowID)
	assert.Empty(t, q.Drain())
}

func TestPlaceAll_ErrorsDoNotAbortPass(t *testing.T) {
	pipe, reg, applier, _ := newTestPipeline(t)
	applier.FailHandles = map[uintptr]error{2: errors.New("rejected")}
	monID := primaryID(t, reg)

	var reqs []placement.Request
	for i, id := range []string{"a", "b", "c", "d"} {
		reqs = append(reqs, placement.Request{
			WindowID:        id,
			Handle:          uintptr(i + 1),
			DesiredRect:     geometry.Rect{X: int32(i) * 100, Y: 0, Width: 100, Height: 100},
			TargetMonitorID: monID,
		})
	}
	results := pipe.PlaceAll(context.Background(), reqs)
	require.Len(t, results, 4)
	assert.Error(t, results[1].Err)
	for _, i := range []int{0, 2, 3} {
		assert.NoError(t, results[i].Err, "window %s", results[i].WindowID)
	}
}
