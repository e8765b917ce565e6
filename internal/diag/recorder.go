// Package diag records structured placement decisions for debugging and
// runtime introspection.
package diag

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/stianeklund/glazewm/internal/geometry"
)

// Record captures one placement decision.
type Record struct {
	PassID      string               `json:"passId"`
	WindowID    string               `json:"windowId"`
	DesiredRect geometry.Rect        `json:"desiredRect"`
	BorderDelta geometry.BorderDelta `json:"borderDelta"`
	MonitorID   string               `json:"monitorId"`
	MonitorRect geometry.Rect        `json:"monitorRect"`
	WorkRect    geometry.Rect        `json:"workRect"`
	DPI         uint32               `json:"dpi"`
	Scale       float64              `json:"scale"`
	FinalRect   geometry.Rect        `json:"finalRect"`
	Clamped     bool                 `json:"clamped"`
	Degraded    bool                 `json:"degraded"`
	ErrKind     string               `json:"errKind,omitempty"`
	At          time.Time            `json:"at"`
}

// Recorder is an append-only sink of placement records. The current pass
// is replaced wholesale when a new pass begins; the most recent record per
// window survives across passes for introspection queries.
type Recorder struct {
	mu        sync.RWMutex
	logger    *slog.Logger
	pass      []Record
	perWindow map[string]Record
	onAppend  func(Record)
}

// NewRecorder returns an empty recorder.
func NewRecorder(logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		logger:    logger,
		perWindow: make(map[string]Record),
	}
}

// SetOnAppend registers a callback invoked for every appended record, used
// to stream records to IPC subscribers. Set before recording starts.
func (r *Recorder) SetOnAppend(fn func(Record)) {
	r.mu.Lock()
	r.onAppend = fn
	r.mu.Unlock()
}

// BeginPass discards records of the previous pass.
func (r *Recorder) BeginPass(passID string) {
	r.mu.Lock()
	r.pass = r.pass[:0]
	r.mu.Unlock()
	r.logger.Debug("placement pass started", "pass_id", passID)
}

// Append records one placement decision and emits a structured log line.
func (r *Recorder) Append(rec Record) {
	if rec.At.IsZero() {
		rec.At = time.Now()
	}
	r.mu.Lock()
	r.pass = append(r.pass, rec)
	r.perWindow[rec.WindowID] = rec
	onAppend := r.onAppend
	r.mu.Unlock()

	if onAppend != nil {
		onAppend(rec)
	}

	level := slog.LevelDebug
	if rec.Degraded || rec.ErrKind != "" {
		level = slog.LevelWarn
	}
	r.logger.Log(context.Background(), level, "window placed",
		"pass_id", rec.PassID,
		"window_id", rec.WindowID,
		"desired", rec.DesiredRect,
		"delta", rec.BorderDelta,
		"monitor_id", rec.MonitorID,
		"work_rect", rec.WorkRect,
		"dpi", rec.DPI,
		"scale", rec.Scale,
		"final", rec.FinalRect,
		"clamped", rec.Clamped,
		"degraded", rec.Degraded,
		"err_kind", rec.ErrKind,
	)
}

// PassRecords returns a copy of the current pass's records in placement
// order.
func (r *Recorder) PassRecords() []Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Record, len(r.pass))
	copy(out, r.pass)
	return out
}

// LatestByWindow returns the most recent record per window.
func (r *Recorder) LatestByWindow() map[string]Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Record, len(r.perWindow))
	for k, v := range r.perWindow {
		out[k] = v
	}
	return out
}
