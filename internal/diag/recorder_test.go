package diag

import (
	"testing"

	"github.com/stianeklund/glazewm/internal/geometry"
)

// TestRecorder_AppendAndPassRecords verifies records accumulate in order
// within a pass.
func TestRecorder_AppendAndPassRecords(t *testing.T) {
	r := NewRecorder(nil)
	r.BeginPass("p1")
	r.Append(Record{PassID: "p1", WindowID: "a"})
	r.Append(Record{PassID: "p1", WindowID: "b"})

	recs := r.PassRecords()
	if len(recs) != 2 || recs[0].WindowID != "a" || recs[1].WindowID != "b" {
		t.Fatalf("unexpected pass records: %+v", recs)
	}
	if recs[0].At.IsZero() {
		t.Fatalf("expected timestamp to be filled")
	}
}

// TestRecorder_BeginPassResets verifies a new pass discards the previous
// pass's records but keeps the per-window history.
func TestRecorder_BeginPassResets(t *testing.T) {
	r := NewRecorder(nil)
	r.BeginPass("p1")
	r.Append(Record{PassID: "p1", WindowID: "a", FinalRect: geometry.Rect{Width: 100, Height: 100}})
	r.BeginPass("p2")
	r.Append(Record{PassID: "p2", WindowID: "b"})

	if got := len(r.PassRecords()); got != 1 {
		t.Fatalf("expected 1 record in new pass, got %d", got)
	}
	latest := r.LatestByWindow()
	if len(latest) != 2 {
		t.Fatalf("expected 2 windows in history, got %d", len(latest))
	}
	if latest["a"].FinalRect.Width != 100 {
		t.Fatalf("expected window a history to survive, got %+v", latest["a"])
	}
}

// TestRecorder_OnAppendHook verifies the append callback fires per record.
func TestRecorder_OnAppendHook(t *testing.T) {
	r := NewRecorder(nil)
	var seen []string
	r.SetOnAppend(func(rec Record) {
		seen = append(seen, rec.WindowID)
	})
	r.Append(Record{WindowID: "a"})
	r.Append(Record{WindowID: "b"})
	if len(seen) != 2 || seen[0] != "a" || seen[1] != "b" {
		t.Fatalf("unexpected hook calls: %v", seen)
	}
}
