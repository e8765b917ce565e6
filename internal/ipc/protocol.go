// Package ipc exposes a local HTTP and websocket server for runtime
// introspection of the monitor topology and placement decisions.
package ipc

import (
	"github.com/stianeklund/glazewm/internal/diag"
	"github.com/stianeklund/glazewm/internal/geometry"
	"github.com/stianeklund/glazewm/internal/monitor"
)

// Event types sent over the websocket stream.
const (
	EventPlacement = "placement"
	EventTopology  = "topology"
)

// Event is one message on the event stream.
type Event struct {
	Type      string           `json:"type"`
	Placement *diag.Record     `json:"placement,omitempty"`
	Monitors  []MonitorPayload `json:"monitors,omitempty"`
}

// MonitorPayload is the wire form of a monitor descriptor.
type MonitorPayload struct {
	ID       string        `json:"id"`
	Device   string        `json:"device"`
	Rect     geometry.Rect `json:"rect"`
	WorkRect geometry.Rect `json:"workRect"`
	DPI      uint32        `json:"dpi"`
	Scale    float64       `json:"scale"`
	Primary  bool          `json:"primary"`
}

type monitorsResponse struct {
	Monitors []MonitorPayload `json:"monitors"`
}

type placementsResponse struct {
	Placements []diag.Record `json:"placements"`
}

// monitorPayloads converts descriptors to their wire form.
func monitorPayloads(list []monitor.Descriptor) []MonitorPayload {
	out := make([]MonitorPayload, len(list))
	for i, m := range list {
		out[i] = MonitorPayload{
			ID:       m.ID,
			Device:   m.Device,
			Rect:     m.Rect,
			WorkRect: m.WorkRect,
			DPI:      m.DPI,
			Scale:    m.Scale,
			Primary:  m.Primary,
		}
	}
	return out
}
