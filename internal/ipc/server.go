// Package ipc exposes a local HTTP and websocket server for runtime
// introspection of the monitor topology and placement decisions.
package ipc

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/stianeklund/glazewm/internal/diag"
	"github.com/stianeklund/glazewm/internal/monitor"
)

// Server serves read-only queries against the registry and recorder and
// streams placement events over websocket.
type Server struct {
	mu       sync.Mutex
	upgrader websocket.Upgrader
	registry *monitor.Registry
	recorder *diag.Recorder
	logger   *slog.Logger
	conns    map[*websocket.Conn]struct{}
}

// NewServer creates an introspection server over the given registry and
// recorder.
func NewServer(registry *monitor.Registry, recorder *diag.Recorder, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		registry: registry,
		recorder: recorder,
		logger:   logger,
		conns:    make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// RegisterRoutes wires the query and event handlers onto the mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/monitors", s.handleMonitors)
	mux.HandleFunc("/api/placements", s.handlePlacements)
	mux.Handle("/ws/events", s)
}

// handleMonitors returns the current monitor topology.
func (s *Server) handleMonitors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	resp := monitorsResponse{Monitors: monitorPayloads(s.registry.List())}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// handlePlacements returns the most recent placement record per window.
func (s *Server) handlePlacements(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	latest := s.recorder.LatestByWindow()
	resp := placementsResponse{Placements: make([]diag.Record, 0, len(latest))}
	for _, rec := range latest {
		resp.Placements = append(resp.Placements, rec)
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// ServeHTTP upgrades the connection and registers it for placement events.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.addConn(conn)
	defer s.removeConn(conn)

	// Clients only receive; the read loop exists to observe close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// BroadcastPlacement sends one placement event to every subscriber.
// Connections that fail to take the write are dropped.
func (s *Server) BroadcastPlacement(rec diag.Record) {
	msg := Event{Type: EventPlacement, Placement: &rec}
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		if err := conn.WriteJSON(msg); err != nil {
			s.logger.Debug("dropping event subscriber", "error", err)
			delete(s.conns, conn)
			_ = conn.Close()
		}
	}
}

// BroadcastTopology notifies subscribers the monitor set changed.
func (s *Server) BroadcastTopology() {
	msg := Event{Type: EventTopology, Monitors: monitorPayloads(s.registry.List())}
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		if err := conn.WriteJSON(msg); err != nil {
			delete(s.conns, conn)
			_ = conn.Close()
		}
	}
}

func (s *Server) addConn(conn *websocket.Conn) {
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) removeConn(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	_ = conn.Close()
}
