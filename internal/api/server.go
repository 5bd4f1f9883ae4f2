// HTTP surface consumed by the dashboard UI: entity CRUD, airspace checks,
// and the websocket upgrade endpoint.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"fleetops-server/internal/airspace"
	"fleetops-server/internal/command"
	"fleetops-server/internal/hub"
	"fleetops-server/internal/model"
	"fleetops-server/internal/store"
)

// Broadcaster pushes store-change events to connected observers.
type Broadcaster interface {
	BroadcastDrone(model.Drone)
	BroadcastAlert(model.Alert)
}

// Server wires the record store, broadcast hub, and command gateway behind
// the HTTP API.
type Server struct {
	store   *store.Store
	hub     *hub.Hub
	events  Broadcaster
	gateway *command.Gateway
	log     *slog.Logger
	http    *http.Server
}

// NewServer creates the API server. The gateway may be nil to disable
// command dispatch on mission launch.
func NewServer(st *store.Store, h *hub.Hub, gw *command.Gateway, log *slog.Logger) *Server {
	return &Server{store: st, hub: h, events: h, gateway: gw, log: log}
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/drones", s.handleListDrones)
	mux.HandleFunc("POST /api/drones", s.handleCreateDrone)
	mux.HandleFunc("GET /api/drones/{id}", s.handleGetDrone)
	mux.HandleFunc("PATCH /api/drones/{id}", s.handleUpdateDrone)
	mux.HandleFunc("GET /api/drones/{id}/telemetry", s.handleGetTelemetry)

	mux.HandleFunc("GET /api/missions", s.handleListMissions)
	mux.HandleFunc("POST /api/missions", s.handleCreateMission)
	mux.HandleFunc("GET /api/missions/{id}", s.handleGetMission)
	mux.HandleFunc("PATCH /api/missions/{id}", s.handleUpdateMission)
	mux.HandleFunc("DELETE /api/missions/{id}", s.handleDeleteMission)

	mux.HandleFunc("POST /api/airspace/check", s.handleAirspaceCheck)

	mux.HandleFunc("GET /api/geofences", s.handleListGeofences)
	mux.HandleFunc("POST /api/geofences", s.handleCreateGeofence)
	mux.HandleFunc("GET /api/geofences/{id}", s.handleGetGeofence)
	mux.HandleFunc("PATCH /api/geofences/{id}", s.handleUpdateGeofence)
	mux.HandleFunc("DELETE /api/geofences/{id}", s.handleDeleteGeofence)

	mux.HandleFunc("GET /api/alerts", s.handleListAlerts)
	mux.HandleFunc("PATCH /api/alerts/{id}/acknowledge", s.handleAcknowledgeAlert)

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /ws", s.hub.HandleWS)

	return mux
}

// Handler returns the routed handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.routes()
}

// Start runs the HTTP server until the context is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	s.http = &http.Server{Addr: addr, Handler: s.routes()}
	go func() {
		<-ctx.Done()
		s.http.Shutdown(context.Background())
	}()
	return s.http.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"drones":    len(snap.Drones),
		"missions":  len(snap.Missions),
		"geofences": len(snap.Geofences),
		"alerts":    len(snap.Alerts),
		"observers": s.hub.ClientCount(),
	})
}

// airspaceCheckRequest uses a pointer altitude to distinguish a missing
// field from a legitimate zero.
type airspaceCheckRequest struct {
	Waypoints []model.Coordinate `json:"waypoints"`
	Altitude  *float64           `json:"altitude"`
}

func (s *Server) handleAirspaceCheck(w http.ResponseWriter, r *http.Request) {
	var req airspaceCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Waypoints) == 0 || req.Altitude == nil {
		writeError(w, http.StatusBadRequest, "waypoints and altitude required")
		return
	}
	report := airspace.CheckConflicts(req.Waypoints, *req.Altitude, s.store.Geofences())
	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
