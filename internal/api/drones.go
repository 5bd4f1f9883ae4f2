package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"fleetops-server/internal/model"
	"fleetops-server/internal/store"
)

func (s *Server) handleListDrones(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Drones())
}

func (s *Server) handleGetDrone(w http.ResponseWriter, r *http.Request) {
	drone, ok := s.store.Drone(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "drone not found")
		return
	}
	writeJSON(w, http.StatusOK, drone)
}

func (s *Server) handleCreateDrone(w http.ResponseWriter, r *http.Request) {
	var drone model.Drone
	if err := json.NewDecoder(r.Body).Decode(&drone); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := s.store.CreateDrone(drone)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.events.BroadcastDrone(created)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateDrone(w http.ResponseWriter, r *http.Request) {
	var patch model.DronePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	updated, err := s.store.UpdateDrone(r.PathValue("id"), patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "drone not found")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.events.BroadcastDrone(updated)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleGetTelemetry(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, s.store.Telemetry(r.PathValue("id"), limit))
}
