package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"fleetops-server/internal/model"
	"fleetops-server/internal/store"
)

func (s *Server) handleListGeofences(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Geofences())
}

func (s *Server) handleGetGeofence(w http.ResponseWriter, r *http.Request) {
	fence, ok := s.store.Geofence(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "geofence not found")
		return
	}
	writeJSON(w, http.StatusOK, fence)
}

func (s *Server) handleCreateGeofence(w http.ResponseWriter, r *http.Request) {
	var fence model.Geofence
	if err := json.NewDecoder(r.Body).Decode(&fence); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := s.store.CreateGeofence(fence)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateGeofence(w http.ResponseWriter, r *http.Request) {
	var patch model.GeofencePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	updated, err := s.store.UpdateGeofence(r.PathValue("id"), patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "geofence not found")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteGeofence(w http.ResponseWriter, r *http.Request) {
	if !s.store.DeleteGeofence(r.PathValue("id")) {
		writeError(w, http.StatusNotFound, "geofence not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
