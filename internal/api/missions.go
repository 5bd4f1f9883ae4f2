package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"fleetops-server/internal/airspace"
	"fleetops-server/internal/model"
	"fleetops-server/internal/store"
)

func (s *Server) handleListMissions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Missions())
}

func (s *Server) handleGetMission(w http.ResponseWriter, r *http.Request) {
	mission, ok := s.store.Mission(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "mission not found")
		return
	}
	writeJSON(w, http.StatusOK, mission)
}

// handleCreateMission enforces the one cross-entity invariant: a mission is
// refused when its path conflicts with an active geofence at the requested
// altitude. No partial state is left behind on rejection.
func (s *Server) handleCreateMission(w http.ResponseWriter, r *http.Request) {
	var mission model.Mission
	if err := json.NewDecoder(r.Body).Decode(&mission); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(mission.Waypoints) < 2 {
		writeError(w, http.StatusBadRequest, "mission requires at least 2 waypoints")
		return
	}

	if mission.DroneID != "" {
		drone, ok := s.store.Drone(mission.DroneID)
		if !ok {
			writeError(w, http.StatusBadRequest, "drone not found")
			return
		}
		if drone.Status == model.StatusMission {
			writeError(w, http.StatusBadRequest, "drone is already on a mission")
			return
		}
	}

	path := make([]model.Coordinate, len(mission.Waypoints))
	for i, wp := range mission.Waypoints {
		path[i] = model.Coordinate{Lat: wp.Lat, Lng: wp.Lng}
	}
	report := airspace.CheckConflicts(path, mission.Altitude, s.store.Geofences())
	if report.HasConflicts {
		writeJSON(w, http.StatusConflict, map[string]any{
			"message":   "mission path conflicts with restricted airspace",
			"conflicts": report.Conflicts,
		})
		return
	}

	created, err := s.store.CreateMission(mission)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if created.DroneID != "" {
		status := model.StatusMission
		drone, err := s.store.UpdateDrone(created.DroneID, model.DronePatch{Status: &status})
		if err == nil {
			s.events.BroadcastDrone(drone)
		}
		s.dispatchMission(created)
	}

	writeJSON(w, http.StatusCreated, created)
}

// dispatchMission uploads the path to the flight-control gateway. Dispatch
// is best-effort; the mission record is already committed.
func (s *Server) dispatchMission(mission model.Mission) {
	if s.gateway == nil {
		return
	}
	if !s.gateway.IsConnected(mission.DroneID) {
		s.gateway.Connect(mission.DroneID)
	}
	if err := s.gateway.UploadMission(mission.DroneID, mission.Waypoints); err != nil {
		s.log.Error("mission upload failed", "mission_id", mission.ID, "drone_id", mission.DroneID, "err", err)
		return
	}
	accepted, err := s.gateway.StartMission(mission.DroneID)
	if err != nil || !accepted {
		s.log.Warn("mission start not accepted", "mission_id", mission.ID, "drone_id", mission.DroneID, "err", err)
	}
}

func (s *Server) handleUpdateMission(w http.ResponseWriter, r *http.Request) {
	var patch model.MissionPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	updated, err := s.store.UpdateMission(r.PathValue("id"), patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "mission not found")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteMission(w http.ResponseWriter, r *http.Request) {
	if !s.store.DeleteMission(r.PathValue("id")) {
		writeError(w, http.StatusNotFound, "mission not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
