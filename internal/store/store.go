// In-memory record store: the single source of truth for drones, missions,
// telemetry history, geofences, and alerts.
package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"fleetops-server/internal/model"
)

// telemetryCap bounds the per-drone telemetry ring; the oldest sample is
// evicted first once the cap is reached.
const telemetryCap = 1000

// ErrNotFound is returned when an operation addresses an unknown entity id.
var ErrNotFound = errors.New("not found")

// Store owns all fleet entities. Every operation is atomic with respect to
// a single entity; concurrent updates to the same drone never interleave.
type Store struct {
	mu        sync.RWMutex
	drones    map[string]model.Drone
	missions  map[string]model.Mission
	telemetry map[string][]model.TelemetrySample
	geofences map[string]model.Geofence
	alerts    map[string]model.Alert
	now       func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		drones:    make(map[string]model.Drone),
		missions:  make(map[string]model.Mission),
		telemetry: make(map[string][]model.TelemetrySample),
		geofences: make(map[string]model.Geofence),
		alerts:    make(map[string]model.Alert),
		now:       time.Now,
	}
}

// Drones returns all drone records.
func (s *Store) Drones() []model.Drone {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Drone, 0, len(s.drones))
	for _, d := range s.drones {
		out = append(out, d)
	}
	return out
}

// Drone returns one drone by id.
func (s *Store) Drone(id string) (model.Drone, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drones[id]
	return d, ok
}

// CreateDrone inserts a drone. The id is operator-assigned and must be
// unique; a duplicate id is rejected.
func (s *Store) CreateDrone(d model.Drone) (model.Drone, error) {
	if d.ID == "" {
		return model.Drone{}, errors.New("drone id required")
	}
	if d.Name == "" || d.Model == "" {
		return model.Drone{}, errors.New("drone name and model required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.drones[d.ID]; exists {
		return model.Drone{}, fmt.Errorf("drone %s already exists", d.ID)
	}
	if d.Status == "" {
		d.Status = model.StatusOffline
	}
	now := s.now()
	d.CreatedAt = now
	d.LastSeen = now
	s.drones[d.ID] = d
	return d, nil
}

// UpdateDrone applies a partial update and refreshes LastSeen.
func (s *Store) UpdateDrone(id string, patch model.DronePatch) (model.Drone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drones[id]
	if !ok {
		return model.Drone{}, ErrNotFound
	}
	patch.Apply(&d)
	d.LastSeen = s.now()
	s.drones[id] = d
	return d, nil
}

// Missions returns all mission records.
func (s *Store) Missions() []model.Mission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Mission, 0, len(s.missions))
	for _, m := range s.missions {
		out = append(out, m)
	}
	return out
}

// Mission returns one mission by id.
func (s *Store) Mission(id string) (model.Mission, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.missions[id]
	return m, ok
}

// CreateMission inserts a mission with a generated id.
func (s *Store) CreateMission(m model.Mission) (model.Mission, error) {
	if m.Name == "" {
		return model.Mission{}, errors.New("mission name required")
	}
	if len(m.Waypoints) < 2 {
		return model.Mission{}, errors.New("mission requires at least 2 waypoints")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = uuid.New().String()
	if m.Status == "" {
		m.Status = model.MissionPlanned
	}
	m.Progress = 0
	now := s.now()
	m.CreatedAt = now
	m.UpdatedAt = now
	s.missions[m.ID] = m
	return m, nil
}

// UpdateMission applies a partial update and refreshes UpdatedAt.
func (s *Store) UpdateMission(id string, patch model.MissionPatch) (model.Mission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.missions[id]
	if !ok {
		return model.Mission{}, ErrNotFound
	}
	patch.Apply(&m)
	m.UpdatedAt = s.now()
	s.missions[id] = m
	return m, nil
}

// DeleteMission removes a mission and reports whether it existed.
func (s *Store) DeleteMission(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.missions[id]; !ok {
		return false
	}
	delete(s.missions, id)
	return true
}

// Telemetry returns up to limit of the most recent samples for a drone,
// oldest first. A non-positive limit defaults to 100.
func (s *Store) Telemetry(droneID string, limit int) []model.TelemetrySample {
	if limit <= 0 {
		limit = 100
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data := s.telemetry[droneID]
	if len(data) > limit {
		data = data[len(data)-limit:]
	}
	out := make([]model.TelemetrySample, len(data))
	copy(out, data)
	return out
}

// AddTelemetry appends a sample to the drone's history, assigning id and
// timestamp, and enforces the per-drone cap.
func (s *Store) AddTelemetry(sample model.TelemetrySample) (model.TelemetrySample, error) {
	if sample.DroneID == "" {
		return model.TelemetrySample{}, errors.New("telemetry drone id required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sample.ID = uuid.New().String()
	if sample.Timestamp.IsZero() {
		sample.Timestamp = s.now()
	}
	data := append(s.telemetry[sample.DroneID], sample)
	if len(data) > telemetryCap {
		data = data[len(data)-telemetryCap:]
	}
	s.telemetry[sample.DroneID] = data
	return sample, nil
}

// Geofences returns all geofence records.
func (s *Store) Geofences() []model.Geofence {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Geofence, 0, len(s.geofences))
	for _, g := range s.geofences {
		out = append(out, g)
	}
	return out
}

// Geofence returns one geofence by id.
func (s *Store) Geofence(id string) (model.Geofence, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.geofences[id]
	return g, ok
}

// CreateGeofence inserts a geofence with a generated id.
func (s *Store) CreateGeofence(g model.Geofence) (model.Geofence, error) {
	if g.Name == "" {
		return model.Geofence{}, errors.New("geofence name required")
	}
	if len(g.Coordinates) < 3 {
		return model.Geofence{}, errors.New("geofence requires at least 3 vertices")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	g.ID = uuid.New().String()
	if g.MaxAltitude == 0 {
		g.MaxAltitude = 400
	}
	g.CreatedAt = s.now()
	s.geofences[g.ID] = g
	return g, nil
}

// UpdateGeofence applies a partial update.
func (s *Store) UpdateGeofence(id string, patch model.GeofencePatch) (model.Geofence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.geofences[id]
	if !ok {
		return model.Geofence{}, ErrNotFound
	}
	patch.Apply(&g)
	s.geofences[id] = g
	return g, nil
}

// DeleteGeofence removes a geofence and reports whether it existed.
func (s *Store) DeleteGeofence(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.geofences[id]; !ok {
		return false
	}
	delete(s.geofences, id)
	return true
}

// Alerts returns all alerts, or only those for droneID when it is non-empty.
func (s *Store) Alerts(droneID string) []model.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Alert, 0, len(s.alerts))
	for _, a := range s.alerts {
		if droneID != "" && a.DroneID != droneID {
			continue
		}
		out = append(out, a)
	}
	return out
}

// CreateAlert inserts an alert with a generated id, unacknowledged.
func (s *Store) CreateAlert(a model.Alert) (model.Alert, error) {
	if a.Type == "" || a.Severity == "" {
		return model.Alert{}, errors.New("alert type and severity required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = uuid.New().String()
	a.Acknowledged = false
	a.CreatedAt = s.now()
	s.alerts[a.ID] = a
	return a, nil
}

// AcknowledgeAlert marks an alert acknowledged. The transition is one-way.
// It reports whether the alert existed.
func (s *Store) AcknowledgeAlert(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.alerts[id]
	if !ok {
		return false
	}
	a.Acknowledged = true
	s.alerts[id] = a
	return true
}

// Snapshot returns the full store state for a newly joined observer.
func (s *Store) Snapshot() model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := model.Snapshot{
		Drones:    make([]model.Drone, 0, len(s.drones)),
		Missions:  make([]model.Mission, 0, len(s.missions)),
		Geofences: make([]model.Geofence, 0, len(s.geofences)),
		Alerts:    make([]model.Alert, 0, len(s.alerts)),
	}
	for _, d := range s.drones {
		snap.Drones = append(snap.Drones, d)
	}
	for _, m := range s.missions {
		snap.Missions = append(snap.Missions, m)
	}
	for _, g := range s.geofences {
		snap.Geofences = append(snap.Geofences, g)
	}
	for _, a := range s.alerts {
		snap.Alerts = append(snap.Alerts, a)
	}
	return snap
}
