// Entity types shared by the store, engine, and wire protocol.
package model

import "time"

// Drone status constants.
const (
	StatusOffline     = "offline"
	StatusIdle        = "idle"
	StatusActive      = "active"
	StatusMission     = "mission"
	StatusWarning     = "warning"
	StatusError       = "error"
	StatusCalibrating = "calibrating"
)

// Mission status constants.
const (
	MissionPlanned   = "planned"
	MissionActive    = "active"
	MissionPaused    = "paused"
	MissionCompleted = "completed"
	MissionCancelled = "cancelled"
)

// Geofence restriction types.
const (
	FenceNoFly      = "no_fly"
	FenceRestricted = "restricted"
	FenceWarning    = "warning"
)

// Alert types.
const (
	AlertBatteryLow          = "battery_low"
	AlertSignalWeak          = "signal_weak"
	AlertGeofenceViolation   = "geofence_violation"
	AlertMaintenanceRequired = "maintenance_required"
)

// Alert severities.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Coordinate is a geographic point without altitude.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Waypoint is one point of a mission path.
type Waypoint struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Altitude float64 `json:"altitude"`
}

// Drone holds the live state of one vehicle. The record is never deleted,
// only updated; the synthesizer and mission transitions overwrite its
// kinematic fields.
type Drone struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Model          string    `json:"model"`
	Status         string    `json:"status"`
	Battery        float64   `json:"battery"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	Altitude       float64   `json:"altitude"`
	Speed          float64   `json:"speed"`
	Heading        float64   `json:"heading"`
	SignalStrength float64   `json:"signalStrength"`
	LastSeen       time.Time `json:"lastSeen"`
	CreatedAt      time.Time `json:"createdAt"`
}

// TelemetrySample is one immutable observation of a drone's state.
type TelemetrySample struct {
	ID             string    `json:"id"`
	DroneID        string    `json:"droneId"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	Altitude       float64   `json:"altitude"`
	Speed          float64   `json:"speed"`
	Heading        float64   `json:"heading"`
	Battery        float64   `json:"battery"`
	SignalStrength float64   `json:"signalStrength"`
	Timestamp      time.Time `json:"timestamp"`
}

// Geofence is a restricted-airspace polygon with a vertical band.
type Geofence struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Type        string       `json:"type"`
	Coordinates []Coordinate `json:"coordinates"`
	MinAltitude float64      `json:"minAltitude"`
	MaxAltitude float64      `json:"maxAltitude"`
	Active      bool         `json:"active"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// Mission is a planned flight path for one drone.
type Mission struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	DroneID     string     `json:"droneId,omitempty"`
	Status      string     `json:"status"`
	Type        string     `json:"type"`
	Waypoints   []Waypoint `json:"waypoints"`
	Altitude    float64    `json:"altitude"`
	Speed       float64    `json:"speed"`
	StartTime   *time.Time `json:"startTime,omitempty"`
	EndTime     *time.Time `json:"endTime,omitempty"`
	Progress    float64    `json:"progress"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Alert is a derived condition raised against a drone or the fleet.
// Acknowledgment is one-way; there is no re-open.
type Alert struct {
	ID           string    `json:"id"`
	DroneID      string    `json:"droneId,omitempty"`
	Type         string    `json:"type"`
	Severity     string    `json:"severity"`
	Title        string    `json:"title"`
	Message      string    `json:"message"`
	Acknowledged bool      `json:"acknowledged"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Conflict is one (geofence, waypoint) intersection found by the
// airspace check.
type Conflict struct {
	GeofenceID   string     `json:"geofenceId"`
	GeofenceName string     `json:"geofenceName"`
	Type         string     `json:"type"`
	Waypoint     Coordinate `json:"waypoint"`
}

// ConflictReport is the result of checking a candidate path.
type ConflictReport struct {
	HasConflicts bool       `json:"hasConflicts"`
	Conflicts    []Conflict `json:"conflicts"`
}

// Snapshot is the initial_data payload pushed to a newly joined observer.
type Snapshot struct {
	Drones    []Drone    `json:"drones"`
	Missions  []Mission  `json:"missions"`
	Geofences []Geofence `json:"geofences"`
	Alerts    []Alert    `json:"alerts"`
}
