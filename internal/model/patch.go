package model

import "time"

// DronePatch carries a partial drone update. Nil fields are left untouched.
type DronePatch struct {
	Name           *string  `json:"name,omitempty"`
	Model          *string  `json:"model,omitempty"`
	Status         *string  `json:"status,omitempty"`
	Battery        *float64 `json:"battery,omitempty"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	Altitude       *float64 `json:"altitude,omitempty"`
	Speed          *float64 `json:"speed,omitempty"`
	Heading        *float64 `json:"heading,omitempty"`
	SignalStrength *float64 `json:"signalStrength,omitempty"`
}

// Apply copies the non-nil fields onto d.
func (p DronePatch) Apply(d *Drone) {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Model != nil {
		d.Model = *p.Model
	}
	if p.Status != nil {
		d.Status = *p.Status
	}
	if p.Battery != nil {
		d.Battery = *p.Battery
	}
	if p.Latitude != nil {
		d.Latitude = *p.Latitude
	}
	if p.Longitude != nil {
		d.Longitude = *p.Longitude
	}
	if p.Altitude != nil {
		d.Altitude = *p.Altitude
	}
	if p.Speed != nil {
		d.Speed = *p.Speed
	}
	if p.Heading != nil {
		d.Heading = *p.Heading
	}
	if p.SignalStrength != nil {
		d.SignalStrength = *p.SignalStrength
	}
}

// MissionPatch carries a partial mission update.
type MissionPatch struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	DroneID     *string    `json:"droneId,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Waypoints   []Waypoint `json:"waypoints,omitempty"`
	Altitude    *float64   `json:"altitude,omitempty"`
	Speed       *float64   `json:"speed,omitempty"`
	StartTime   *time.Time `json:"startTime,omitempty"`
	EndTime     *time.Time `json:"endTime,omitempty"`
	Progress    *float64   `json:"progress,omitempty"`
}

// Apply copies the non-nil fields onto m.
func (p MissionPatch) Apply(m *Mission) {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Description != nil {
		m.Description = *p.Description
	}
	if p.DroneID != nil {
		m.DroneID = *p.DroneID
	}
	if p.Status != nil {
		m.Status = *p.Status
	}
	if p.Waypoints != nil {
		m.Waypoints = p.Waypoints
	}
	if p.Altitude != nil {
		m.Altitude = *p.Altitude
	}
	if p.Speed != nil {
		m.Speed = *p.Speed
	}
	if p.StartTime != nil {
		m.StartTime = p.StartTime
	}
	if p.EndTime != nil {
		m.EndTime = p.EndTime
	}
	if p.Progress != nil {
		m.Progress = *p.Progress
	}
}

// GeofencePatch carries a partial geofence update.
type GeofencePatch struct {
	Name        *string      `json:"name,omitempty"`
	Type        *string      `json:"type,omitempty"`
	Coordinates []Coordinate `json:"coordinates,omitempty"`
	MinAltitude *float64     `json:"minAltitude,omitempty"`
	MaxAltitude *float64     `json:"maxAltitude,omitempty"`
	Active      *bool        `json:"active,omitempty"`
}

// Apply copies the non-nil fields onto g.
func (p GeofencePatch) Apply(g *Geofence) {
	if p.Name != nil {
		g.Name = *p.Name
	}
	if p.Type != nil {
		g.Type = *p.Type
	}
	if p.Coordinates != nil {
		g.Coordinates = p.Coordinates
	}
	if p.MinAltitude != nil {
		g.MinAltitude = *p.MinAltitude
	}
	if p.MaxAltitude != nil {
		g.MaxAltitude = *p.MaxAltitude
	}
	if p.Active != nil {
		g.Active = *p.Active
	}
}
