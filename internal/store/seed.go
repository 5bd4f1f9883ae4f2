package store

import "fleetops-server/internal/model"

// SeedDemo loads the demonstration fleet: three drones around San
// Francisco, two restricted zones, and one outstanding low-battery alert.
// Used when the config file defines no fleet of its own.
func (s *Store) SeedDemo() {
	drones := []model.Drone{
		{
			ID: "DRN-001", Name: "Scout Alpha", Model: "DJI Mavic 3",
			Status: model.StatusActive, Battery: 87,
			Latitude: 37.7749, Longitude: -122.4194, Altitude: 120,
			Speed: 25, Heading: 45, SignalStrength: -65,
		},
		{
			ID: "DRN-002", Name: "Survey Beta", Model: "DJI Phantom 4",
			Status: model.StatusMission, Battery: 65,
			Latitude: 37.7849, Longitude: -122.4094, Altitude: 85,
			Speed: 18, Heading: 120, SignalStrength: -58,
		},
		{
			ID: "DRN-003", Name: "Patrol Gamma", Model: "Autel EVO II",
			Status: model.StatusWarning, Battery: 23,
			Latitude: 37.7649, Longitude: -122.4294, Altitude: 200,
			Speed: 32, Heading: 270, SignalStrength: -72,
		},
	}
	for _, d := range drones {
		s.CreateDrone(d)
	}

	s.CreateGeofence(model.Geofence{
		Name: "Airport No-Fly Zone",
		Type: model.FenceNoFly,
		Coordinates: []model.Coordinate{
			{Lat: 37.7849, Lng: -122.4394},
			{Lat: 37.7949, Lng: -122.4394},
			{Lat: 37.7949, Lng: -122.4194},
			{Lat: 37.7849, Lng: -122.4194},
		},
		MinAltitude: 0, MaxAltitude: 400, Active: true,
	})
	s.CreateGeofence(model.Geofence{
		Name: "Military Base Restricted",
		Type: model.FenceRestricted,
		Coordinates: []model.Coordinate{
			{Lat: 37.7549, Lng: -122.4494},
			{Lat: 37.7649, Lng: -122.4494},
			{Lat: 37.7649, Lng: -122.4294},
			{Lat: 37.7549, Lng: -122.4294},
		},
		MinAltitude: 0, MaxAltitude: 200, Active: true,
	})

	s.CreateAlert(model.Alert{
		DroneID:  "DRN-003",
		Type:     model.AlertBatteryLow,
		Severity: model.SeverityWarning,
		Title:    "Low Battery Warning",
		Message:  "DRN-003 battery at 23%. Return to base recommended.",
	})
}
