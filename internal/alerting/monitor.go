// Telemetry-driven alert rules with per-drone de-duplication.
package alerting

import (
	"fmt"
	"math"

	"fleetops-server/internal/airspace"
	"fleetops-server/internal/model"
	"fleetops-server/internal/store"
)

// Battery band: a sample strictly inside (lowBattery, warnBattery) raises a
// low-battery warning. Both bounds are exclusive, so the rule stops firing
// once battery sits at or below the floor. A drain step large enough to skip
// the band entirely raises nothing.
const (
	lowBattery  = 20.0
	warnBattery = 25.0
)

// weakSignal is the dBm floor below which a signal_weak warning is raised.
const weakSignal = -80.0

// Monitor evaluates alert thresholds after each telemetry sample. Creation
// is suppressed while an unacknowledged alert of the same (drone, type)
// already exists; the suppression key is never the numeric value, so one
// warning persists until acknowledged even as the reading keeps degrading.
type Monitor struct {
	store *store.Store
}

// NewMonitor returns a Monitor backed by the given store.
func NewMonitor(s *store.Store) *Monitor {
	return &Monitor{store: s}
}

// Evaluate runs all rules against one sample and returns the alerts it
// created, already persisted.
func (m *Monitor) Evaluate(drone model.Drone, sample model.TelemetrySample) []model.Alert {
	var created []model.Alert

	if sample.Battery > lowBattery && sample.Battery < warnBattery {
		if a, ok := m.raise(drone.ID, model.AlertBatteryLow, model.SeverityWarning,
			"Low Battery Warning",
			fmt.Sprintf("%s battery at %d%%. Return to base recommended.", drone.ID, int(math.Round(sample.Battery)))); ok {
			created = append(created, a)
		}
	}

	if sample.SignalStrength < weakSignal {
		if a, ok := m.raise(drone.ID, model.AlertSignalWeak, model.SeverityWarning,
			"Weak Signal",
			fmt.Sprintf("%s signal at %.0f dBm. Link degradation likely.", drone.ID, sample.SignalStrength)); ok {
			created = append(created, a)
		}
	}

	pos := model.Coordinate{Lat: sample.Latitude, Lng: sample.Longitude}
	for _, fence := range m.store.Geofences() {
		if !airspace.InsideFence(pos, sample.Altitude, fence) {
			continue
		}
		if a, ok := m.raise(drone.ID, model.AlertGeofenceViolation, model.SeverityCritical,
			"Geofence Violation",
			fmt.Sprintf("%s entered %s at %.0fm altitude.", drone.ID, fence.Name, sample.Altitude)); ok {
			created = append(created, a)
		}
		break
	}

	return created
}

// raise creates an alert unless an unacknowledged one of the same type is
// already outstanding for the drone.
func (m *Monitor) raise(droneID, alertType, severity, title, message string) (model.Alert, bool) {
	for _, a := range m.store.Alerts(droneID) {
		if a.Type == alertType && !a.Acknowledged {
			return model.Alert{}, false
		}
	}
	alert, err := m.store.CreateAlert(model.Alert{
		DroneID:  droneID,
		Type:     alertType,
		Severity: severity,
		Title:    title,
		Message:  message,
	})
	if err != nil {
		return model.Alert{}, false
	}
	return alert, true
}
