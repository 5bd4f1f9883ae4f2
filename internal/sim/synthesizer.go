// Periodic telemetry synthesis for active drones.
package sim

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"fleetops-server/internal/alerting"
	"fleetops-server/internal/logging"
	"fleetops-server/internal/model"
	"fleetops-server/internal/sink"
	"fleetops-server/internal/store"
)

// Broadcaster receives store-affecting events for fan-out to observers.
type Broadcaster interface {
	BroadcastTelemetry(model.TelemetrySample)
	BroadcastDrone(model.Drone)
	BroadcastAlert(model.Alert)
}

// Perturbation step sizes per tick.
const (
	latLngStep   = 0.001 // degrees, centered
	altitudeStep = 5.0   // meters, centered
	speedStep    = 5.0   // m/s, centered, floored at 0
	headingStep  = 10.0  // degrees, centered, wrapped mod 360
	signalStep   = 5.0   // dBm, centered
	batteryDrain = 0.1   // max % per tick, monotonic down, floored at 0
)

// Synthesizer perturbs each active drone's kinematic state on a fixed
// interval, persists the sample, projects it onto the drone record, exports
// it, and evaluates alert thresholds. Per-drone failures are isolated: one
// drone's error never blocks the rest of the fleet.
type Synthesizer struct {
	store        *store.Store
	monitor      *alerting.Monitor
	sink         sink.Sink
	broadcaster  Broadcaster
	tickInterval time.Duration
	rand         *rand.Rand
}

// New creates a Synthesizer. The sink may be nil to disable export.
func New(s *store.Store, monitor *alerting.Monitor, snk sink.Sink, bc Broadcaster, tickInterval time.Duration) *Synthesizer {
	if tickInterval <= 0 {
		tickInterval = 2 * time.Second
	}
	return &Synthesizer{
		store:        s,
		monitor:      monitor,
		sink:         snk,
		broadcaster:  bc,
		tickInterval: tickInterval,
		rand:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run starts the synthesis loop and stops when the context is done.
func (s *Synthesizer) Run(ctx context.Context) {
	log := logging.FromContext(ctx)
	log.Info("starting telemetry synthesizer", "tick_interval", s.tickInterval)
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-ctx.Done():
			log.Info("stopping telemetry synthesizer")
			return
		}
	}
}

// tick processes every flying drone once. Errors are logged per drone and
// the loop continues.
func (s *Synthesizer) tick(ctx context.Context) {
	log := logging.FromContext(ctx)
	for _, drone := range s.store.Drones() {
		if drone.Status != model.StatusActive && drone.Status != model.StatusMission {
			continue
		}
		if err := s.step(log, drone); err != nil {
			log.Error("telemetry step failed", "drone_id", drone.ID, "err", err)
		}
	}
}

// step synthesizes one sample for one drone and runs the downstream chain:
// persist, project onto the drone record, export, broadcast, evaluate alerts.
func (s *Synthesizer) step(log *slog.Logger, drone model.Drone) error {
	sample := s.perturb(drone)

	saved, err := s.store.AddTelemetry(sample)
	if err != nil {
		return err
	}

	updated, err := s.store.UpdateDrone(drone.ID, projection(saved))
	if err != nil {
		return err
	}

	if s.sink != nil {
		// Export failures do not stop distribution to observers.
		if err := s.sink.Write(saved); err != nil {
			log.Error("telemetry export failed", "drone_id", drone.ID, "err", err)
		}
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastTelemetry(saved)
	}

	if s.monitor != nil {
		for _, alert := range s.monitor.Evaluate(updated, saved) {
			log.Warn("alert raised", "drone_id", alert.DroneID, "type", alert.Type, "severity", alert.Severity)
			if s.broadcaster != nil {
				s.broadcaster.BroadcastAlert(alert)
			}
		}
	}
	return nil
}

// perturb draws the drone's next state as small independent random steps
// from its previous state.
func (s *Synthesizer) perturb(drone model.Drone) model.TelemetrySample {
	return model.TelemetrySample{
		DroneID:        drone.ID,
		Latitude:       drone.Latitude + (s.rand.Float64()-0.5)*latLngStep,
		Longitude:      drone.Longitude + (s.rand.Float64()-0.5)*latLngStep,
		Altitude:       drone.Altitude + (s.rand.Float64()-0.5)*altitudeStep,
		Speed:          math.Max(0, drone.Speed+(s.rand.Float64()-0.5)*speedStep),
		Heading:        wrapHeading(drone.Heading + (s.rand.Float64()-0.5)*headingStep),
		Battery:        math.Max(0, drone.Battery-s.rand.Float64()*batteryDrain),
		SignalStrength: drone.SignalStrength + (s.rand.Float64()-0.5)*signalStep,
	}
}

// projection maps a telemetry sample back onto the drone's live fields.
func projection(sample model.TelemetrySample) model.DronePatch {
	return model.DronePatch{
		Latitude:       &sample.Latitude,
		Longitude:      &sample.Longitude,
		Altitude:       &sample.Altitude,
		Speed:          &sample.Speed,
		Heading:        &sample.Heading,
		Battery:        &sample.Battery,
		SignalStrength: &sample.SignalStrength,
	}
}

// wrapHeading maps a heading into [0,360).
func wrapHeading(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}
