package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	"fleetops-server/internal/alerting"
	"fleetops-server/internal/model"
	"fleetops-server/internal/store"
)

// mockBroadcaster records broadcast events for validation.
type mockBroadcaster struct {
	telemetry []model.TelemetrySample
	drones    []model.Drone
	alerts    []model.Alert
}

func (m *mockBroadcaster) BroadcastTelemetry(s model.TelemetrySample) {
	m.telemetry = append(m.telemetry, s)
}
func (m *mockBroadcaster) BroadcastDrone(d model.Drone) { m.drones = append(m.drones, d) }
func (m *mockBroadcaster) BroadcastAlert(a model.Alert) { m.alerts = append(m.alerts, a) }

// mockSink fails for one drone id to exercise failure isolation.
type mockSink struct {
	failFor string
	samples []model.TelemetrySample
}

func (m *mockSink) Write(s model.TelemetrySample) error {
	if s.DroneID == m.failFor {
		return errors.New("sink unavailable")
	}
	m.samples = append(m.samples, s)
	return nil
}

func seedDrone(t *testing.T, s *store.Store, id, status string, battery float64) {
	t.Helper()
	_, err := s.CreateDrone(model.Drone{
		ID: id, Name: "n-" + id, Model: "small-fpv", Status: status,
		Battery: battery, Latitude: 48.2082, Longitude: 16.3738, Altitude: 100,
		Speed: 10, Heading: 90, SignalStrength: -60,
	})
	if err != nil {
		t.Fatalf("seed drone %s: %v", id, err)
	}
}

func testCtx() context.Context {
	return context.Background()
}

func TestTickOnlyTouchesFlyingDrones(t *testing.T) {
	st := store.New()
	seedDrone(t, st, "d1", model.StatusActive, 90)
	seedDrone(t, st, "d2", model.StatusMission, 90)
	seedDrone(t, st, "d3", model.StatusIdle, 90)
	seedDrone(t, st, "d4", model.StatusOffline, 90)

	bc := &mockBroadcaster{}
	syn := New(st, alerting.NewMonitor(st), nil, bc, time.Second)
	syn.tick(testCtx())

	if len(bc.telemetry) != 2 {
		t.Fatalf("expected telemetry for 2 flying drones, got %d", len(bc.telemetry))
	}
	if len(st.Telemetry("d3", 10)) != 0 || len(st.Telemetry("d4", 10)) != 0 {
		t.Error("idle/offline drones must not receive samples")
	}
}

func TestStepProjectsSampleOntoDrone(t *testing.T) {
	st := store.New()
	seedDrone(t, st, "d1", model.StatusActive, 90)

	bc := &mockBroadcaster{}
	syn := New(st, alerting.NewMonitor(st), nil, bc, time.Second)
	syn.tick(testCtx())

	history := st.Telemetry("d1", 10)
	if len(history) != 1 {
		t.Fatalf("expected 1 sample, got %d", len(history))
	}
	sample := history[0]
	drone, _ := st.Drone("d1")
	if drone.Latitude != sample.Latitude || drone.Battery != sample.Battery {
		t.Errorf("drone record not projected from sample: drone=%+v sample=%+v", drone, sample)
	}
	if drone.Battery > 90 {
		t.Errorf("battery must not increase: %f", drone.Battery)
	}
}

func TestPerturbBounds(t *testing.T) {
	st := store.New()
	syn := New(st, nil, nil, nil, time.Second)

	drone := model.Drone{
		ID: "d1", Battery: 0.01, Speed: 0.1, Heading: 359.9, SignalStrength: -60,
	}
	for i := 0; i < 1000; i++ {
		sample := syn.perturb(drone)
		if sample.Battery < 0 || sample.Battery > drone.Battery {
			t.Fatalf("battery out of range: %f", sample.Battery)
		}
		if sample.Speed < 0 {
			t.Fatalf("speed went negative: %f", sample.Speed)
		}
		if sample.Heading < 0 || sample.Heading >= 360 {
			t.Fatalf("heading not wrapped into [0,360): %f", sample.Heading)
		}
	}
}

func TestWrapHeading(t *testing.T) {
	cases := map[float64]float64{
		0: 0, 359: 359, 360: 0, 365: 5, -5: 355, 725: 5,
	}
	for in, want := range cases {
		if got := wrapHeading(in); got != want {
			t.Errorf("wrapHeading(%v)=%v, want %v", in, got, want)
		}
	}
}

func TestSinkFailureDoesNotBlockOtherDrones(t *testing.T) {
	st := store.New()
	seedDrone(t, st, "d1", model.StatusActive, 90)
	seedDrone(t, st, "d2", model.StatusActive, 90)

	snk := &mockSink{failFor: "d1"}
	bc := &mockBroadcaster{}
	syn := New(st, alerting.NewMonitor(st), snk, bc, time.Second)
	syn.tick(testCtx())

	if len(bc.telemetry) != 2 {
		t.Fatalf("both drones must still broadcast, got %d", len(bc.telemetry))
	}
	if len(snk.samples) != 1 {
		t.Fatalf("healthy drone must still export, got %d", len(snk.samples))
	}
}

func TestLowBatteryAlertBroadcast(t *testing.T) {
	st := store.New()
	seedDrone(t, st, "d1", model.StatusActive, 24.5)

	bc := &mockBroadcaster{}
	syn := New(st, alerting.NewMonitor(st), nil, bc, time.Second)
	syn.tick(testCtx())
	syn.tick(testCtx())

	if len(bc.alerts) != 1 {
		t.Fatalf("expected exactly one deduplicated alert, got %d", len(bc.alerts))
	}
	if bc.alerts[0].Type != model.AlertBatteryLow {
		t.Errorf("expected battery_low, got %s", bc.alerts[0].Type)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	st := store.New()
	seedDrone(t, st, "d1", model.StatusActive, 90)

	syn := New(st, nil, nil, &mockBroadcaster{}, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		syn.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after context cancellation")
	}
	if len(st.Telemetry("d1", 100)) == 0 {
		t.Error("expected at least one synthesized sample")
	}
}
