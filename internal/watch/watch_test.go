package watch

import (
	"encoding/json"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"fleetops-server/internal/model"
)

type captureProgram struct {
	msgs []tea.Msg
}

func (p *captureProgram) Send(msg tea.Msg) { p.msgs = append(p.msgs, msg) }

func envelope(t *testing.T, typ string, data any) []byte {
	t.Helper()
	raw, err := json.Marshal(model.Envelope{Type: typ, Data: data})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return raw
}

func TestDispatchDecodesFrames(t *testing.T) {
	p := &captureProgram{}
	c := &Client{program: p}

	c.dispatch(envelope(t, model.MsgInitialData, model.Snapshot{
		Drones: []model.Drone{{ID: "d1"}},
	}))
	c.dispatch(envelope(t, model.MsgTelemetryUpdate, model.TelemetrySample{DroneID: "d1", Battery: 50}))
	c.dispatch(envelope(t, model.MsgDroneUpdate, model.Drone{ID: "d1", Status: model.StatusActive}))
	c.dispatch(envelope(t, model.MsgAlert, model.Alert{DroneID: "d1", Severity: model.SeverityWarning}))
	c.dispatch(envelope(t, model.MsgPong, nil))
	c.dispatch([]byte("not json"))

	if len(p.msgs) != 4 {
		t.Fatalf("expected 4 forwarded messages, got %d", len(p.msgs))
	}
	if snap, ok := p.msgs[0].(snapshotMsg); !ok || len(snap.Drones) != 1 {
		t.Errorf("first message should be the snapshot, got %#v", p.msgs[0])
	}
	if sample, ok := p.msgs[1].(telemetryMsg); !ok || sample.Battery != 50 {
		t.Errorf("second message should be telemetry, got %#v", p.msgs[1])
	}
}

func TestModelTracksFleetState(t *testing.T) {
	var m tea.Model = NewModel()

	m, _ = m.Update(snapshotMsg{model.Snapshot{
		Drones: []model.Drone{{ID: "d1", Name: "Alpha", Battery: 90}},
		Alerts: []model.Alert{{DroneID: "d1", Severity: model.SeverityWarning, Message: "low", CreatedAt: time.Now()}},
	}})
	m, _ = m.Update(telemetryMsg{model.TelemetrySample{DroneID: "d1", Battery: 88}})
	m, _ = m.Update(alertMsg{model.Alert{DroneID: "d1", Severity: model.SeverityCritical, Message: "fence"}})

	mm := m.(Model)
	if mm.drones["d1"].Battery != 88 {
		t.Errorf("telemetry should project onto the drone row, battery=%v", mm.drones["d1"].Battery)
	}
	if mm.samples != 1 || mm.alerts != 1 {
		t.Errorf("counters samples=%d alerts=%d", mm.samples, mm.alerts)
	}
	if len(mm.logs) != 2 {
		t.Errorf("expected 2 log lines (snapshot alert + live alert), got %d", len(mm.logs))
	}
}

func TestModelQuitKeys(t *testing.T) {
	m := NewModel()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should quit")
	}
}

func TestDisconnectedMarksFeedDown(t *testing.T) {
	var m tea.Model = NewModel()
	m, _ = m.Update(disconnectedMsg{})
	if m.(Model).connected {
		t.Error("model should mark the feed as down")
	}
}
