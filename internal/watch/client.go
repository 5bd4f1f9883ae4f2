// Terminal observer client for the fleet operations websocket feed.
package watch

import (
	"encoding/json"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"

	"fleetops-server/internal/model"
)

const pingInterval = 30 * time.Second

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// snapshotMsg carries the initial_data state dump.
type snapshotMsg struct{ model.Snapshot }

// telemetryMsg carries one live telemetry sample.
type telemetryMsg struct{ model.TelemetrySample }

// droneMsg carries a drone record change.
type droneMsg struct{ model.Drone }

// alertMsg carries a raised alert.
type alertMsg struct{ model.Alert }

// disconnectedMsg reports the feed closing, with the read error if any.
type disconnectedMsg struct{ err error }

// Client reads the websocket feed and forwards decoded events to the TUI.
type Client struct {
	conn    *websocket.Conn
	program teaProgram
}

// Dial connects to the server's websocket endpoint.
func Dial(url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to %s: %w", url, err)
	}
	return &Client{conn: conn}, nil
}

// Run pumps decoded events into the program until the connection drops.
// It answers server liveness with app-level pings on a fixed interval.
func (c *Client) Run(p teaProgram) {
	c.program = p

	pings := time.NewTicker(pingInterval)
	defer pings.Stop()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-pings.C:
				ping, _ := json.Marshal(model.Envelope{Type: model.MsgPing})
				if err := c.conn.WriteMessage(websocket.TextMessage, ping); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			p.Send(disconnectedMsg{err: err})
			return
		}
		c.dispatch(raw)
	}
}

// Close tears down the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) dispatch(raw []byte) {
	var env model.InboundEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return
	}
	switch env.Type {
	case model.MsgInitialData:
		var snap model.Snapshot
		if json.Unmarshal(env.Data, &snap) == nil {
			c.program.Send(snapshotMsg{snap})
		}
	case model.MsgTelemetryUpdate:
		var sample model.TelemetrySample
		if json.Unmarshal(env.Data, &sample) == nil {
			c.program.Send(telemetryMsg{sample})
		}
	case model.MsgDroneUpdate:
		var drone model.Drone
		if json.Unmarshal(env.Data, &drone) == nil {
			c.program.Send(droneMsg{drone})
		}
	case model.MsgAlert:
		var alert model.Alert
		if json.Unmarshal(env.Data, &alert) == nil {
			c.program.Send(alertMsg{alert})
		}
	case model.MsgPong:
		// liveness answer, nothing to render
	}
}
