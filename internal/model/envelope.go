package model

import "encoding/json"

// Observer channel message types.
const (
	MsgInitialData     = "initial_data"
	MsgTelemetryUpdate = "telemetry_update"
	MsgDroneUpdate     = "drone_update"
	MsgAlert           = "alert"
	MsgPing            = "ping"
	MsgPong            = "pong"
	MsgTelemetry       = "telemetry"
)

// Envelope is the JSON frame exchanged on the observer channel.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// InboundEnvelope defers decoding of the payload until the type is known.
type InboundEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}
