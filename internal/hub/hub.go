// Broadcast hub: fans store-change events out to observer connections.
package hub

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"fleetops-server/internal/alerting"
	"fleetops-server/internal/model"
	"fleetops-server/internal/store"
)

// Hub maintains the set of live observer connections and multiplexes
// events to all of them. Sends are best-effort per connection: a slow or
// dead observer never stalls delivery to the rest.
type Hub struct {
	store    *store.Store
	monitor  *alerting.Monitor
	log      *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*Client]struct{}
}

// New creates a Hub. The monitor may be nil to disable alert evaluation on
// externally ingested telemetry.
func New(st *store.Store, monitor *alerting.Monitor, log *slog.Logger) *Hub {
	return &Hub{
		store:   st,
		monitor: monitor,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*Client]struct{}),
	}
}

// HandleWS upgrades an HTTP request to a websocket observer connection.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", "remote_addr", r.RemoteAddr, "err", err)
		return
	}
	h.log.Info("observer connected", "remote_addr", r.RemoteAddr)

	client := newClient(h, conn)
	h.register(client)
	go client.writePump()
	go client.readPump()
}

// register queues the initial_data snapshot before the client joins the
// broadcast set, so the snapshot is always the first message it receives
// and reflects store state at connection time.
func (h *Hub) register(c *Client) {
	snapshot, err := json.Marshal(model.Envelope{
		Type: model.MsgInitialData,
		Data: h.store.Snapshot(),
	})
	if err != nil {
		h.log.Error("snapshot encode failed", "err", err)
	} else {
		c.enqueue(snapshot)
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// unregister removes the client from the broadcast set and closes its
// outbound queue. Safe to call more than once per client.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		c.close()
		h.log.Info("observer disconnected")
	}
}

// ClientCount returns the number of currently registered observers.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// BroadcastTelemetry sends one telemetry sample to all observers.
func (h *Hub) BroadcastTelemetry(sample model.TelemetrySample) {
	h.broadcast(model.Envelope{Type: model.MsgTelemetryUpdate, Data: sample})
}

// BroadcastDrone sends one full drone record to all observers.
func (h *Hub) BroadcastDrone(drone model.Drone) {
	h.broadcast(model.Envelope{Type: model.MsgDroneUpdate, Data: drone})
}

// BroadcastAlert sends one alert record to all observers.
func (h *Hub) BroadcastAlert(alert model.Alert) {
	h.broadcast(model.Envelope{Type: model.MsgAlert, Data: alert})
}

// broadcast marshals the envelope once and enqueues it to every open
// connection. Enqueueing never blocks; per-connection overflow drops the
// oldest queued message.
func (h *Hub) broadcast(env model.Envelope) {
	msg, err := json.Marshal(env)
	if err != nil {
		h.log.Error("broadcast encode failed", "type", env.Type, "err", err)
		return
	}

	h.mu.Lock()
	targets := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.Unlock()

	for _, c := range targets {
		c.enqueue(msg)
	}
}

// ingest handles an external telemetry sample received from an observer
// connection: persist, project onto the drone record, broadcast, and run
// the alert rules.
func (h *Hub) ingest(raw json.RawMessage) {
	var sample model.TelemetrySample
	if err := json.Unmarshal(raw, &sample); err != nil {
		h.log.Error("telemetry ingest decode failed", "err", err)
		return
	}

	saved, err := h.store.AddTelemetry(sample)
	if err != nil {
		h.log.Error("telemetry ingest rejected", "err", err)
		return
	}

	updated, err := h.store.UpdateDrone(saved.DroneID, model.DronePatch{
		Latitude:       &saved.Latitude,
		Longitude:      &saved.Longitude,
		Altitude:       &saved.Altitude,
		Speed:          &saved.Speed,
		Heading:        &saved.Heading,
		Battery:        &saved.Battery,
		SignalStrength: &saved.SignalStrength,
	})
	if err != nil {
		h.log.Error("telemetry ingest drone update failed", "drone_id", saved.DroneID, "err", err)
		return
	}

	h.BroadcastTelemetry(saved)

	if h.monitor != nil {
		for _, alert := range h.monitor.Evaluate(updated, saved) {
			h.BroadcastAlert(alert)
		}
	}
}
