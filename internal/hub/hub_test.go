package hub

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetops-server/internal/alerting"
	"fleetops-server/internal/model"
	"fleetops-server/internal/store"
)

func newTestHub(t *testing.T) (*Hub, *store.Store, *httptest.Server) {
	t.Helper()
	st := store.New()
	h := New(st, alerting.NewMonitor(st), slog.New(slog.DiscardHandler))
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.HandleWS)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return h, st, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) model.InboundEnvelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var env model.InboundEnvelope
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &env))
	return env
}

func TestFirstMessageIsSnapshotAtConnectionTime(t *testing.T) {
	_, st, srv := newTestHub(t)
	_, err := st.CreateDrone(model.Drone{ID: "d1", Name: "n", Model: "m", Status: model.StatusIdle})
	require.NoError(t, err)

	conn := dial(t, srv)
	env := readEnvelope(t, conn)
	require.Equal(t, model.MsgInitialData, env.Type)

	var snap model.Snapshot
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	require.Len(t, snap.Drones, 1)
	assert.Equal(t, "d1", snap.Drones[0].ID)

	// A drone created after the connection is not in the snapshot.
	_, err = st.CreateDrone(model.Drone{ID: "d2", Name: "n", Model: "m"})
	require.NoError(t, err)
	conn2 := dial(t, srv)
	env2 := readEnvelope(t, conn2)
	require.Equal(t, model.MsgInitialData, env2.Type)
	var snap2 model.Snapshot
	require.NoError(t, json.Unmarshal(env2.Data, &snap2))
	assert.Len(t, snap2.Drones, 2)
	assert.Len(t, snap.Drones, 1, "earlier snapshot unaffected")
}

func TestBroadcastSurvivesFailedObserver(t *testing.T) {
	h, _, srv := newTestHub(t)

	conn1 := dial(t, srv)
	conn2 := dial(t, srv)
	conn3 := dial(t, srv)
	for _, c := range []*websocket.Conn{conn1, conn2, conn3} {
		require.Equal(t, model.MsgInitialData, readEnvelope(t, c).Type)
	}
	require.Equal(t, 3, h.ClientCount())

	// Kill one observer abruptly; the hub learns about it on write.
	conn2.Close()

	h.BroadcastTelemetry(model.TelemetrySample{ID: "s1", DroneID: "d1"})

	for _, c := range []*websocket.Conn{conn1, conn3} {
		env := readEnvelope(t, c)
		assert.Equal(t, model.MsgTelemetryUpdate, env.Type)
	}
}

func TestPingAnsweredWithPong(t *testing.T) {
	_, _, srv := newTestHub(t)
	conn := dial(t, srv)
	require.Equal(t, model.MsgInitialData, readEnvelope(t, conn).Type)

	require.NoError(t, conn.WriteJSON(model.Envelope{Type: model.MsgPing}))
	env := readEnvelope(t, conn)
	assert.Equal(t, model.MsgPong, env.Type)
	assert.Empty(t, env.Data, "pong carries no payload")
}

func TestExternalTelemetryIngestion(t *testing.T) {
	h, st, srv := newTestHub(t)
	_, err := st.CreateDrone(model.Drone{
		ID: "d1", Name: "n", Model: "m", Status: model.StatusActive,
		Battery: 80, SignalStrength: -60,
	})
	require.NoError(t, err)

	conn := dial(t, srv)
	require.Equal(t, model.MsgInitialData, readEnvelope(t, conn).Type)

	sample := model.TelemetrySample{
		DroneID: "d1", Latitude: 48.21, Longitude: 16.37, Altitude: 150,
		Speed: 12, Heading: 90, Battery: 70, SignalStrength: -62,
	}
	require.NoError(t, conn.WriteJSON(model.Envelope{Type: model.MsgTelemetry, Data: sample}))

	env := readEnvelope(t, conn)
	require.Equal(t, model.MsgTelemetryUpdate, env.Type)
	var echoed model.TelemetrySample
	require.NoError(t, json.Unmarshal(env.Data, &echoed))
	assert.Equal(t, "d1", echoed.DroneID)
	assert.NotEmpty(t, echoed.ID, "stored sample gets an id")

	// Projection onto the drone record.
	require.Eventually(t, func() bool {
		d, ok := st.Drone("d1")
		return ok && d.Battery == 70 && d.Altitude == 150
	}, time.Second, 10*time.Millisecond)
	assert.Len(t, st.Telemetry("d1", 10), 1)
	_ = h
}

func TestUnregisterOnClose(t *testing.T) {
	h, _, srv := newTestHub(t)
	conn := dial(t, srv)
	require.Equal(t, model.MsgInitialData, readEnvelope(t, conn).Type)
	require.Equal(t, 1, h.ClientCount())

	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()

	assert.Eventually(t, func() bool { return h.ClientCount() == 0 },
		2*time.Second, 10*time.Millisecond)
}

func TestEnqueueDropsOldestOnOverflow(t *testing.T) {
	c := newClient(nil, nil)
	for i := 0; i < sendQueueSize+5; i++ {
		c.enqueue([]byte{byte(i)})
	}
	assert.Len(t, c.send, sendQueueSize)
	first := <-c.send
	assert.Equal(t, byte(5), first[0], "oldest messages were dropped first")
}
