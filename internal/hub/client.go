package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"fleetops-server/internal/model"
)

const (
	// Per-connection outbound queue. On overflow the oldest queued
	// message is dropped; delivery is at-least-once only for observers
	// that keep up.
	sendQueueSize = 32

	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// Client is one observer connection. Lifecycle: connecting (upgrade) ->
// open (pumps running) -> closed (socket error or close). Reconnection is
// the client's business; the server keeps no per-observer state after close.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newClient(h *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendQueueSize),
		done: make(chan struct{}),
	}
}

// enqueue adds a message to the outbound queue without ever blocking the
// caller. When the queue is full the oldest message is dropped first.
// The send channel is never closed, so enqueueing to an already-departed
// client is harmless.
func (c *Client) enqueue(msg []byte) {
	select {
	case <-c.done:
		return
	default:
	}
	for {
		select {
		case c.send <- msg:
			return
		default:
		}
		select {
		case <-c.send:
		default:
		}
	}
}

// close signals the pumps and releases the socket. Idempotent.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// writePump drains the outbound queue onto the socket and keeps the
// connection alive with protocol-level pings. A write error removes the
// client from the broadcast set; other observers are unaffected.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.hub.unregister(c)
	}()

	for {
		select {
		case <-c.done:
			c.conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(writeWait))
			return
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.hub.log.Debug("observer write failed", "err", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump consumes client messages: application pings and external
// telemetry ingestion. Any read error closes the connection.
func (c *Client) readPump() {
	defer c.hub.unregister(c)

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Debug("observer read failed", "err", err)
			}
			return
		}

		var env model.InboundEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.hub.log.Error("observer message decode failed", "err", err)
			continue
		}

		switch env.Type {
		case model.MsgPing:
			// Liveness only; no payload semantics.
			pong, _ := json.Marshal(model.Envelope{Type: model.MsgPong})
			c.enqueue(pong)
		case model.MsgTelemetry:
			c.hub.ingest(env.Data)
		default:
			c.hub.log.Debug("unknown observer message type", "type", env.Type)
		}
	}
}
