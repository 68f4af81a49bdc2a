package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/gesturecue/internal/engine"
	"github.com/ayusman/gesturecue/internal/log"
	"github.com/ayusman/gesturecue/internal/server/api"
)

const (
	writeWait     = 5 * time.Second
	clientBacklog = 64
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// eventMessage is one event as sent to websocket subscribers.
type eventMessage struct {
	SessionID string `json:"session_id"`
	engine.Event
}

type eventClient struct {
	conn *websocket.Conn
	send chan []byte
}

// EventHub broadcasts gesture events to websocket subscribers.
type EventHub struct {
	clients map[*eventClient]struct{}
	mu      sync.RWMutex
}

// NewEventHub creates an EventHub with no subscribers.
func NewEventHub() *EventHub {
	return &EventHub{clients: make(map[*eventClient]struct{})}
}

// Publish sends ev to every subscriber. A subscriber whose backlog is full
// misses the event rather than stalling the pipeline.
func (h *EventHub) Publish(sessionID string, ev engine.Event) {
	msg, err := json.Marshal(eventMessage{SessionID: sessionID, Event: ev})
	if err != nil {
		log.Error("failed to encode event", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			log.Debug("dropping event for slow subscriber", "kind", ev.Kind)
		}
	}
}

// Clients returns the number of connected subscribers.
func (h *EventHub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and streams events until the client
// disconnects.
func (h *EventHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade error", "error", err)
		return
	}
	defer conn.Close()

	c := &eventClient{conn: conn, send: make(chan []byte, clientBacklog)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go c.writeLoop()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, c)
	close(c.send)
	h.mu.Unlock()
}

func (c *eventClient) writeLoop() {
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			c.conn.Close()
			for range c.send {
			}
			return
		}
	}
}

// FrameSocket ingests frames over a websocket, one frame or frame array per
// text message.
type FrameSocket struct {
	sink api.FrameSubmitter
}

// NewFrameSocket creates a FrameSocket forwarding to sink.
func NewFrameSocket(sink api.FrameSubmitter) *FrameSocket {
	return &FrameSocket{sink: sink}
}

type frameError struct {
	Error string `json:"error"`
}

// ServeHTTP upgrades the request and reads frames until the client
// disconnects. Malformed or rejected messages are answered with an error
// message; the connection stays open.
func (s *FrameSocket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade error", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(api.MaxFrameBody)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		frames, err := engine.DecodeFrames(data)
		if err != nil {
			conn.WriteJSON(frameError{Error: "invalid frame"})
			continue
		}
		for _, f := range frames {
			if err := s.sink.Submit(f); err != nil {
				conn.WriteJSON(frameError{Error: err.Error()})
				break
			}
		}
	}
}
