package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/rs/zerolog/log"
)

// CommunityUpdate is pushed to websocket listeners after every accepted
// score submission. Polling /community remains the primary mechanism, the
// feed only shortens the latency for clients that want it.
type CommunityUpdate struct {
	Type         string `json:"type"`
	Total        int64  `json:"total"`
	Level        int    `json:"level"`
	Goal         int64  `json:"goal"`
	ScoreInLevel int64  `json:"scoreInLevel"`
}

type hubClient struct {
	conn *websocket.Conn
	send chan []byte
}

// writePump reads from the send channel and writes to the connection.
func (c *hubClient) writePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		}
	}
}

// Hub manages the community-feed WebSocket connections.
type Hub struct {
	mu      sync.RWMutex
	clients map[*hubClient]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*hubClient]struct{})}
}

func (h *Hub) register(c *hubClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *Hub) unregister(c *hubClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		close(c.send)
		delete(h.clients, c)
	}
}

// Broadcast sends a message to every client. Non-blocking: drops for
// clients whose send channel is full.
func (h *Hub) Broadcast(msg CommunityUpdate) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Msg("marshaling community update")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Drop message if channel full
		}
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.Cfg.Server.CORSOrigins,
	})
	if err != nil {
		log.Debug().Err(err).Msg("websocket accept failed")
		return
	}

	c := &hubClient{conn: conn, send: make(chan []byte, 16)}
	s.Hub.register(c)

	ctx := r.Context()
	go c.writePump(ctx)

	// The feed is one-way; reading only detects the close.
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			break
		}
	}

	s.Hub.unregister(c)
	conn.Close(websocket.StatusNormalClosure, "")
}
