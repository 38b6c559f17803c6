package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kirychukyurii/adg-monitor/internal/model"
)

const (
	sendBufferSize = 64
	writeTimeout   = 5 * time.Second
)

// Hub pushes session updates to websocket subscribers
type Hub struct {
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu      sync.Mutex
	clients map[*subscriber]struct{}
	closed  bool
}

// subscriber is a single websocket connection with its outgoing queue
type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates an empty hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		// The zero CheckOrigin only accepts same-origin upgrades
		upgrader: websocket.Upgrader{},
		logger:  logger,
		clients: make(map[*subscriber]struct{}),
	}
}

// Publish queues an update for every subscriber. Slow subscribers miss updates instead of blocking the session.
func (h *Hub) Publish(update model.Update) {
	data, err := json.Marshal(update)
	if err != nil {
		h.logger.Error("failed to marshal update",
			slog.String("type", string(update.Type)),
			slog.String("error", err.Error()),
		)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.clients {
		select {
		case sub.send <- data:
		default:
			h.logger.Debug("dropping update for slow websocket client",
				slog.String("remote_addr", sub.conn.RemoteAddr().String()),
				slog.String("type", string(update.Type)),
			)
		}
	}
}

// ServeWS upgrades the request and registers the connection, sending initial first
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, initial ...model.Update) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed",
			slog.String("error", err.Error()),
		)
		return
	}

	sub := &subscriber{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}

	for _, update := range initial {
		data, err := json.Marshal(update)
		if err != nil {
			continue
		}
		sub.send <- data
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[sub] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("websocket client connected",
		slog.String("remote_addr", conn.RemoteAddr().String()),
		slog.Int("clients", count),
	)

	go h.writeLoop(sub)
	go h.readLoop(sub)
}

// writeLoop drains the subscriber queue until it is closed
func (h *Hub) writeLoop(sub *subscriber) {
	for data := range sub.send {
		_ = sub.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := sub.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Debug("failed to write to websocket client",
				slog.String("remote_addr", sub.conn.RemoteAddr().String()),
				slog.String("error", err.Error()),
			)
			h.remove(sub)
			return
		}
	}
}

// readLoop discards client messages and detects disconnects
func (h *Hub) readLoop(sub *subscriber) {
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			h.remove(sub)
			return
		}
	}
}

func (h *Hub) remove(sub *subscriber) {
	h.mu.Lock()
	_, ok := h.clients[sub]
	if ok {
		delete(h.clients, sub)
		close(sub.send)
	}
	h.mu.Unlock()

	sub.conn.Close()

	if ok {
		h.logger.Info("websocket client disconnected",
			slog.String("remote_addr", sub.conn.RemoteAddr().String()),
		)
	}
}

// Close disconnects every subscriber and rejects new ones
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for sub := range h.clients {
		delete(h.clients, sub)
		close(sub.send)
		sub.conn.Close()
	}
}
