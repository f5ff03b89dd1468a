package feed

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/windward-game/windward/internal/dependencies/clock"
	"github.com/windward-game/windward/internal/metrics"
	"github.com/windward-game/windward/internal/model"
	"github.com/windward-game/windward/internal/services/fleet"
	"github.com/windward-game/windward/internal/store"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512

	// sendBuffer is per-client; a client that falls this far behind is
	// dropped rather than allowed to stall the broadcast loop.
	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub fans world snapshots and combat events out to websocket observers.
// The feed is read-only; inbound frames are discarded.
type Hub struct {
	fleet  *fleet.Service
	store  store.Store
	clock  clock.Clock
	logger *slog.Logger
	tick   time.Duration

	register   chan *client
	unregister chan *client
	clients    map[*client]struct{}

	seenEvents map[model.CombatEventID]struct{}
}

// NewHub creates a feed hub broadcasting snapshots every tick.
func NewHub(fleet *fleet.Service, store store.Store, clock clock.Clock, tick time.Duration, logger *slog.Logger) *Hub {
	if tick <= 0 {
		tick = 200 * time.Millisecond
	}
	return &Hub{
		fleet:      fleet,
		store:      store,
		clock:      clock,
		logger:     logger,
		tick:       tick,
		register:   make(chan *client),
		unregister: make(chan *client),
		clients:    make(map[*client]struct{}),
		seenEvents: make(map[model.CombatEventID]struct{}),
	}
}

// Run owns the client set. It exits when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			metrics.FeedClientsConnected.Inc()
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
			}
		case <-ticker.C:
			h.tickOnce(ctx)
		}
	}
}

func (h *Hub) tickOnce(ctx context.Context) {
	if len(h.clients) == 0 {
		return
	}

	snap, err := h.fleet.Snapshot(ctx)
	if err != nil {
		h.logger.Error("failed to build world snapshot", slog.String("error", err.Error()))
		return
	}

	msg := worldMessage(snap, h.clock.Now())
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to encode world snapshot", slog.String("error", err.Error()))
		return
	}
	h.fanOut(data)

	h.broadcastNewEvents(ctx)
}

// broadcastNewEvents sends combat events not yet seen by the hub. Events
// expire out of the store shortly after creation, so the seen set is
// rebuilt from the live listing each tick.
func (h *Hub) broadcastNewEvents(ctx context.Context) {
	events, err := h.store.ListCombatEvents(ctx)
	if err != nil {
		h.logger.Error("failed to list combat events", slog.String("error", err.Error()))
		return
	}

	current := make(map[model.CombatEventID]struct{}, len(events))
	for _, evt := range events {
		current[evt.ID] = struct{}{}
		if _, sent := h.seenEvents[evt.ID]; sent {
			continue
		}
		data, err := json.Marshal(eventMessage(evt))
		if err != nil {
			continue
		}
		h.fanOut(data)
	}
	h.seenEvents = current
}

func (h *Hub) fanOut(data []byte) {
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Client is not draining its buffer; cut it loose.
			h.drop(c)
			metrics.FeedClientsDroppedTotal.Inc()
		}
	}
}

func (h *Hub) drop(c *client) {
	delete(h.clients, c)
	close(c.send)
	metrics.FeedClientsConnected.Dec()
}

// ServeWS upgrades an HTTP request to a feed subscription.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	c := &client{hub: h, conn: conn, send: make(chan []byte, sendBuffer)}
	h.register <- c

	go c.writePump()
	go c.readPump()
}

func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		// Inbound frames carry nothing; reading only detects disconnects.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
