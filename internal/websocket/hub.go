package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"channelpass-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// Hub fans lifecycle and payment events out to connected admin dashboards.
// The feed is broadcast-only; every connected operator sees the same stream.
// When redis is configured, events also travel the "live_feed" channel so
// dashboards attached to other instances get them too.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Info("Hub", "Dashboard connected", map[string]interface{}{"client_id": client.ID})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.logger.Info("Hub", "Dashboard disconnected", map[string]interface{}{"client_id": client.ID})
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast pushes one event to every connected dashboard and mirrors it to
// redis for the rest of the cluster.
func (h *Hub) Broadcast(eventType string, data map[string]interface{}) {
	payload, _ := json.Marshal(map[string]interface{}{
		"type": eventType,
		"data": data,
	})

	h.deliver(payload)

	if h.rdb != nil {
		h.rdb.Publish(context.Background(), "live_feed", payload)
	}
}

func (h *Hub) deliver(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.Send <- payload:
		default:
			// Slow consumer; drop the connection rather than the feed.
			go func(c *Client) { h.unregister <- c }(client)
		}
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "live_feed")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.deliver([]byte(msg.Payload))
	}
}
