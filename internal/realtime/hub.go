// Package realtime streams captured membership events to monitoring clients
// over WebSocket, with Redis pub/sub fan-out across listener instances.
package realtime

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Publisher publishes feed messages to Redis for cross-instance delivery.
type Publisher interface {
	PublishFeed(origin, event string, payload []byte) error
}

// Subscriber receives feed messages published by other instances.
type Subscriber interface {
	SubscribeFeed(handler func(origin, event string, payload []byte)) (cancel func(), err error)
}

// Hub maintains the set of connected monitor clients and broadcasts the live
// event feed to them.
type Hub struct {
	instanceID string
	clients    map[string]*Client
	mu         sync.RWMutex
	logger     *zap.Logger
	pub        Publisher
}

// NewHub creates a hub and, when sub is non-nil, starts relaying feed
// messages published by other instances.
func NewHub(logger *zap.Logger, pub Publisher, sub Subscriber) *Hub {
	h := &Hub{
		instanceID: uuid.New().String(),
		clients:    make(map[string]*Client),
		logger:     logger,
		pub:        pub,
	}
	if sub != nil {
		_, err := sub.SubscribeFeed(func(origin, event string, payload []byte) {
			if origin == h.instanceID {
				return // own publish echoed back
			}
			h.broadcastLocal(event, json.RawMessage(payload))
		})
		if err != nil {
			logger.Warn("feed subscription failed", zap.Error(err))
		}
	}
	return h
}

// Register adds a connected monitor client.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("monitor client connected", zap.String("client_id", c.ID), zap.Int("clients", n))
}

// Unregister removes a client.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	delete(h.clients, c.ID)
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("monitor client disconnected", zap.String("client_id", c.ID), zap.Int("clients", n))
}

// ClientCount returns the number of connected monitor clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastEvent sends a feed message to local clients and publishes it for
// other instances. Implements the webhook handler's Broadcaster.
func (h *Hub) BroadcastEvent(event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Warn("feed payload marshal failed", zap.Error(err))
		return
	}
	h.broadcastLocal(event, json.RawMessage(data))
	if h.pub != nil {
		if err := h.pub.PublishFeed(h.instanceID, event, data); err != nil {
			h.logger.Warn("feed publish failed", zap.Error(err))
		}
	}
}

func (h *Hub) broadcastLocal(event string, data json.RawMessage) {
	msg := WSMessage{Event: event, Data: data}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		select {
		case c.send <- msg:
		default:
			// Slow consumer; drop rather than block the feed.
		}
	}
}
