package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"yatube/internal/listing"
	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/observability"

	"github.com/gofiber/websocket/v2"
)

const (
	maxTotalConns   = 10000
	maxConnsPerUser = 8

	// backlogSize bounds the recent events kept for late joiners.
	backlogSize = 100
)

var (
	ErrServerFull = errors.New("server connection limit reached")
	ErrUserFull   = errors.New("user connection limit reached")
)

// Hub fans post events out to connected feed clients and keeps a short
// newest-first backlog that clients can page through on connect.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	perUser map[uint]int
	backlog []*Event
	closed  bool
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		perUser: make(map[uint]int),
	}
}

// Register adds a client receiving events matching f.
func (h *Hub) Register(userID uint, conn *websocket.Conn, f listing.Filter) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed || len(h.clients) >= maxTotalConns {
		return nil, ErrServerFull
	}
	if userID != 0 && h.perUser[userID] >= maxConnsPerUser {
		return nil, ErrUserFull
	}

	c := &Client{
		hub:    h,
		Conn:   conn,
		Send:   make(chan []byte, sendBuffer),
		UserID: userID,
		Filter: f,
	}
	h.clients[c] = struct{}{}
	if userID != 0 {
		h.perUser[userID]++
	}
	observability.FeedConnections.Inc()
	return c, nil
}

// UnregisterClient removes c and closes its send channel. Safe to call twice.
func (h *Hub) UnregisterClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	if c.UserID != 0 {
		if h.perUser[c.UserID]--; h.perUser[c.UserID] <= 0 {
			delete(h.perUser, c.UserID)
		}
	}
	close(c.Send)
	observability.FeedConnections.Dec()
}

// Count reports the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish records ev in the backlog and sends it to every matching client.
func (h *Hub) Publish(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		middleware.Logger.Error("failed to encode feed event", "post_id", ev.PostID, "error", err)
		return
	}

	h.mu.Lock()
	h.backlog = append([]*Event{&ev}, h.backlog...)
	if len(h.backlog) > backlogSize {
		h.backlog = h.backlog[:backlogSize]
	}
	h.mu.Unlock()

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c.Filter.Matches(&ev) {
			c.TrySend(data)
		}
	}
	observability.FeedEvents.WithLabelValues(ev.Type).Inc()
}

// Backlog returns one page of recent events matching f, newest first.
func (h *Hub) Backlog(f listing.Filter, number, size int) listing.Page[*Event] {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return listing.Paginate(h.backlog, f, number, size)
}

// StartWiring forwards every event from the notifier's Redis channel into the hub.
func (h *Hub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartFeedSubscriber(ctx, h.Publish)
}

// Shutdown closes every client's send channel, which makes its write pump
// send a going-away close frame, and refuses new registrations.
func (h *Hub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for c := range h.clients {
		close(c.Send)
		delete(h.clients, c)
		observability.FeedConnections.Dec()
	}
	h.perUser = make(map[uint]int)
	return nil
}

// PublishPostCreated delivers a post straight to this hub. It stands in for
// the Redis notifier when the process runs without Redis.
func (h *Hub) PublishPostCreated(_ context.Context, post *models.Post) error {
	h.Publish(NewPostCreatedEvent(post))
	return nil
}
