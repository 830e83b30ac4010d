package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"

	"yatube/internal/middleware"
	"yatube/internal/models"

	"github.com/redis/go-redis/v9"
)

// FeedChannel is the Redis channel carrying post events between instances.
const FeedChannel = "feed:posts"

// Notifier publishes post events into Redis so every API instance can
// forward them to its own websocket clients.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a Notifier. A nil client turns publishing into a no-op.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishPostCreated announces a freshly created post.
func (n *Notifier) PublishPostCreated(ctx context.Context, post *models.Post) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(NewPostCreatedEvent(post))
	if err != nil {
		return fmt.Errorf("marshal post event: %w", err)
	}
	return n.rdb.Publish(ctx, FeedChannel, payload).Err()
}

// StartFeedSubscriber subscribes to FeedChannel and calls onEvent for each
// decodable message until ctx is cancelled.
func (n *Notifier) StartFeedSubscriber(ctx context.Context, onEvent func(Event)) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	sub := n.rdb.Subscribe(ctx, FeedChannel)
	// Wait for the subscription so events published right after return are seen.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s: %w", FeedChannel, err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					middleware.Logger.Warn("dropping malformed feed event", "error", err)
					continue
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							middleware.Logger.Error("panic in feed subscriber", "panic", r, "stack", string(debug.Stack()))
						}
					}()
					onEvent(ev)
				}()
			}
		}
	}()

	return nil
}
