package notifications

import (
	"context"
	"testing"
	"time"

	"yatube/internal/listing"
	"yatube/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_NilRedisIsNoop(t *testing.T) {
	n := NewNotifier(nil)
	assert.NoError(t, n.PublishPostCreated(context.Background(), &models.Post{ID: 1}))
	assert.NoError(t, n.StartFeedSubscriber(context.Background(), func(Event) {}))
}

func TestNewPostCreatedEvent(t *testing.T) {
	g := uint(3)
	post := &models.Post{
		ID:       9,
		Text:     "Lorem ipsum dolor sit amet, consectetur adipiscing elit",
		AuthorID: 2,
		Author:   &models.User{ID: 2, Username: "leo"},
		GroupID:  &g,
		Group:    &models.Group{ID: 3, Slug: "cats"},
	}
	ev := NewPostCreatedEvent(post)
	assert.Equal(t, EventPostCreated, ev.Type)
	assert.Equal(t, "leo", ev.Author)
	assert.Equal(t, "cats", ev.GroupSlug)
	assert.Equal(t, post.Headline(), ev.Preview)
	assert.True(t, listing.ForGroup(3).Matches(&ev))
	assert.True(t, listing.ForAuthor(2).Matches(&ev))
}

func TestNotifier_RoundTripIntoHub(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	n := NewNotifier(rdb)
	hub := NewHub()
	require.NoError(t, hub.StartWiring(ctx, n))

	client, err := hub.Register(0, nil, listing.All())
	require.NoError(t, err)

	post := &models.Post{ID: 4, Text: "hello", AuthorID: 1, Author: &models.User{Username: "leo"}}
	require.NoError(t, n.PublishPostCreated(ctx, post))

	assert.Eventually(t, func() bool {
		return hub.Backlog(listing.All(), 1, 10).TotalCount == 1
	}, time.Second, 10*time.Millisecond)

	select {
	case msg := <-client.Send:
		assert.Contains(t, string(msg), `"post_id":4`)
	case <-time.After(time.Second):
		t.Fatal("client did not receive the event")
	}
}
