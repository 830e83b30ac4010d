// Package notifications delivers new posts to live feed subscribers.
package notifications

import (
	"time"

	"yatube/internal/models"
)

// EventPostCreated is the only event type the live feed carries today.
const EventPostCreated = "post_created"

// Event is the payload published to Redis and forwarded to websocket clients.
type Event struct {
	Type      string    `json:"type"`
	PostID    uint      `json:"post_id"`
	AuthorID  uint      `json:"author_id"`
	Author    string    `json:"author"`
	GroupID   *uint     `json:"group_id,omitempty"`
	GroupSlug string    `json:"group_slug,omitempty"`
	Preview   string    `json:"preview"`
	PubDate   time.Time `json:"pub_date"`
}

// NewPostCreatedEvent builds an event from a post loaded with its author and group.
func NewPostCreatedEvent(post *models.Post) Event {
	ev := Event{
		Type:     EventPostCreated,
		PostID:   post.ID,
		AuthorID: post.AuthorID,
		GroupID:  post.GroupID,
		Preview:  post.Headline(),
		PubDate:  post.CreatedAt,
	}
	if post.Author != nil {
		ev.Author = post.Author.Username
	}
	if post.Group != nil {
		ev.GroupSlug = post.Group.Slug
	}
	return ev
}

func (e *Event) AuthorKey() uint { return e.AuthorID }

func (e *Event) GroupKey() (uint, bool) {
	if e.GroupID == nil {
		return 0, false
	}
	return *e.GroupID, true
}
