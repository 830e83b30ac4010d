package server

import (
	"encoding/json"

	"yatube/internal/listing"
	"yatube/internal/middleware"
	"yatube/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// feedFilter resolves ?group=<slug> or ?author=<username> into a listing filter.
func (s *Server) feedFilter(c *fiber.Ctx) (listing.Filter, error) {
	slug, username := c.Query("group"), c.Query("author")
	switch {
	case slug != "" && username != "":
		return listing.Filter{}, models.NewValidationError("Filter by group or by author, not both")
	case slug != "":
		g, err := s.groupRepo.GetBySlug(c.UserContext(), slug)
		if err != nil {
			return listing.Filter{}, err
		}
		return listing.ForGroup(g.ID), nil
	case username != "":
		u, err := s.userRepo.GetByUsername(c.UserContext(), username)
		if err != nil {
			return listing.Filter{}, err
		}
		return listing.ForAuthor(u.ID), nil
	}
	return listing.All(), nil
}

// GetRecentEvents handles GET /api/feed/recent: one page of the events this
// instance has seen most recently, optionally filtered like the live feed.
func (s *Server) GetRecentEvents(c *fiber.Ctx) error {
	f, err := s.feedFilter(c)
	if err != nil {
		return s.mapServiceError(c, err)
	}
	return c.JSON(newPageResponse(s.hub.Backlog(f, pageNumber(c), s.feedService.PageSize())))
}

// FeedWebsocketHandler streams post_created events. On connect the client
// first receives a "backlog" message with the newest matching events.
func (s *Server) FeedWebsocketHandler() fiber.Handler {
	upgrade := websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals("userID").(uint)
		f, _ := conn.Locals("feedFilter").(listing.Filter)

		client, err := s.hub.Register(userID, conn, f)
		if err != nil {
			middleware.Logger.Warn("live feed registration failed", "user_id", userID, "error", err)
			msg, _ := json.Marshal(fiber.Map{"type": "error", "error": err.Error()})
			_ = conn.WriteMessage(websocket.TextMessage, msg)
			_ = conn.Close()
			return
		}

		backlog := s.hub.Backlog(f, 1, s.feedService.PageSize())
		if msg, err := json.Marshal(fiber.Map{"type": "backlog", "page": backlog}); err == nil {
			client.TrySend(msg)
		}

		// The connection is released once this handler returns, so wait for
		// the writer as well as the reader.
		done := make(chan struct{})
		go func() {
			defer close(done)
			client.WritePump()
		}()
		client.ReadPump()
		<-done
	})

	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return models.RespondWithError(c, fiber.StatusUpgradeRequired,
				models.NewValidationError("WebSocket upgrade required"))
		}
		f, err := s.feedFilter(c)
		if err != nil {
			return s.mapServiceError(c, err)
		}
		if userID, ok := s.optionalUserID(c); ok {
			c.Locals("userID", userID)
		}
		c.Locals("feedFilter", f)
		return upgrade(c)
	}
}
