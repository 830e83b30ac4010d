package server

import (
	"github.com/gofiber/fiber/v2"
)

// FeatureRequired hides a route behind a feature flag. A disabled feature
// answers like an unknown route.
func (s *Server) FeatureRequired(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := s.optionalUserID(c)
		if !s.featureFlags.Enabled(name, userID) {
			return s.NotFound(c)
		}
		return c.Next()
	}
}

// GetFeatureFlags returns the flags evaluated for the current caller.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	userID, _ := s.optionalUserID(c)
	return c.JSON(fiber.Map{
		"evaluated": s.featureFlags.Snapshot(userID),
	})
}
