package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusDisabled  = "disabled"
)

// LivenessCheck reports that the process is serving requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "up", "time": time.Now()})
}

// ReadinessCheck pings the database and Redis. Only the database gates
// readiness when Redis is not configured; a configured Redis must answer.
// The response also carries the number of open live feed connections.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	checks := fiber.Map{
		"database": checkWith(ctx, s.pingDatabase),
		"redis":    statusDisabled,
	}
	if s.redis != nil {
		checks["redis"] = checkWith(ctx, func(ctx context.Context) error {
			return s.redis.Ping(ctx).Err()
		})
	}

	status, overall := fiber.StatusOK, statusHealthy
	for _, result := range checks {
		if result == statusUnhealthy {
			status, overall = fiber.StatusServiceUnavailable, statusUnhealthy
		}
	}

	return c.Status(status).JSON(fiber.Map{
		"status":           overall,
		"checks":           checks,
		"feed_connections": s.hub.Count(),
		"time":             time.Now(),
	})
}

func (s *Server) pingDatabase(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func checkWith(ctx context.Context, ping func(context.Context) error) string {
	if err := ping(ctx); err != nil {
		return statusUnhealthy
	}
	return statusHealthy
}
