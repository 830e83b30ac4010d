package server

import (
	"runtime"

	"github.com/gofiber/fiber/v2"
)

// AboutAuthor handles GET /api/about/author
func (s *Server) AboutAuthor(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"title":       "About the author",
		"description": "Yatube is a small blogging platform: authors write posts, file them under groups and readers follow along page by page.",
		"links": fiber.Map{
			"source": "https://github.com/yatube/yatube",
		},
	})
}

// AboutTech handles GET /api/about/tech
func (s *Server) AboutTech(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"title":     "Technologies",
		"go":        runtime.Version(),
		"database":  s.db.Dialector.Name(),
		"page_size": s.feedService.PageSize(),
		"stack": []string{
			"Fiber",
			"GORM",
			"Redis",
			"Prometheus",
			"OpenTelemetry",
		},
	})
}
