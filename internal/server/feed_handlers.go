package server

import (
	"yatube/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetIndex handles GET /api/posts?page=N
// @Summary Latest posts
// @Tags posts
// @Produce json
// @Param page query int false "Page number"
// @Success 200 {object} object
// @Router /posts [get]
func (s *Server) GetIndex(c *fiber.Ctx) error {
	page, err := s.feedService.Index(c.UserContext(), pageNumber(c))
	if err != nil {
		return s.mapServiceError(c, err)
	}
	return c.JSON(newPageResponse(page))
}

// GetGroups handles GET /api/groups
func (s *Server) GetGroups(c *fiber.Ctx) error {
	groups, err := s.groupRepo.List(c.UserContext())
	if err != nil {
		return s.mapServiceError(c, models.NewInternalError(err))
	}
	return c.JSON(groups)
}

// GetGroupPosts handles GET /api/groups/:slug?page=N
// @Summary Posts of one group
// @Tags groups
// @Produce json
// @Param slug path string true "Group slug"
// @Param page query int false "Page number"
// @Success 200 {object} object
// @Failure 404 {object} models.ErrorResponse
// @Router /groups/{slug} [get]
func (s *Server) GetGroupPosts(c *fiber.Ctx) error {
	feed, err := s.feedService.GroupPosts(c.UserContext(), c.Params("slug"), pageNumber(c))
	if err != nil {
		return s.mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"group": feed.Group,
		"posts": newPageResponse(feed.Page),
	})
}

// GetProfile handles GET /api/profile/:username?page=N
// @Summary Posts of one author
// @Tags profile
// @Produce json
// @Param username path string true "Username"
// @Param page query int false "Page number"
// @Success 200 {object} object
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/{username} [get]
func (s *Server) GetProfile(c *fiber.Ctx) error {
	feed, err := s.feedService.Profile(c.UserContext(), c.Params("username"), pageNumber(c))
	if err != nil {
		return s.mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"author":     feed.Author,
		"full_name":  feed.Author.FullName(),
		"post_count": feed.PostCount,
		"posts":      newPageResponse(feed.Page),
	})
}
