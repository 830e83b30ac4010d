package server

import (
	"errors"

	"yatube/internal/listing"
	"yatube/internal/middleware"
	"yatube/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+param))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// pageNumber reads ?page=. Anything unparseable means the first page; the
// listing clamps out-of-range numbers.
func pageNumber(c *fiber.Ctx) int {
	return listing.ParseNumber(c.Query("page"))
}

// pageResponse adds navigation hints to a listing page.
type pageResponse[T any] struct {
	listing.Page[T]
	HasNext      bool `json:"has_next"`
	HasPrevious  bool `json:"has_previous"`
	NextPage     int  `json:"next_page,omitempty"`
	PreviousPage int  `json:"previous_page,omitempty"`
}

func newPageResponse[T any](p listing.Page[T]) pageResponse[T] {
	return pageResponse[T]{
		Page:         p,
		HasNext:      p.HasNext(),
		HasPrevious:  p.HasPrevious(),
		NextPage:     p.NextNumber(),
		PreviousPage: p.PreviousNumber(),
	}
}

func statusForError(err error) int {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case models.CodeNotFound:
		return fiber.StatusNotFound
	case models.CodeValidation:
		return fiber.StatusBadRequest
	case models.CodeUnauthorized:
		return fiber.StatusUnauthorized
	case models.CodeForbidden:
		return fiber.StatusForbidden
	case models.CodeConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// mapServiceError writes err with the status matching its AppError code.
// Not-found responses carry the requested path; unexpected errors are logged
// and reported without details.
func (s *Server) mapServiceError(c *fiber.Ctx, err error) error {
	status := statusForError(err)
	switch {
	case status == fiber.StatusNotFound:
		var appErr *models.AppError
		errors.As(err, &appErr)
		return c.Status(status).JSON(models.ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
			Path:  c.Path(),
		})
	case status >= fiber.StatusInternalServerError:
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			"method", c.Method(), "path", c.Path(), "error", err)
		if !models.IsCode(err, models.CodeInternal) {
			err = models.NewInternalError(err)
		}
	}
	return models.RespondWithError(c, status, err)
}
