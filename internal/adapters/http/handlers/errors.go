package handlers

import (
	"errors"

	"carepath-api/internal/adapters/http/middleware"
	"carepath-api/internal/core/domain"
	"carepath-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// respondError maps a service error onto the response envelope. Errors that
// carry no domain kind are logged and answered with fallback as a 500.
func respondError(c *fiber.Ctx, err error, fallback string) error {
	var de *domain.Error
	message := fallback
	if errors.As(err, &de) {
		message = de.Message
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, message)
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, message)
	case errors.Is(err, domain.ErrUnauthorized):
		return response.Unauthorized(c, message)
	case errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, message)
	case errors.Is(err, domain.ErrConflict):
		return response.Conflict(c, message)
	default:
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("❌ " + fallback)
		return response.InternalServerError(c, fallback)
	}
}

// currentUserID returns the authenticated user's id set by the auth middleware
func currentUserID(c *fiber.Ctx) (string, bool) {
	userID, ok := c.Locals(middleware.LocalUserID).(string)
	return userID, ok && userID != ""
}
