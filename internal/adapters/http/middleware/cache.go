package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// PublicCacheHeaders marks successful GET responses as cacheable by shared
// caches for maxAge. Requests that carry claims (see OptionalAuth) are
// marked private instead.
func PublicCacheHeaders(maxAge time.Duration) fiber.Handler {
	return cacheHeaders("public", maxAge)
}

// PrivateCacheHeaders sets private cache headers (for user-specific data)
func PrivateCacheHeaders(maxAge time.Duration) fiber.Handler {
	return cacheHeaders("private", maxAge)
}

// NoCacheHeaders sets no-cache headers
func NoCacheHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderCacheControl, "no-store, no-cache, must-revalidate")
		c.Set(fiber.HeaderPragma, "no-cache")
		c.Set(fiber.HeaderExpires, "0")
		return c.Next()
	}
}

func cacheHeaders(scope string, maxAge time.Duration) fiber.Handler {
	age := ", max-age=" + strconv.Itoa(int(maxAge.Seconds()))
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() == fiber.MethodGet && c.Response().StatusCode() == fiber.StatusOK {
			value := scope + age
			if userID, ok := c.Locals(LocalUserID).(string); ok && userID != "" {
				value = "private" + age
			}
			c.Set(fiber.HeaderCacheControl, value)
		}

		return err
	}
}
