package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/voxlate/voxlate/internal/config"
)

const sessionLocalsKey = "session_id"

// sessionCookie assigns a uuid session cookie on first contact so each
// browser gets its own isolated state.
func sessionCookie(cfg config.SessionConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Cookies(cfg.CookieName)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     cfg.CookieName,
				Value:    id,
				MaxAge:   int(cfg.TTL.Seconds()),
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
				Path:     "/",
			})
		}
		c.Locals(sessionLocalsKey, id)
		return c.Next()
	}
}

func sessionID(c *fiber.Ctx) string {
	id, _ := c.Locals(sessionLocalsKey).(string)
	return id
}
