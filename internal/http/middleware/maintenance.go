package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"lendflow/internal/model"
)

// SettingsSource reads the current platform settings.
type SettingsSource interface {
	Get(ctx context.Context) (model.Settings, error)
}

// Maintenance answers 503 to writes from non-admin callers while
// maintenance mode is on. Reads always pass. If the settings cannot be read
// the request proceeds.
func Maintenance(settings SettingsSource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return c.Next()
		}
		if p, ok := Principal(c); ok && p.Role == model.RoleAdmin {
			return c.Next()
		}

		s, err := settings.Get(c.UserContext())
		if err == nil && s.MaintenanceMode {
			return fiber.NewError(fiber.StatusServiceUnavailable, "platform is under maintenance")
		}
		return c.Next()
	}
}
