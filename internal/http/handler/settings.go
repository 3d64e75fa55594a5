package handler

import (
	"github.com/gofiber/fiber/v2"

	"lendflow/internal/service"
)

func GetSettings(svc service.SettingsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := svc.Get(c.UserContext())
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(s)
	}
}

// UpdateSettings replaces the platform settings. Fields missing from the
// body keep their current values.
//
// @Summary  Update platform settings
// @Tags     settings
// @Accept   json
// @Produce  json
// @Param    body body model.Settings true "settings"
// @Success  200 {object} model.Settings
// @Router   /settings [put]
func UpdateSettings(svc service.SettingsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		current, err := svc.Get(c.UserContext())
		if err != nil {
			return handleError(c, err)
		}
		next := current
		if err := bind(c, &next); err != nil {
			return handleError(c, err)
		}
		s, err := svc.Update(c.UserContext(), caller(c), next)
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(s)
	}
}

func ResetSettings(svc service.SettingsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := svc.Reset(c.UserContext(), caller(c))
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(s)
	}
}
