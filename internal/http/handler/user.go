package handler

import (
	"github.com/gofiber/fiber/v2"

	"lendflow/internal/model"
	"lendflow/internal/repository"
	"lendflow/internal/service"
)

// ListUsers pages through accounts, optionally filtered by role and a search term.
func ListUsers(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, err := page(c)
		if err != nil {
			return handleError(c, err)
		}
		f := repository.UserFilter{Search: c.Query("search")}
		if raw := c.Query("role"); raw != "" {
			role, ok := model.ParseRole(raw)
			if !ok {
				return writeError(c, fiber.StatusBadRequest, "INVALID_ROLE", "invalid role")
			}
			f.Role = role
		}
		res, err := svc.List(c.UserContext(), caller(c), f, limit, offset)
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(res)
	}
}

func GetUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return handleError(c, err)
		}
		u, err := svc.Get(c.UserContext(), caller(c), id)
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(u)
	}
}

func UpdateUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return handleError(c, err)
		}
		var upd service.UserUpdate
		if err := bind(c, &upd); err != nil {
			return handleError(c, err)
		}
		u, err := svc.Update(c.UserContext(), caller(c), id, upd)
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(u)
	}
}

func DeleteUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return handleError(c, err)
		}
		if err := svc.Delete(c.UserContext(), caller(c), id); err != nil {
			return handleError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
