package handler

import (
	"github.com/gofiber/fiber/v2"

	"lendflow/internal/service"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates an account and signs it in.
//
// @Summary  Register
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body service.RegisterInput true "account"
// @Success  201 {object} service.AuthResult
// @Failure  409 {object} errorPayload
// @Failure  422 {object} errorPayload
// @Router   /auth/register [post]
func Register(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.RegisterInput
		if err := bind(c, &in); err != nil {
			return handleError(c, err)
		}
		res, err := svc.Register(c.UserContext(), in)
		if err != nil {
			return handleError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// Login exchanges credentials for a session token.
//
// @Summary  Login
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body loginRequest true "credentials"
// @Success  200 {object} service.AuthResult
// @Failure  401 {object} errorPayload
// @Router   /auth/login [post]
func Login(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in loginRequest
		if err := bind(c, &in); err != nil {
			return handleError(c, err)
		}
		if in.Username == "" || in.Password == "" {
			return writeError(c, fiber.StatusBadRequest, "CREDENTIALS_REQUIRED", "username and password are required")
		}
		res, err := svc.Login(c.UserContext(), in.Username, in.Password)
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(res)
	}
}

// Refresh issues a new token for the current session.
func Refresh(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Refresh(c.UserContext(), caller(c))
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(res)
	}
}

// Me returns the caller's account.
func Me(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := svc.Me(c.UserContext(), caller(c))
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(u)
	}
}
