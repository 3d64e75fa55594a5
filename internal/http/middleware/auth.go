package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"lendflow/internal/auth"
	"lendflow/internal/model"
)

// AuthTokenHeader is accepted in place of an Authorization bearer token.
const AuthTokenHeader = "X-Auth-Token"

// PrincipalLocalKey is the fiber locals key holding the auth.Principal.
const PrincipalLocalKey = "principal"

// TokenParser verifies session tokens.
type TokenParser interface {
	Parse(token string) (auth.Principal, error)
}

// Authenticate requires a valid session token and attaches the caller to
// both the fiber locals and the request's user context.
func Authenticate(tokens TokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := bearerToken(c.Get(fiber.HeaderAuthorization))
		if raw == "" {
			raw = strings.TrimSpace(c.Get(AuthTokenHeader))
		}
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}

		p, err := tokens.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals(PrincipalLocalKey, p)
		c.SetUserContext(auth.WithPrincipal(c.UserContext(), p))
		return c.Next()
	}
}

func bearerToken(h string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireRole rejects callers without one of roles. It must run after Authenticate.
func RequireRole(roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := Principal(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}
		if !auth.HasAnyRole(p.Role, roles...) {
			return fiber.NewError(fiber.StatusForbidden, "insufficient role")
		}
		return c.Next()
	}
}

// Principal returns the caller set by Authenticate.
func Principal(c *fiber.Ctx) (auth.Principal, bool) {
	p, ok := c.Locals(PrincipalLocalKey).(auth.Principal)
	return p, ok
}
