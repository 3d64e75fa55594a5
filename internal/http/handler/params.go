package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"lendflow/internal/auth"
	"lendflow/internal/http/middleware"
)

var errInvalidID = badRequest("INVALID_ID", "invalid id format")

// caller is the authenticated principal. Routes that reach a handler
// without Authenticate get the zero value, which no service authorizes.
func caller(c *fiber.Ctx) auth.Principal {
	p, _ := middleware.Principal(c)
	return p
}

func paramID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// page reads limit and offset. Missing values default to 10 and 0.
func page(c *fiber.Ctx) (limit, offset int, err error) {
	limit, err = strconv.Atoi(c.Query("limit", "10"))
	if err != nil {
		return 0, 0, badRequest("INVALID_LIMIT", "invalid limit")
	}
	offset, err = strconv.Atoi(c.Query("offset", "0"))
	if err != nil {
		return 0, 0, badRequest("INVALID_OFFSET", "invalid offset")
	}
	return limit, offset, nil
}

// queryID parses an optional id filter; absent means 0.
func queryID(c *fiber.Ctx, key string) (int64, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0, badRequest("INVALID_QUERY", "invalid "+key)
	}
	return v, nil
}

func queryBool(c *fiber.Ctx, key string) bool {
	v, _ := strconv.ParseBool(c.Query(key))
	return v
}

func bind(c *fiber.Ctx, v any) error {
	if err := c.BodyParser(v); err != nil {
		return badRequest("INVALID_BODY", "malformed request body")
	}
	return nil
}
