package handler

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"

	"lendflow/internal/storage"
)

// SignedObjects is an object store whose download links carry a signature.
type SignedObjects interface {
	Get(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error)
	VerifyLink(key, expires, sig string) bool
}

// ObjectFile streams an object addressed by a memory-store presigned link
// (?key=...&expires=...&sig=...). Links with a bad signature or past their
// expiry are rejected before the object is read.
func ObjectFile(st SignedObjects, now func() time.Time) fiber.Handler {
	if now == nil {
		now = time.Now
	}
	return func(c *fiber.Ctx) error {
		key, expires := c.Query("key"), c.Query("expires")
		if key == "" {
			return handleError(c, badRequest("INVALID_QUERY", "key is required"))
		}
		exp, err := time.Parse(time.RFC3339, expires)
		if err != nil {
			return handleError(c, badRequest("INVALID_QUERY", "expires must be an RFC3339 timestamp"))
		}
		if !st.VerifyLink(key, expires, c.Query("sig")) {
			return fiber.NewError(fiber.StatusForbidden, "invalid link signature")
		}
		if now().After(exp) {
			return fiber.NewError(fiber.StatusForbidden, "link has expired")
		}

		rc, info, err := st.Get(c.UserContext(), key)
		if errors.Is(err, storage.ErrObjectNotFound) {
			return fiber.ErrNotFound
		}
		if err != nil {
			return handleError(c, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return handleError(c, err)
		}

		if info.ContentType != "" {
			c.Set(fiber.HeaderContentType, info.ContentType)
		}
		return c.Send(data)
	}
}
