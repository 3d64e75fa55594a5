package handler

import (
	"github.com/gofiber/fiber/v2"

	"lendflow/internal/service"
	"lendflow/internal/toast"
)

// ListNotifications returns the caller's notifications, newest first. ?unread=true filters.
func ListNotifications(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, err := page(c)
		if err != nil {
			return handleError(c, err)
		}
		res, err := svc.List(c.UserContext(), caller(c), queryBool(c, "unread"), limit, offset)
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(res)
	}
}

func CreateNotification(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.NotificationInput
		if err := bind(c, &in); err != nil {
			return handleError(c, err)
		}
		n, err := svc.Create(c.UserContext(), caller(c), in)
		if err != nil {
			return handleError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(n)
	}
}

func MarkNotificationRead(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return handleError(c, err)
		}
		if err := svc.MarkRead(c.UserContext(), caller(c), id); err != nil {
			return handleError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ToastQueue is the per-user toast store the handlers read from.
type ToastQueue interface {
	List(userID int64) []toast.Toast
	Dismiss(userID, id int64) bool
	Clear(userID int64)
}

// ListToasts returns the caller's visible and fading toasts.
func ListToasts(q ToastQueue) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items := q.List(caller(c).UserID)
		if items == nil {
			items = []toast.Toast{}
		}
		return c.JSON(fiber.Map{"data": items, "total": len(items)})
	}
}

func DismissToast(q ToastQueue) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return handleError(c, err)
		}
		if !q.Dismiss(caller(c).UserID, id) {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "toast not found")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func ClearToasts(q ToastQueue) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q.Clear(caller(c).UserID)
		return c.SendStatus(fiber.StatusNoContent)
	}
}
