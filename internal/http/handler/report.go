package handler

import (
	"bytes"
	"context"
	"io"

	"github.com/gofiber/fiber/v2"

	"lendflow/internal/auth"
	"lendflow/internal/service"
)

func PlatformAnalytics(svc service.AnalyticsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Platform(c.UserContext(), caller(c))
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(res)
	}
}

func LenderAnalytics(svc service.AnalyticsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Lender(c.UserContext(), caller(c))
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(res)
	}
}

type reportFunc func(ctx context.Context, p auth.Principal, w io.Writer) error

// report renders into a buffer first so a failure still yields a JSON error.
func report(render reportFunc, contentType, filename string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var buf bytes.Buffer
		if err := render(c.UserContext(), caller(c), &buf); err != nil {
			return handleError(c, err)
		}
		c.Attachment(filename)
		c.Set(fiber.HeaderContentType, contentType)
		return c.Send(buf.Bytes())
	}
}

// LenderCSVReport exports the caller's applications and rules.
//
// @Summary  Lender CSV export
// @Tags     reports
// @Produce  text/csv
// @Success  200 {string} string
// @Router   /reports/lender.csv [get]
func LenderCSVReport(svc service.ReportService) fiber.Handler {
	return report(svc.LenderCSV, "text/csv; charset=utf-8", "lender-report.csv")
}

func LenderTextReport(svc service.ReportService) fiber.Handler {
	return report(svc.LenderText, "text/plain; charset=utf-8", "lender-report.txt")
}

func PlatformCSVReport(svc service.ReportService) fiber.Handler {
	return report(svc.PlatformCSV, "text/csv; charset=utf-8", "platform-report.csv")
}
