package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"lendflow/internal/model"
	"lendflow/internal/repository"
	"lendflow/internal/service"
)

// ListApplications returns the applications visible to the caller.
// Admins may filter by ?borrowerId= and ?lenderId=; everyone by ?status=.
//
// @Summary  List loan applications
// @Tags     applications
// @Produce  json
// @Param    status query string false "PENDING, UNDER_REVIEW, APPROVED, REJECTED or CANCELLED"
// @Success  200 {object} service.ListResult[model.LoanApplication]
// @Router   /loanApplications [get]
func ListApplications(svc service.ApplicationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, err := page(c)
		if err != nil {
			return handleError(c, err)
		}
		borrowerID, err := queryID(c, "borrowerId")
		if err != nil {
			return handleError(c, err)
		}
		lenderID, err := queryID(c, "lenderId")
		if err != nil {
			return handleError(c, err)
		}
		f := repository.ApplicationFilter{
			BorrowerID: borrowerID,
			LenderID:   lenderID,
			Status:     model.ApplicationStatus(strings.ToUpper(c.Query("status"))),
		}
		res, err := svc.List(c.UserContext(), caller(c), f, limit, offset)
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(res)
	}
}

func GetApplication(svc service.ApplicationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return handleError(c, err)
		}
		app, err := svc.Get(c.UserContext(), caller(c), id)
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(app)
	}
}

// CreateApplication submits a loan request for the calling borrower.
//
// @Summary  Apply for a loan
// @Tags     applications
// @Accept   json
// @Produce  json
// @Param    body body service.ApplicationInput true "application"
// @Success  201 {object} model.LoanApplication
// @Failure  422 {object} errorPayload
// @Router   /loanApplications [post]
func CreateApplication(svc service.ApplicationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.ApplicationInput
		if err := bind(c, &in); err != nil {
			return handleError(c, err)
		}
		app, err := svc.Create(c.UserContext(), caller(c), in)
		if err != nil {
			return handleError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(app)
	}
}

// UpdateApplicationStatus records a lender or admin decision.
//
// @Summary  Decide an application
// @Tags     applications
// @Accept   json
// @Produce  json
// @Param    id   path int                  true "application id"
// @Param    body body service.StatusUpdate true "decision"
// @Success  200 {object} model.LoanApplication
// @Failure  409 {object} errorPayload
// @Router   /loanApplications/{id}/status [patch]
func UpdateApplicationStatus(svc service.ApplicationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return handleError(c, err)
		}
		var upd service.StatusUpdate
		if err := bind(c, &upd); err != nil {
			return handleError(c, err)
		}
		upd.Status = model.ApplicationStatus(strings.ToUpper(string(upd.Status)))
		app, err := svc.UpdateStatus(c.UserContext(), caller(c), id, upd)
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(app)
	}
}

func CancelApplication(svc service.ApplicationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return handleError(c, err)
		}
		app, err := svc.Cancel(c.UserContext(), caller(c), id)
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(app)
	}
}

func AssessApplication(svc service.ApplicationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return handleError(c, err)
		}
		a, err := svc.Assess(c.UserContext(), caller(c), id)
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(a)
	}
}

// BulkProcess decides every pending application of the calling lender.
// An empty body processes with auto-approval off.
func BulkProcess(svc service.ApplicationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var opts service.BulkOptions
		if len(c.Body()) > 0 {
			if err := bind(c, &opts); err != nil {
				return handleError(c, err)
			}
		}
		res, err := svc.BulkProcess(c.UserContext(), caller(c), opts)
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(res)
	}
}
