package handler

import (
	"github.com/gofiber/fiber/v2"

	"lendflow/internal/repository"
	"lendflow/internal/service"
)

// ListLenders returns lender profiles. ?active=true hides inactive ones.
//
// @Summary  List lenders
// @Tags     lenders
// @Produce  json
// @Param    active query bool false "active only"
// @Param    limit  query int  false "page size"
// @Param    offset query int  false "offset"
// @Success  200 {object} service.ListResult[model.Lender]
// @Router   /lenders [get]
func ListLenders(svc service.LenderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, err := page(c)
		if err != nil {
			return handleError(c, err)
		}
		res, err := svc.List(c.UserContext(), queryBool(c, "active"), limit, offset)
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(res)
	}
}

func GetLender(svc service.LenderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return handleError(c, err)
		}
		l, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(l)
	}
}

// MyLender returns the profile owned by the calling lender.
func MyLender(svc service.LenderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		l, err := svc.Mine(c.UserContext(), caller(c))
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(l)
	}
}

func CreateLender(svc service.LenderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.LenderInput
		if err := bind(c, &in); err != nil {
			return handleError(c, err)
		}
		l, err := svc.Create(c.UserContext(), caller(c), in)
		if err != nil {
			return handleError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(l)
	}
}

func UpdateLender(svc service.LenderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return handleError(c, err)
		}
		var in service.LenderInput
		if err := bind(c, &in); err != nil {
			return handleError(c, err)
		}
		l, err := svc.Update(c.UserContext(), caller(c), id, in)
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(l)
	}
}

// ListRules filters by ?lenderId= and ?active=true.
func ListRules(svc service.RuleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, err := page(c)
		if err != nil {
			return handleError(c, err)
		}
		lenderID, err := queryID(c, "lenderId")
		if err != nil {
			return handleError(c, err)
		}
		f := repository.RuleFilter{LenderID: lenderID, ActiveOnly: queryBool(c, "active")}
		res, err := svc.List(c.UserContext(), f, limit, offset)
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(res)
	}
}

func GetRule(svc service.RuleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return handleError(c, err)
		}
		r, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(r)
	}
}

func CreateRule(svc service.RuleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.RuleInput
		if err := bind(c, &in); err != nil {
			return handleError(c, err)
		}
		r, err := svc.Create(c.UserContext(), caller(c), in)
		if err != nil {
			return handleError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(r)
	}
}

func UpdateRule(svc service.RuleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return handleError(c, err)
		}
		var in service.RuleInput
		if err := bind(c, &in); err != nil {
			return handleError(c, err)
		}
		r, err := svc.Update(c.UserContext(), caller(c), id, in)
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(r)
	}
}

func DeleteRule(svc service.RuleService) fiber.Handler {
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
