package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"lendflow/internal/lending"
	"lendflow/internal/service"
)

// CheckApplicationEligibility evaluates an application against every active rule.
func CheckApplicationEligibility(svc service.EligibilityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return handleError(c, err)
		}
		res, err := svc.CheckApplication(c.UserContext(), caller(c), id)
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(res)
	}
}

// CheckEligibility finds the best rule for an applicant profile.
//
// @Summary  Check eligibility
// @Tags     eligibility
// @Accept   json
// @Produce  json
// @Param    body body service.CheckInput true "applicant"
// @Success  200 {object} service.CheckResult
// @Router   /eligibility/check [post]
func CheckEligibility(svc service.EligibilityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.CheckInput
		if err := bind(c, &in); err != nil {
			return handleError(c, err)
		}
		res, err := svc.Check(c.UserContext(), caller(c), in)
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(res)
	}
}

func EligibilityScore(svc service.EligibilityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Score(c.UserContext(), caller(c))
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(res)
	}
}

// MatchLenders ranks lenders for the calling borrower. Filters not given
// in the query keep their defaults.
func MatchLenders(svc service.EligibilityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := lending.DefaultMatchFilter()
		if raw := c.Query("minMatchScore"); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_QUERY", "invalid minMatchScore")
			}
			f.MinMatchScore = v
		}
		for key, dst := range map[string]*float64{
			"maxInterestRate":  &f.MaxInterestRate,
			"maxProcessingFee": &f.MaxProcessingFee,
		} {
			raw := c.Query(key)
			if raw == "" {
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_QUERY", "invalid "+key)
			}
			*dst = v
		}

		res, err := svc.Match(c.UserContext(), caller(c), f)
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(fiber.Map{"data": res, "total": len(res), "filters": f})
	}
}

func CalculatorDefaults(svc service.CalculatorService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(svc.Defaults())
	}
}

// CalculateEMI quotes a loan. Omitted fields take the calculator defaults.
//
// @Summary  EMI calculator
// @Tags     calculator
// @Accept   json
// @Produce  json
// @Param    body body service.QuoteRequest true "loan"
// @Success  200 {object} service.QuoteResult
// @Router   /calculator/emi [post]
func CalculateEMI(svc service.CalculatorService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.QuoteRequest
		if len(c.Body()) > 0 {
			if err := bind(c, &req); err != nil {
				return handleError(c, err)
			}
		}
		res, err := svc.Quote(c.UserContext(), caller(c), req)
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(res)
	}
}
