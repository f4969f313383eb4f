package investing

import (
	"errors"

	"seedfund-backend/internal/middleware"
	"seedfund-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// MaxInvestmentAmount caps a single investment.
const MaxInvestmentAmount = 10000

type Handlers struct {
	Service *Service
}

// Invest POST /api/projects/:id/invest (investors only; role gated in app).
func (h *Handlers) Invest(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid project id", fiber.StatusBadRequest)
	}

	var body struct {
		Amount float64 `json:"amount"`
		Note   string  `json:"note"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "amount is required", fiber.StatusBadRequest)
	}
	if body.Amount <= 0 {
		return response.Error(c, ErrInvalidAmount.Error(), fiber.StatusBadRequest)
	}
	if body.Amount > MaxInvestmentAmount {
		return response.Error(c, "Maximum amount per investment is 10,000", fiber.StatusBadRequest)
	}

	actor := middleware.GetActor(c)
	investorID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return response.Unauthorized(c, "Not authenticated")
	}

	result, err := h.Service.Commit(c.Context(), investorID, projectID, body.Amount, body.Note)
	if err != nil {
		status := statusFor(err)
		if status == fiber.StatusInternalServerError {
			return response.Error(c, "Internal Server Error", status)
		}
		return response.Error(c, err.Error(), status)
	}
	return response.SuccessCreated(c, "Investment created successfully", result)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrProjectNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrInsufficientFunds),
		errors.Is(err, ErrProjectNotActive),
		errors.Is(err, ErrProjectExpired),
		errors.Is(err, ErrSelfInvestment),
		errors.Is(err, ErrDuplicateInvestment),
		errors.Is(err, ErrInvalidAmount):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrLockTimeout):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
