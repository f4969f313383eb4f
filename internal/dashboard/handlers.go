package dashboard

import (
	"seedfund-backend/internal/middleware"
	"seedfund-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// Entrepreneur GET /api/dashboard/entrepreneur (entrepreneurs only)
func (h *Handlers) Entrepreneur(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	userID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return response.Unauthorized(c, "Not authenticated")
	}
	data, err := h.Service.Entrepreneur(userID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
	return response.Success(c, "", data)
}

// Investor GET /api/dashboard/investor (investors only)
func (h *Handlers) Investor(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	userID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return response.Unauthorized(c, "Not authenticated")
	}
	data, err := h.Service.Investor(userID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
	return response.Success(c, "", data)
}
