package stats

import (
	"seedfund-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
}

// Global GET /api/stats/global
func (h *Handlers) Global(c *fiber.Ctx) error {
	data, err := h.Service.Global(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
	return response.Success(c, "", data)
}

// Realtime GET /api/stats/realtime
func (h *Handlers) Realtime(c *fiber.Ctx) error {
	data, err := h.Service.Realtime(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
	return response.Success(c, "", data)
}
