package health

import (
	"seedfund-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Handlers struct {
	DB  *gorm.DB
	Rdb *redis.Client
}

// Check GET /health — db and redis liveness.
func (h *Handlers) Check(c *fiber.Ctx) error {
	dbStatus := "disabled"
	if h.DB != nil {
		dbStatus = "up"
		sqlDB, err := h.DB.DB()
		if err != nil || sqlDB.Ping() != nil {
			dbStatus = "down"
		}
	}

	redisStatus := "disabled"
	if h.Rdb != nil {
		redisStatus = "up"
		if err := h.Rdb.Ping(c.Context()).Err(); err != nil {
			redisStatus = "down"
		}
	}

	status := fiber.StatusOK
	if dbStatus == "down" || redisStatus == "down" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(response.SuccessBody{
		Success: status == fiber.StatusOK,
		Data: fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
	})
}
