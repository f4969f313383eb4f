package projects

import (
	"errors"
	"time"

	"seedfund-backend/internal/middleware"
	"seedfund-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Campaign goal bounds, matching the platform's product rules.
const (
	MinGoal = 100
	MaxGoal = 1000000
)

// MaxCampaignDuration is how far out a deadline may be set.
const MaxCampaignDuration = 6 * 30 * 24 * time.Hour

var validCategories = map[string]bool{
	"technology": true,
	"ecology":    true,
	"health":     true,
	"education":  true,
	"art":        true,
	"general":    true,
	"other":      true,
}

type Handlers struct {
	Service *Service
}

// GetAll GET /api/projects
func (h *Handlers) GetAll(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	category := c.Query("category")

	projects, err := h.Service.ListActive(category, limit, offset)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
	return response.SuccessWithMeta(c, "", projects, fiber.Map{
		"limit":  limit,
		"offset": offset,
		"total":  len(projects),
	})
}

// Search GET /api/projects/search
func (h *Handlers) Search(c *fiber.Ctx) error {
	query := c.Query("q")
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	projects, err := h.Service.Search(query, c.Query("category"), limit, offset)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
	return response.SuccessWithMeta(c, "", projects, fiber.Map{
		"query":  query,
		"limit":  limit,
		"offset": offset,
		"total":  len(projects),
	})
}

// Featured GET /api/projects/featured
func (h *Handlers) Featured(c *fiber.Ctx) error {
	projects, err := h.Service.Featured(c.QueryInt("limit", 6))
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
	return response.Success(c, "", projects)
}

// GetByID GET /api/projects/:id
func (h *Handlers) GetByID(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid project id", fiber.StatusBadRequest)
	}
	project, err := h.Service.FindByID(projectID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return response.Error(c, err.Error(), fiber.StatusNotFound)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
	_ = h.Service.IncrementViews(projectID)
	return response.Success(c, "", project)
}

type createBody struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Goal        float64        `json:"goal"`
	Deadline    string         `json:"deadline"` // YYYY-MM-DD
	Category    string         `json:"category"`
	Tags        datatypes.JSON `json:"tags"`
	ImageURL    string         `json:"image_url"`
}

// Create POST /api/projects (entrepreneurs only; role gated in app)
func (h *Handlers) Create(c *fiber.Ctx) error {
	var body createBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest)
	}
	if body.Title == "" || len(body.Title) > 200 {
		return response.Error(c, "Title is required and may not exceed 200 characters", fiber.StatusBadRequest)
	}
	if len(body.Description) < 50 {
		return response.Error(c, "Description must be at least 50 characters", fiber.StatusBadRequest)
	}
	if body.Goal < MinGoal || body.Goal > MaxGoal {
		return response.Error(c, "Goal must be between 100 and 1,000,000", fiber.StatusBadRequest)
	}
	deadline, err := time.Parse("2006-01-02", body.Deadline)
	if err != nil {
		return response.Error(c, "Invalid deadline (use YYYY-MM-DD)", fiber.StatusBadRequest)
	}
	now := time.Now()
	if !deadline.After(now) {
		return response.Error(c, "Deadline must be in the future", fiber.StatusBadRequest)
	}
	if deadline.After(now.Add(MaxCampaignDuration)) {
		return response.Error(c, "Deadline may not be more than 6 months away", fiber.StatusBadRequest)
	}
	category := body.Category
	if category == "" {
		category = "other"
	}
	if !validCategories[category] {
		return response.Error(c, "Invalid category", fiber.StatusBadRequest)
	}

	actor := middleware.GetActor(c)
	ownerID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return response.Unauthorized(c, "Not authenticated")
	}

	project, err := h.Service.Create(ownerID, CreateInput{
		Title:       body.Title,
		Description: body.Description,
		Goal:        body.Goal,
		Deadline:    deadline,
		Category:    category,
		Tags:        body.Tags,
		ImageURL:    body.ImageURL,
	})
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
	return response.SuccessCreated(c, "Project created successfully", project)
}

// Update PUT /api/projects/:id (owner only)
func (h *Handlers) Update(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid project id", fiber.StatusBadRequest)
	}
	var input UpdateInput
	if err := c.BodyParser(&input); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest)
	}

	actor := middleware.GetActor(c)
	ownerID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return response.Unauthorized(c, "Not authenticated")
	}

	project, err := h.Service.Update(projectID, ownerID, input)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return response.Error(c, err.Error(), fiber.StatusNotFound)
		case errors.Is(err, ErrNotOwner):
			return response.Error(c, err.Error(), fiber.StatusForbidden)
		case errors.Is(err, ErrNotEditable):
			return response.Error(c, err.Error(), fiber.StatusBadRequest)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
	return response.Success(c, "Project updated successfully", project)
}

// Delete DELETE /api/projects/:id — soft-cancel (owner only).
func (h *Handlers) Delete(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid project id", fiber.StatusBadRequest)
	}

	actor := middleware.GetActor(c)
	ownerID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return response.Unauthorized(c, "Not authenticated")
	}

	if err := h.Service.Cancel(projectID, ownerID); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return response.Error(c, err.Error(), fiber.StatusNotFound)
		case errors.Is(err, ErrNotOwner):
			return response.Error(c, err.Error(), fiber.StatusForbidden)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
	return response.Success(c, "Project canceled successfully", nil)
}

// GetInvestments GET /api/projects/:id/investments
func (h *Handlers) GetInvestments(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid project id", fiber.StatusBadRequest)
	}
	investments, err := h.Service.Investments(projectID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return response.Error(c, err.Error(), fiber.StatusNotFound)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
	return response.Success(c, "", investments)
}
