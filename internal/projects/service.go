package projects

import (
	"errors"
	"time"

	"seedfund-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// CreateInput holds the fields an entrepreneur supplies for a new campaign.
type CreateInput struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Goal        float64        `json:"goal"`
	Deadline    time.Time      `json:"deadline"`
	Category    string         `json:"category"`
	Tags        datatypes.JSON `json:"tags"`
	ImageURL    string         `json:"image_url"`
}

// Create stores a new active project owned by the entrepreneur.
func (s *Service) Create(ownerID uuid.UUID, input CreateInput) (*models.Project, error) {
	project := models.Project{
		OwnerID:     ownerID,
		Title:       input.Title,
		Description: input.Description,
		Goal:        input.Goal,
		Deadline:    input.Deadline,
		Category:    input.Category,
		Tags:        input.Tags,
		ImageURL:    input.ImageURL,
		Status:      models.ProjectActive,
	}
	if err := s.DB.Create(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindByID returns the project with its owner preloaded.
func (s *Service) FindByID(projectID uuid.UUID) (*models.Project, error) {
	var project models.Project
	if err := s.DB.Preload("Owner").Where("project_id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

// IncrementViews bumps the view counter; failures are not surfaced to readers.
func (s *Service) IncrementViews(projectID uuid.UUID) error {
	return s.DB.Model(&models.Project{}).
		Where("project_id = ?", projectID).
		Update("views", gorm.Expr("views + 1")).Error
}

// ListActive returns active, unexpired projects, newest first.
func (s *Service) ListActive(category string, limit, offset int) ([]models.Project, error) {
	q := s.DB.Preload("Owner").
		Where("status = ? AND deadline > ?", models.ProjectActive, time.Now())
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var out []models.Project
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&out).Error
	return out, err
}

// Search matches active projects by title or description, case-insensitive.
func (s *Service) Search(query, category string, limit, offset int) ([]models.Project, error) {
	pattern := "%" + query + "%"
	q := s.DB.Preload("Owner").
		Where("status = ?", models.ProjectActive).
		Where("LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var out []models.Project
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&out).Error
	return out, err
}

// Featured returns the active projects closest to their goal.
func (s *Service) Featured(limit int) ([]models.Project, error) {
	var out []models.Project
	err := s.DB.Preload("Owner").
		Where("status = ? AND deadline > ?", models.ProjectActive, time.Now()).
		Order("raised DESC").Order("investors_count DESC").
		Limit(limit).Find(&out).Error
	return out, err
}

// ByOwner returns all of an entrepreneur's projects, newest first.
func (s *Service) ByOwner(ownerID uuid.UUID) ([]models.Project, error) {
	var out []models.Project
	err := s.DB.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&out).Error
	return out, err
}

// UpdateInput holds the fields an owner may edit after creation. Goal and
// deadline are fixed once the campaign is published.
type UpdateInput struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Category    *string         `json:"category"`
	Tags        *datatypes.JSON `json:"tags"`
	ImageURL    *string         `json:"image_url"`
}

// Update applies the whitelisted fields to an active project owned by ownerID.
func (s *Service) Update(projectID, ownerID uuid.UUID, input UpdateInput) (*models.Project, error) {
	project, err := s.FindByID(projectID)
	if err != nil {
		return nil, err
	}
	if project.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	if project.Status != models.ProjectActive {
		return nil, ErrNotEditable
	}

	updates := map[string]interface{}{}
	if input.Title != nil && *input.Title != "" {
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Category != nil {
		updates["category"] = *input.Category
	}
	if input.Tags != nil {
		updates["tags"] = *input.Tags
	}
	if input.ImageURL != nil {
		updates["image_url"] = *input.ImageURL
	}
	if len(updates) == 0 {
		return project, nil
	}
	if err := s.DB.Model(project).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.FindByID(projectID)
}

// Cancel soft-cancels a project (status flip, never a delete).
func (s *Service) Cancel(projectID, ownerID uuid.UUID) error {
	project, err := s.FindByID(projectID)
	if err != nil {
		return err
	}
	if project.OwnerID != ownerID {
		return ErrNotOwner
	}
	return s.DB.Model(project).Update("status", models.ProjectCanceled).Error
}

// Investments lists a project's investments with investor names, newest first.
func (s *Service) Investments(projectID uuid.UUID) ([]models.Investment, error) {
	if _, err := s.FindByID(projectID); err != nil {
		return nil, err
	}
	var out []models.Investment
	err := s.DB.Preload("Investor").
		Where("project_id = ?", projectID).
		Order("created_at DESC").Find(&out).Error
	return out, err
}
