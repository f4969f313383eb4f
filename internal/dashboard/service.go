package dashboard

import (
	"time"

	"seedfund-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// EntrepreneurSummary aggregates an entrepreneur's campaigns.
type EntrepreneurSummary struct {
	TotalProjects     int     `json:"total_projects"`
	ActiveProjects    int     `json:"active_projects"`
	CompletedProjects int     `json:"completed_projects"`
	TotalRaised       float64 `json:"total_raised"`
	TotalGoal         float64 `json:"total_goal"`
	PercentFunded     float64 `json:"percent_funded"`
}

// EntrepreneurDashboard is the payload for GET /api/dashboard/entrepreneur.
type EntrepreneurDashboard struct {
	Summary  EntrepreneurSummary `json:"summary"`
	Projects []ProjectView       `json:"projects"`
}

// ProjectView decorates a project row with derived progress fields.
type ProjectView struct {
	models.Project
	PercentFunded float64 `json:"percent_funded"`
	DaysRemaining int     `json:"days_remaining"`
}

// Entrepreneur builds the dashboard for a project owner.
func (s *Service) Entrepreneur(userID uuid.UUID) (*EntrepreneurDashboard, error) {
	var projects []models.Project
	if err := s.DB.Where("owner_id = ?", userID).Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, err
	}

	out := EntrepreneurDashboard{Projects: make([]ProjectView, 0, len(projects))}
	now := time.Now()
	for _, p := range projects {
		out.Summary.TotalProjects++
		out.Summary.TotalRaised += p.Raised
		out.Summary.TotalGoal += p.Goal
		switch p.Status {
		case models.ProjectActive:
			out.Summary.ActiveProjects++
		case models.ProjectCompleted:
			out.Summary.CompletedProjects++
		}
		out.Projects = append(out.Projects, ProjectView{
			Project:       p,
			PercentFunded: p.PercentFunded(),
			DaysRemaining: daysUntil(now, p.Deadline),
		})
	}
	if out.Summary.TotalGoal > 0 {
		out.Summary.PercentFunded = out.Summary.TotalRaised / out.Summary.TotalGoal * 100
	}
	return &out, nil
}

// InvestorSummary aggregates an investor's commitments.
type InvestorSummary struct {
	TotalInvestments int     `json:"total_investments"`
	TotalInvested    float64 `json:"total_invested"`
	ProjectsBacked   int     `json:"projects_backed"`
	Balance          float64 `json:"balance"`
}

// InvestorDashboard is the payload for GET /api/dashboard/investor.
type InvestorDashboard struct {
	Summary     InvestorSummary     `json:"summary"`
	Investments []models.Investment `json:"investments"`
}

// Investor builds the dashboard for an investor.
func (s *Service) Investor(userID uuid.UUID) (*InvestorDashboard, error) {
	var user models.User
	if err := s.DB.Where("user_id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}

	var investments []models.Investment
	if err := s.DB.Preload("Project").
		Where("investor_id = ?", userID).
		Order("created_at DESC").Find(&investments).Error; err != nil {
		return nil, err
	}

	out := InvestorDashboard{Investments: investments}
	out.Summary.Balance = user.Balance
	backed := map[uuid.UUID]bool{}
	for _, inv := range investments {
		out.Summary.TotalInvestments++
		out.Summary.TotalInvested += inv.Amount
		backed[inv.ProjectID] = true
	}
	out.Summary.ProjectsBacked = len(backed)
	return &out, nil
}

func daysUntil(now, deadline time.Time) int {
	d := int(deadline.Sub(now).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}
