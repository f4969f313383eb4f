package stats

import (
	"context"
	"encoding/json"
	"time"

	"seedfund-backend/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const globalCacheKey = "stats:global"

type Service struct {
	DB  *gorm.DB
	Rdb *redis.Client // optional; nil disables caching
	// CacheTTL bounds staleness of the global stats payload.
	CacheTTL time.Duration
}

// UserTotals is the users block of the global stats.
type UserTotals struct {
	TotalUsers         int64   `json:"total_users"`
	TotalEntrepreneurs int64   `json:"total_entrepreneurs"`
	TotalInvestors     int64   `json:"total_investors"`
	CapitalAvailable   float64 `json:"capital_available"`
}

// ProjectTotals is the projects block of the global stats.
type ProjectTotals struct {
	TotalProjects   int64   `json:"total_projects"`
	FundedProjects  int64   `json:"funded_projects"`
	ActiveProjects  int64   `json:"active_projects"`
	ExpiredProjects int64   `json:"expired_projects"`
	CapitalRaised   float64 `json:"capital_raised"`
	AverageRaised   float64 `json:"average_raised"`
	TotalGoal       float64 `json:"total_goal"`
}

// InvestmentTotals is the investments block of the global stats.
type InvestmentTotals struct {
	TotalInvestments  int64   `json:"total_investments"`
	TotalInvested     float64 `json:"total_invested"`
	AverageInvestment float64 `json:"average_investment"`
	UniqueInvestors   int64   `json:"unique_investors"`
	ProjectsInvested  int64   `json:"projects_invested"`
}

// GlobalStats is the full platform summary, cached in Redis under a TTL.
type GlobalStats struct {
	Users       UserTotals       `json:"users"`
	Projects    ProjectTotals    `json:"projects"`
	Investments InvestmentTotals `json:"investments"`
	Featured    []models.Project `json:"featured"`
	GeneratedAt time.Time        `json:"generated_at"`
}

// Global returns the platform summary, from cache when fresh.
func (s *Service) Global(ctx context.Context) (*GlobalStats, error) {
	if s.Rdb != nil {
		if raw, err := s.Rdb.Get(ctx, globalCacheKey).Bytes(); err == nil {
			var cached GlobalStats
			if json.Unmarshal(raw, &cached) == nil {
				return &cached, nil
			}
		}
	}

	out := GlobalStats{GeneratedAt: time.Now()}

	if err := s.DB.WithContext(ctx).Raw(`
		SELECT COUNT(*) AS total_users,
		       COUNT(CASE WHEN role = 'entrepreneur' THEN 1 END) AS total_entrepreneurs,
		       COUNT(CASE WHEN role = 'investor' THEN 1 END) AS total_investors,
		       COALESCE(SUM(balance), 0) AS capital_available
		FROM users WHERE status = 'active' AND deleted_at IS NULL`).Scan(&out.Users).Error; err != nil {
		return nil, err
	}

	if err := s.DB.WithContext(ctx).Raw(`
		SELECT COUNT(*) AS total_projects,
		       COUNT(CASE WHEN status = 'completed' THEN 1 END) AS funded_projects,
		       COUNT(CASE WHEN status = 'active' THEN 1 END) AS active_projects,
		       COUNT(CASE WHEN status = 'expired' THEN 1 END) AS expired_projects,
		       COALESCE(SUM(raised), 0) AS capital_raised,
		       COALESCE(AVG(raised), 0) AS average_raised,
		       COALESCE(SUM(goal), 0) AS total_goal
		FROM projects`).Scan(&out.Projects).Error; err != nil {
		return nil, err
	}

	if err := s.DB.WithContext(ctx).Raw(`
		SELECT COUNT(*) AS total_investments,
		       COALESCE(SUM(amount), 0) AS total_invested,
		       COALESCE(AVG(amount), 0) AS average_investment,
		       COUNT(DISTINCT investor_id) AS unique_investors,
		       COUNT(DISTINCT project_id) AS projects_invested
		FROM investments WHERE status = 'active'`).Scan(&out.Investments).Error; err != nil {
		return nil, err
	}

	if err := s.DB.WithContext(ctx).
		Where("status = ? AND deadline > ?", models.ProjectActive, time.Now()).
		Order("raised DESC").Order("investors_count DESC").
		Limit(6).Find(&out.Featured).Error; err != nil {
		return nil, err
	}

	if s.Rdb != nil {
		if raw, err := json.Marshal(out); err == nil {
			if err := s.Rdb.Set(ctx, globalCacheKey, raw, s.CacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("stats cache write failed")
			}
		}
	}
	return &out, nil
}

// RealtimeStats is today's activity plus attention-worthy project counts.
type RealtimeStats struct {
	InvestmentsToday int64     `json:"investments_today"`
	AmountToday      float64   `json:"amount_today"`
	NewUsersToday    int64     `json:"new_users_today"`
	NewProjectsToday int64     `json:"new_projects_today"`
	ExpiringSoon     int64     `json:"expiring_soon"`
	AlmostCompleted  int64     `json:"almost_completed"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// Realtime computes today's counters; never cached.
func (s *Service) Realtime(ctx context.Context) (*RealtimeStats, error) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	out := RealtimeStats{GeneratedAt: now}

	if err := s.DB.WithContext(ctx).Raw(`
		SELECT COUNT(*) AS investments_today,
		       COALESCE(SUM(amount), 0) AS amount_today
		FROM investments WHERE created_at >= ?`, dayStart).Scan(&out).Error; err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx)
	if err := db.Model(&models.User{}).Where("created_at >= ?", dayStart).Count(&out.NewUsersToday).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Project{}).Where("created_at >= ?", dayStart).Count(&out.NewProjectsToday).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Project{}).
		Where("status = ? AND deadline <= ?", models.ProjectActive, now.Add(7*24*time.Hour)).
		Count(&out.ExpiringSoon).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Project{}).
		Where("status = ? AND raised >= goal * 0.8 AND raised < goal", models.ProjectActive).
		Count(&out.AlmostCompleted).Error; err != nil {
		return nil, err
	}
	return &out, nil
}
