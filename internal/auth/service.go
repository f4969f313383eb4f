package auth

import (
	"errors"
	"math"
	"time"

	"seedfund-backend/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
	// StartingBalance is granted to investors at registration.
	StartingBalance float64
}

// RegisterInput for the register request body.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Bio      string `json:"bio"`
	Country  string `json:"country"`
}

// Register creates an account with a hashed password. Investors start with
// the configured balance, entrepreneurs with zero.
func (s *Service) Register(input RegisterInput) (*models.User, error) {
	var count int64
	if err := s.DB.Model(&models.User{}).Where("email = ?", input.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	balance := 0.0
	if input.Role == models.RoleInvestor {
		balance = s.StartingBalance
	}
	user := models.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         input.Role,
		Balance:      balance,
		Bio:          input.Bio,
		Country:      input.Country,
		Status:       models.UserActive,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Login finds the user by email and verifies the password. Inactive accounts
// are rejected even with valid credentials.
func (s *Service) Login(email, password string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.Status != models.UserActive {
		return nil, ErrAccountInactive
	}
	s.touchLastLogin(&user)
	return &user, nil
}

// FindByID returns the user for token verification and profile reads.
func (s *Service) FindByID(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("user_id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// EntrepreneurStats aggregates a user's projects for the profile view.
type EntrepreneurStats struct {
	TotalProjects  int64   `json:"total_projects"`
	TotalRaised    float64 `json:"total_raised"`
	TotalInvestors int64   `json:"total_investors"`
}

// InvestorStats aggregates a user's investments for the profile view.
type InvestorStats struct {
	TotalInvestments int64   `json:"total_investments"`
	TotalInvested    float64 `json:"total_invested"`
	ProjectsBacked   int64   `json:"projects_backed"`
}

// UserStats returns the role-specific aggregate block for GET /profile.
func (s *Service) UserStats(userID uuid.UUID, role string) (interface{}, error) {
	if role == models.RoleEntrepreneur {
		var stats EntrepreneurStats
		err := s.DB.Raw(`
			SELECT COUNT(*) AS total_projects,
			       COALESCE(SUM(raised), 0) AS total_raised,
			       COALESCE(SUM(investors_count), 0) AS total_investors
			FROM projects WHERE owner_id = ?`, userID).Scan(&stats).Error
		return stats, err
	}
	var stats InvestorStats
	err := s.DB.Raw(`
		SELECT COUNT(*) AS total_investments,
		       COALESCE(SUM(amount), 0) AS total_invested,
		       COUNT(DISTINCT project_id) AS projects_backed
		FROM investments WHERE investor_id = ?`, userID).Scan(&stats).Error
	return stats, err
}

// UpdateProfileInput holds the whitelisted profile fields.
type UpdateProfileInput struct {
	Name      *string `json:"name"`
	Bio       *string `json:"bio"`
	Country   *string `json:"country"`
	AvatarURL *string `json:"avatar_url"`
}

// UpdateProfile applies the provided fields and returns the updated user.
func (s *Service) UpdateProfile(userID uuid.UUID, input UpdateProfileInput) (*models.User, error) {
	updates := map[string]interface{}{}
	if input.Name != nil && *input.Name != "" {
		updates["name"] = *input.Name
	}
	if input.Bio != nil {
		updates["bio"] = *input.Bio
	}
	if input.Country != nil {
		updates["country"] = *input.Country
	}
	if input.AvatarURL != nil {
		updates["avatar_url"] = *input.AvatarURL
	}
	if len(updates) == 0 {
		return nil, ErrNothingToUpdate
	}
	res := s.DB.Model(&models.User{}).Where("user_id = ?", userID).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}
	return s.FindByID(userID)
}

// Recharge credits an investor's balance. This and registration are the only
// credit paths into User.Balance; the investment commit owns the debit path.
func (s *Service) Recharge(userID uuid.UUID, amount float64) (float64, error) {
	amount = math.Round(amount*100) / 100
	res := s.DB.Model(&models.User{}).
		Where("user_id = ? AND role = ?", userID, models.RoleInvestor).
		Update("balance", gorm.Expr("balance + ?", amount))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrNotInvestor
	}
	user, err := s.FindByID(userID)
	if err != nil {
		return 0, err
	}
	return user.Balance, nil
}

func (s *Service) touchLastLogin(user *models.User) {
	now := time.Now()
	user.LastLoginAt = &now
	_ = s.DB.Model(user).Update("last_login_at", now).Error
}
