package auth

import (
	"errors"
	"strings"
	"time"

	"seedfund-backend/internal/models"
	"seedfund-backend/internal/pkg/response"
	"seedfund-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service  *Service
	Secret   string
	TokenTTL time.Duration
}

// publicUser is the user shape returned by auth endpoints (no hash).
type publicUser struct {
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Balance   float64   `json:"balance"`
	Bio       string    `json:"bio,omitempty"`
	Country   string    `json:"country,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func public(u *models.User) publicUser {
	return publicUser{
		UserID:    u.UserID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Balance:   u.Balance,
		Bio:       u.Bio,
		Country:   u.Country,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
	}
}

// Register POST /api/auth/register
func (h *Handlers) Register(c *fiber.Ctx) error {
	var input RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest)
	}
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return response.Error(c, "Name is required", fiber.StatusBadRequest)
	}
	if !validation.IsValidEmail(input.Email) {
		return response.Error(c, "Invalid email", fiber.StatusBadRequest)
	}
	if !validation.IsValidPassword(input.Password) {
		return response.Error(c, "Password must be at least 6 characters with a digit and an uppercase letter", fiber.StatusBadRequest)
	}
	if input.Role != models.RoleEntrepreneur && input.Role != models.RoleInvestor {
		return response.Error(c, "Role must be entrepreneur or investor", fiber.StatusBadRequest)
	}

	user, err := h.Service.Register(input)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return response.Error(c, err.Error(), fiber.StatusBadRequest)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}

	token, err := SignToken(h.Secret, user, h.TokenTTL)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
	return response.SuccessCreated(c, "User registered successfully", fiber.Map{
		"token": token,
		"user":  public(user),
	})
}

// Login POST /api/auth/login
func (h *Handlers) Login(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest)
	}
	if body.Email == "" || body.Password == "" {
		return response.Error(c, "Email and password are required", fiber.StatusBadRequest)
	}

	user, err := h.Service.Login(body.Email, body.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			return response.Error(c, err.Error(), fiber.StatusUnauthorized)
		case errors.Is(err, ErrAccountInactive):
			return response.Error(c, err.Error(), fiber.StatusForbidden)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}

	token, err := SignToken(h.Secret, user, h.TokenTTL)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
	return response.Success(c, "Login successful", fiber.Map{
		"token": token,
		"user":  public(user),
	})
}

// Verify POST /api/auth/verify — validates the bearer token and re-issues a
// fresh one so clients can keep their session alive.
func (h *Handlers) Verify(c *fiber.Ctx) error {
	claims, err := h.bearerClaims(c)
	if err != nil {
		return response.Unauthorized(c, "Invalid or expired token")
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return response.Unauthorized(c, "Invalid or expired token")
	}
	user, err := h.Service.FindByID(userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return response.Error(c, err.Error(), fiber.StatusNotFound)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
	token, err := SignToken(h.Secret, user, h.TokenTTL)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
	return response.Success(c, "Token refreshed", fiber.Map{
		"token": token,
		"user":  public(user),
	})
}

// Profile GET /api/auth/profile (auth required)
func (h *Handlers) Profile(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if user == nil {
		return err
	}
	stats, err := h.Service.UserStats(user.UserID, user.Role)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
	return response.Success(c, "", fiber.Map{
		"user":  public(user),
		"stats": stats,
	})
}

// UpdateProfile PUT /api/auth/profile (auth required)
func (h *Handlers) UpdateProfile(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if user == nil {
		return err
	}
	var input UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest)
	}
	updated, err := h.Service.UpdateProfile(user.UserID, input)
	if err != nil {
		if errors.Is(err, ErrNothingToUpdate) {
			return response.Error(c, err.Error(), fiber.StatusBadRequest)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
	return response.Success(c, "Profile updated successfully", public(updated))
}

// Recharge POST /api/auth/recharge (auth required, investors only)
func (h *Handlers) Recharge(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if user == nil {
		return err
	}
	var body struct {
		Amount float64 `json:"amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "amount is required", fiber.StatusBadRequest)
	}
	if body.Amount < 1 || body.Amount > 10000 {
		return response.Error(c, "Amount must be between 1 and 10,000", fiber.StatusBadRequest)
	}
	newBalance, err := h.Service.Recharge(user.UserID, body.Amount)
	if err != nil {
		if errors.Is(err, ErrNotInvestor) {
			return response.Error(c, err.Error(), fiber.StatusBadRequest)
		}
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
	return response.Success(c, "Balance recharged successfully", fiber.Map{
		"new_balance": newBalance,
	})
}

func (h *Handlers) bearerClaims(c *fiber.Ctx) (*Claims, error) {
	header := c.Get("Authorization")
	if header == "" {
		return nil, ErrInvalidCredentials
	}
	return ParseToken(h.Secret, strings.TrimPrefix(header, "Bearer "))
}

// currentUser loads the full user row for the authenticated claims. On
// failure it writes the error response and returns a nil user; callers
// return the accompanying error as-is.
func (h *Handlers) currentUser(c *fiber.Ctx) (*models.User, error) {
	claims, ok := c.Locals("user").(*Claims)
	if !ok {
		return nil, response.Unauthorized(c, "Not authenticated")
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, response.Unauthorized(c, "Not authenticated")
	}
	user, err := h.Service.FindByID(userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, response.Error(c, err.Error(), fiber.StatusNotFound)
		}
		return nil, response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
	return user, nil
}
