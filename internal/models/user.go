package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles.
const (
	RoleEntrepreneur = "entrepreneur"
	RoleInvestor     = "investor"
)

// User account statuses.
const (
	UserActive   = "active"
	UserInactive = "inactive"
)

// User is a platform account. Balance is only ever mutated by the investment
// commit (debit) and the recharge operation (credit).
type User struct {
	UserID       uuid.UUID      `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	Name         string         `gorm:"column:name;not null" json:"name"`
	Email        string         `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash string         `gorm:"column:password_hash;not null" json:"-"`
	Role         string         `gorm:"column:role;not null" json:"role"`
	Balance      float64        `gorm:"column:balance;type:decimal(15,2);not null;default:0" json:"balance"`
	Bio          string         `gorm:"column:bio" json:"bio"`
	Country      string         `gorm:"column:country" json:"country"`
	AvatarURL    string         `gorm:"column:avatar_url" json:"avatar_url"`
	Status       string         `gorm:"column:status;not null;default:active" json:"status"`
	LastLoginAt  *time.Time     `gorm:"column:last_login_at" json:"last_login_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate sets UUID if not set (for DBs without gen_random_uuid).
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	return nil
}
