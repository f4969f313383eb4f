package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Project statuses. Raised may exceed Goal; once Raised >= Goal an active
// project becomes completed.
const (
	ProjectActive    = "active"
	ProjectCompleted = "completed"
	ProjectExpired   = "expired"
	ProjectCanceled  = "canceled"
)

// Project is a funding campaign owned by an entrepreneur. Raised,
// InvestorsCount and Status are mutated by the investment commit and the
// maintenance sweep only.
type Project struct {
	ProjectID      uuid.UUID      `gorm:"column:project_id;type:uuid;primaryKey" json:"project_id"`
	OwnerID        uuid.UUID      `gorm:"column:owner_id;type:uuid;not null;index" json:"owner_id"`
	Title          string         `gorm:"column:title;not null" json:"title"`
	Description    string         `gorm:"column:description;type:text" json:"description"`
	Category       string         `gorm:"column:category;default:general" json:"category"`
	Tags           datatypes.JSON `gorm:"column:tags" json:"tags"`
	ImageURL       string         `gorm:"column:image_url" json:"image_url"`
	Goal           float64        `gorm:"column:goal;type:decimal(15,2);not null" json:"goal"`
	Raised         float64        `gorm:"column:raised;type:decimal(15,2);not null;default:0" json:"raised"`
	InvestorsCount int            `gorm:"column:investors_count;not null;default:0" json:"investors_count"`
	Views          int            `gorm:"column:views;not null;default:0" json:"views"`
	Deadline       time.Time      `gorm:"column:deadline;not null" json:"deadline"`
	Status         string         `gorm:"column:status;not null;default:active" json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`

	Owner *User `gorm:"foreignKey:OwnerID;references:UserID" json:"owner,omitempty"`
}

func (Project) TableName() string {
	return "projects"
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ProjectID == uuid.Nil {
		p.ProjectID = uuid.New()
	}
	return nil
}

// PercentFunded is Raised over Goal as a percentage (0 when Goal is 0).
func (p *Project) PercentFunded() float64 {
	if p.Goal <= 0 {
		return 0
	}
	return p.Raised / p.Goal * 100
}
