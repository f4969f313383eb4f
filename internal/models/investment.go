package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Investment statuses. Refunds are handled by an external process; rows are
// otherwise immutable after creation.
const (
	InvestmentActive    = "active"
	InvestmentCompleted = "completed"
	InvestmentRefunded  = "refunded"
)

// Investment is the join record written exactly once by the investment commit.
type Investment struct {
	InvestmentID uuid.UUID `gorm:"column:investment_id;type:uuid;primaryKey" json:"investment_id"`
	ProjectID    uuid.UUID `gorm:"column:project_id;type:uuid;not null;index" json:"project_id"`
	InvestorID   uuid.UUID `gorm:"column:investor_id;type:uuid;not null;index" json:"investor_id"`
	Amount       float64   `gorm:"column:amount;type:decimal(15,2);not null" json:"amount"`
	Note         string    `gorm:"column:note" json:"note"`
	Status       string    `gorm:"column:status;not null;default:active" json:"status"`
	CreatedAt    time.Time `json:"created_at"`

	Project  *Project `gorm:"foreignKey:ProjectID;references:ProjectID" json:"project,omitempty"`
	Investor *User    `gorm:"foreignKey:InvestorID;references:UserID" json:"investor,omitempty"`
}

func (Investment) TableName() string {
	return "investments"
}

func (i *Investment) BeforeCreate(tx *gorm.DB) error {
	if i.InvestmentID == uuid.Nil {
		i.InvestmentID = uuid.New()
	}
	return nil
}
