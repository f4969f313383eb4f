package investing

import (
	"context"
	"errors"
	"time"

	"seedfund-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultLockWait bounds how long a commit waits on rows held by a
// concurrent transaction before giving up with ErrLockTimeout.
const DefaultLockWait = 5 * time.Second

type Service struct {
	DB *gorm.DB
	// UniquePerProject rejects a second investment by the same investor on
	// the same project. Policy, not schema: both behaviors exist in the wild.
	UniquePerProject bool
	// LockWait overrides DefaultLockWait when positive.
	LockWait time.Duration
}

// Result is the commit outcome: the new investment row and the project
// snapshot after the funding update.
type Result struct {
	Investment models.Investment `json:"investment"`
	Project    models.Project    `json:"project"`
}

// Commit records an investment: it locks the investor's balance row, then the
// project row, inserts the investment, debits the balance, credits the raised
// total, bumps the investor count and applies the goal-completion rule, all
// inside one transaction. Any failure rolls back the whole set.
//
// Lock order is fixed (balance row, then project row) at every call site so
// two in-flight commits cannot deadlock; whichever transaction locks first
// runs to completion before the other reads the rows.
func (s *Service) Commit(ctx context.Context, investorID, projectID uuid.UUID, amount float64, note string) (*Result, error) {
	// Round once up front so the stored amount, the debit and the credit
	// all agree to the cent.
	amount = round2(amount)
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	wait := s.LockWait
	if wait <= 0 {
		wait = DefaultLockWait
	}
	ctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	var out Result
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var investor models.User
		if err := lockForUpdate(tx).Where("user_id = ?", investorID).First(&investor).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if investor.Balance < amount {
			return ErrInsufficientFunds
		}

		var project models.Project
		if err := lockForUpdate(tx).Where("project_id = ?", projectID).First(&project).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProjectNotFound
			}
			return err
		}
		if project.Status != models.ProjectActive {
			return ErrProjectNotActive
		}
		if project.Deadline.Before(time.Now()) {
			return ErrProjectExpired
		}
		if project.OwnerID == investorID {
			return ErrSelfInvestment
		}

		if s.UniquePerProject {
			var count int64
			if err := tx.Model(&models.Investment{}).
				Where("project_id = ? AND investor_id = ?", projectID, investorID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return ErrDuplicateInvestment
			}
		}

		investment := models.Investment{
			ProjectID:  projectID,
			InvestorID: investorID,
			Amount:     amount,
			Note:       note,
			Status:     models.InvestmentActive,
		}
		if err := tx.Create(&investment).Error; err != nil {
			return err
		}

		investor.Balance = round2(investor.Balance - amount)
		if err := tx.Save(&investor).Error; err != nil {
			return err
		}

		project.Raised = round2(project.Raised + amount)
		project.InvestorsCount++
		project.Status = decideStatus(project.Raised, project.Goal, project.Status)
		if err := tx.Save(&project).Error; err != nil {
			return err
		}

		out = Result{Investment: investment, Project: project}
		return nil
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrLockTimeout
		}
		return nil, err
	}
	return &out, nil
}

// lockForUpdate adds a FOR UPDATE clause on dialects that support row locks.
// SQLite serializes writers itself and rejects the syntax.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
