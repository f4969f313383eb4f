package investing

import (
	"context"
	"sync"
	"testing"
	"time"

	"seedfund-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupInvestTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	// One connection: in-memory sqlite gives every pooled connection its
	// own database, and a single writer serializes transactions.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Project{}, &models.Investment{}))
	return &Service{DB: db}, db
}

func seedInvestor(t *testing.T, db *gorm.DB, balance float64) *models.User {
	t.Helper()
	user := models.User{
		Name:         "Investor",
		Email:        uuid.New().String() + "@test.dev",
		PasswordHash: "x",
		Role:         models.RoleInvestor,
		Balance:      balance,
		Status:       models.UserActive,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedProject(t *testing.T, db *gorm.DB, goal, raised float64, status string) *models.Project {
	t.Helper()
	owner := models.User{
		Name:         "Owner",
		Email:        uuid.New().String() + "@test.dev",
		PasswordHash: "x",
		Role:         models.RoleEntrepreneur,
		Status:       models.UserActive,
	}
	require.NoError(t, db.Create(&owner).Error)
	project := models.Project{
		OwnerID:     owner.UserID,
		Title:       "Campaign",
		Description: "A campaign used by the investing tests.",
		Goal:        goal,
		Raised:      raised,
		Deadline:    time.Now().Add(30 * 24 * time.Hour),
		Status:      status,
	}
	require.NoError(t, db.Create(&project).Error)
	return &project
}

func TestCommit_HappyPath(t *testing.T) {
	svc, db := setupInvestTest(t)
	investor := seedInvestor(t, db, 500)
	project := seedProject(t, db, 1000, 0, models.ProjectActive)

	result, err := svc.Commit(context.Background(), investor.UserID, project.ProjectID, 200, "good luck")
	require.NoError(t, err)

	assert.Equal(t, 200.0, result.Investment.Amount)
	assert.Equal(t, "good luck", result.Investment.Note)
	assert.Equal(t, models.InvestmentActive, result.Investment.Status)
	assert.Equal(t, 200.0, result.Project.Raised)
	assert.Equal(t, 1, result.Project.InvestorsCount)
	assert.Equal(t, models.ProjectActive, result.Project.Status)

	var fresh models.User
	require.NoError(t, db.First(&fresh, "user_id = ?", investor.UserID).Error)
	assert.Equal(t, 300.0, fresh.Balance)

	var count int64
	require.NoError(t, db.Model(&models.Investment{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCommit_InsufficientFundsLeavesNothingBehind(t *testing.T) {
	svc, db := setupInvestTest(t)
	investor := seedInvestor(t, db, 50)
	project := seedProject(t, db, 1000, 100, models.ProjectActive)

	_, err := svc.Commit(context.Background(), investor.UserID, project.ProjectID, 200, "")
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	var freshUser models.User
	require.NoError(t, db.First(&freshUser, "user_id = ?", investor.UserID).Error)
	assert.Equal(t, 50.0, freshUser.Balance)

	var freshProject models.Project
	require.NoError(t, db.First(&freshProject, "project_id = ?", project.ProjectID).Error)
	assert.Equal(t, 100.0, freshProject.Raised)
	assert.Equal(t, 0, freshProject.InvestorsCount)

	var count int64
	require.NoError(t, db.Model(&models.Investment{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestCommit_InvalidAmount(t *testing.T) {
	svc, db := setupInvestTest(t)
	investor := seedInvestor(t, db, 500)
	project := seedProject(t, db, 1000, 0, models.ProjectActive)

	_, err := svc.Commit(context.Background(), investor.UserID, project.ProjectID, 0, "")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Commit(context.Background(), investor.UserID, project.ProjectID, -10, "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestCommit_UnknownUserAndProject(t *testing.T) {
	svc, db := setupInvestTest(t)
	investor := seedInvestor(t, db, 500)
	project := seedProject(t, db, 1000, 0, models.ProjectActive)

	_, err := svc.Commit(context.Background(), uuid.New(), project.ProjectID, 100, "")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.Commit(context.Background(), investor.UserID, uuid.New(), 100, "")
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestCommit_RejectsInactiveProject(t *testing.T) {
	svc, db := setupInvestTest(t)
	investor := seedInvestor(t, db, 500)

	for _, status := range []string{models.ProjectCompleted, models.ProjectExpired, models.ProjectCanceled} {
		project := seedProject(t, db, 1000, 0, status)
		_, err := svc.Commit(context.Background(), investor.UserID, project.ProjectID, 100, "")
		assert.ErrorIs(t, err, ErrProjectNotActive, "status %s", status)
	}
}

func TestCommit_RejectsPastDeadline(t *testing.T) {
	svc, db := setupInvestTest(t)
	investor := seedInvestor(t, db, 500)
	project := seedProject(t, db, 1000, 0, models.ProjectActive)
	require.NoError(t, db.Model(project).Update("deadline", time.Now().Add(-time.Hour)).Error)

	_, err := svc.Commit(context.Background(), investor.UserID, project.ProjectID, 100, "")
	assert.ErrorIs(t, err, ErrProjectExpired)
}

func TestCommit_RejectsSelfInvestment(t *testing.T) {
	svc, db := setupInvestTest(t)
	project := seedProject(t, db, 1000, 0, models.ProjectActive)
	// Give the owner an investor-sized balance; ownership must still win.
	require.NoError(t, db.Model(&models.User{}).
		Where("user_id = ?", project.OwnerID).
		Update("balance", 500).Error)

	_, err := svc.Commit(context.Background(), project.OwnerID, project.ProjectID, 100, "")
	assert.ErrorIs(t, err, ErrSelfInvestment)
}

func TestCommit_GoalCompletionRule(t *testing.T) {
	svc, db := setupInvestTest(t)
	investor := seedInvestor(t, db, 500)
	project := seedProject(t, db, 1000, 950, models.ProjectActive)

	result, err := svc.Commit(context.Background(), investor.UserID, project.ProjectID, 40, "")
	require.NoError(t, err)
	assert.Equal(t, 990.0, result.Project.Raised)
	assert.Equal(t, models.ProjectActive, result.Project.Status)

	result, err = svc.Commit(context.Background(), investor.UserID, project.ProjectID, 10, "")
	require.NoError(t, err)
	assert.Equal(t, 1000.0, result.Project.Raised)
	assert.Equal(t, models.ProjectCompleted, result.Project.Status)
}

func TestCommit_RaisedMayExceedGoal(t *testing.T) {
	svc, db := setupInvestTest(t)
	investor := seedInvestor(t, db, 500)
	project := seedProject(t, db, 1000, 950, models.ProjectActive)

	result, err := svc.Commit(context.Background(), investor.UserID, project.ProjectID, 200, "")
	require.NoError(t, err)
	assert.Equal(t, 1150.0, result.Project.Raised)
	assert.Equal(t, models.ProjectCompleted, result.Project.Status)
}

func TestCommit_DuplicatePolicy(t *testing.T) {
	svc, db := setupInvestTest(t)
	investor := seedInvestor(t, db, 500)
	project := seedProject(t, db, 1000, 0, models.ProjectActive)

	_, err := svc.Commit(context.Background(), investor.UserID, project.ProjectID, 100, "")
	require.NoError(t, err)

	// Default policy allows repeated investments on the same project.
	_, err = svc.Commit(context.Background(), investor.UserID, project.ProjectID, 100, "")
	require.NoError(t, err)

	svc.UniquePerProject = true
	_, err = svc.Commit(context.Background(), investor.UserID, project.ProjectID, 100, "")
	assert.ErrorIs(t, err, ErrDuplicateInvestment)
}

func TestCommit_RoundsToCents(t *testing.T) {
	svc, db := setupInvestTest(t)
	investor := seedInvestor(t, db, 100)
	project := seedProject(t, db, 1000, 0, models.ProjectActive)

	result, err := svc.Commit(context.Background(), investor.UserID, project.ProjectID, 33.333333, "")
	require.NoError(t, err)
	// The stored amount, the debit and the credit agree to the cent.
	assert.Equal(t, 33.33, result.Investment.Amount)
	assert.Equal(t, 33.33, result.Project.Raised)

	var fresh models.User
	require.NoError(t, db.First(&fresh, "user_id = ?", investor.UserID).Error)
	assert.Equal(t, 66.67, fresh.Balance)
}

func TestCommit_LockWaitBound(t *testing.T) {
	svc, db := setupInvestTest(t)
	investor := seedInvestor(t, db, 500)
	project := seedProject(t, db, 1000, 0, models.ProjectActive)
	svc.LockWait = 50 * time.Millisecond

	// Hold the single pooled connection in an open transaction so the
	// commit cannot begin until its deadline expires.
	tx := db.Begin()
	require.NoError(t, tx.Error)
	defer tx.Rollback()

	_, err := svc.Commit(context.Background(), investor.UserID, project.ProjectID, 100, "")
	assert.ErrorIs(t, err, ErrLockTimeout)
}

func TestCommit_CanceledContextLeavesNothingBehind(t *testing.T) {
	svc, db := setupInvestTest(t)
	investor := seedInvestor(t, db, 500)
	project := seedProject(t, db, 1000, 0, models.ProjectActive)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Commit(ctx, investor.UserID, project.ProjectID, 100, "")
	require.Error(t, err)

	var fresh models.User
	require.NoError(t, db.First(&fresh, "user_id = ?", investor.UserID).Error)
	assert.Equal(t, 500.0, fresh.Balance)

	var freshProject models.Project
	require.NoError(t, db.First(&freshProject, "project_id = ?", project.ProjectID).Error)
	assert.Equal(t, 0.0, freshProject.Raised)

	var count int64
	require.NoError(t, db.Model(&models.Investment{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestCommit_ConcurrentCommitsSerialize(t *testing.T) {
	svc, db := setupInvestTest(t)
	a := seedInvestor(t, db, 500)
	b := seedInvestor(t, db, 500)
	project := seedProject(t, db, 10000, 0, models.ProjectActive)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, investor := range []*models.User{a, b} {
		wg.Add(1)
		go func(i int, id uuid.UUID) {
			defer wg.Done()
			_, errs[i] = svc.Commit(context.Background(), id, project.ProjectID, 100, "")
		}(i, investor.UserID)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	var fresh models.Project
	require.NoError(t, db.First(&fresh, "project_id = ?", project.ProjectID).Error)
	assert.Equal(t, 200.0, fresh.Raised)
	assert.Equal(t, 2, fresh.InvestorsCount)

	var count int64
	require.NoError(t, db.Model(&models.Investment{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}
