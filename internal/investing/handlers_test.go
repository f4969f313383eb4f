package investing

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"seedfund-backend/internal/auth"
	"seedfund-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupHandlerTest(t *testing.T) (*fiber.App, *gorm.DB, *models.User) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Project{}, &models.Investment{}))

	investor := seedInvestor(t, db, 500)

	h := &Handlers{Service: &Service{DB: db}}
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", &auth.Claims{
			UserID: investor.UserID.String(),
			Email:  investor.Email,
			Role:   models.RoleInvestor,
		})
		return c.Next()
	})
	app.Post("/projects/:id/invest", h.Invest)
	return app, db, investor
}

func TestInvest_Created(t *testing.T) {
	app, db, _ := setupHandlerTest(t)
	project := seedProject(t, db, 1000, 0, models.ProjectActive)

	body, _ := json.Marshal(map[string]interface{}{"amount": 150, "note": "rooting for you"})
	req := httptest.NewRequest("POST", "/projects/"+project.ProjectID.String()+"/invest", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	assert.Equal(t, true, result["success"])
	data, _ := result["data"].(map[string]interface{})
	projectOut, _ := data["project"].(map[string]interface{})
	assert.Equal(t, 150.0, projectOut["raised"])
}

func TestInvest_InvalidProjectID(t *testing.T) {
	app, _, _ := setupHandlerTest(t)

	body, _ := json.Marshal(map[string]interface{}{"amount": 100})
	req := httptest.NewRequest("POST", "/projects/not-a-uuid/invest", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestInvest_ProjectNotFound(t *testing.T) {
	app, _, _ := setupHandlerTest(t)

	body, _ := json.Marshal(map[string]interface{}{"amount": 100})
	req := httptest.NewRequest("POST", "/projects/"+uuid.New().String()+"/invest", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestInvest_AmountBounds(t *testing.T) {
	app, db, _ := setupHandlerTest(t)
	project := seedProject(t, db, 1000, 0, models.ProjectActive)

	for _, amount := range []float64{0, -5, MaxInvestmentAmount + 1} {
		body, _ := json.Marshal(map[string]interface{}{"amount": amount})
		req := httptest.NewRequest("POST", "/projects/"+project.ProjectID.String()+"/invest", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode, "amount %v", amount)
	}
}

func TestInvest_InsufficientFunds(t *testing.T) {
	app, db, investor := setupHandlerTest(t)
	project := seedProject(t, db, 1000, 0, models.ProjectActive)
	require.NoError(t, db.Model(&models.User{}).
		Where("user_id = ?", investor.UserID).
		Update("balance", 10).Error)

	body, _ := json.Marshal(map[string]interface{}{"amount": 100})
	req := httptest.NewRequest("POST", "/projects/"+project.ProjectID.String()+"/invest", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	assert.Equal(t, false, result["success"])
	assert.Equal(t, ErrInsufficientFunds.Error(), result["error"])
}

func TestInvest_UnexpectedErrorIsGeneric(t *testing.T) {
	app, db, _ := setupHandlerTest(t)
	project := seedProject(t, db, 1000, 0, models.ProjectActive)
	// Break the schema so the insert fails with a raw database error.
	require.NoError(t, db.Migrator().DropTable(&models.Investment{}))

	body, _ := json.Marshal(map[string]interface{}{"amount": 100})
	req := httptest.NewRequest("POST", "/projects/"+project.ProjectID.String()+"/invest", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	assert.Equal(t, "Internal Server Error", result["error"])
}

func TestInvest_ExpiredProject(t *testing.T) {
	app, db, _ := setupHandlerTest(t)
	project := seedProject(t, db, 1000, 0, models.ProjectActive)
	require.NoError(t, db.Model(project).Update("deadline", time.Now().Add(-time.Hour)).Error)

	body, _ := json.Marshal(map[string]interface{}{"amount": 100})
	req := httptest.NewRequest("POST", "/projects/"+project.ProjectID.String()+"/invest", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}
