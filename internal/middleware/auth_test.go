package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"seedfund-backend/internal/auth"
	"seedfund-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func protectedApp(role string) *fiber.App {
	app := fiber.New()
	handlers := []fiber.Handler{RequireAuth(testSecret)}
	if role != "" {
		handlers = append(handlers, RequireRole(role))
	}
	handlers = append(handlers, func(c *fiber.Ctx) error {
		actor := GetActor(c)
		return c.JSON(fiber.Map{"user_id": actor.UserID, "role": actor.Role})
	})
	app.Get("/protected", handlers...)
	return app
}

func signTestToken(t *testing.T, role string) string {
	t.Helper()
	token, err := auth.SignToken(testSecret, &models.User{
		UserID: uuid.New(), Email: "ana@test.dev", Role: role,
	}, time.Hour)
	require.NoError(t, err)
	return token
}

func TestRequireAuth_NoToken(t *testing.T) {
	app := protectedApp("")
	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestRequireAuth_BadToken(t *testing.T) {
	app := protectedApp("")
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestRequireAuth_WrongSecret(t *testing.T) {
	token, err := auth.SignToken("other-secret", &models.User{
		UserID: uuid.New(), Email: "ana@test.dev", Role: models.RoleInvestor,
	}, time.Hour)
	require.NoError(t, err)

	app := protectedApp("")
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestRequireAuth_ValidToken(t *testing.T) {
	app := protectedApp("")
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, models.RoleInvestor))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestRequireRole(t *testing.T) {
	app := protectedApp(models.RoleEntrepreneur)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, models.RoleInvestor))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)

	req = httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, models.RoleEntrepreneur))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
