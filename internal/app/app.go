package app

import (
	"seedfund-backend/internal/auth"
	"seedfund-backend/internal/config"
	"seedfund-backend/internal/dashboard"
	"seedfund-backend/internal/database"
	"seedfund-backend/internal/health"
	"seedfund-backend/internal/investing"
	"seedfund-backend/internal/middleware"
	"seedfund-backend/internal/models"
	"seedfund-backend/internal/projects"
	"seedfund-backend/internal/stats"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with all global middleware and route
// registration. The DB and Redis handles are returned so the caller owns
// their lifecycle.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{AllowedOrigin: cfg.FrontendOrigin}))
	app.Use(middleware.RouteLogger())

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		rdb = redis.NewClient(opt)
	}

	healthHandlers := &health.Handlers{DB: db, Rdb: rdb}
	app.Get("/health", healthHandlers.Check)

	if db == nil {
		// No DATABASE_URL (e.g. smoke tests): only /health is served.
		return app, db, rdb, nil
	}

	requireAuth := middleware.RequireAuth(cfg.JWTSecret)
	requireEntrepreneur := middleware.RequireRole(models.RoleEntrepreneur)
	requireInvestor := middleware.RequireRole(models.RoleInvestor)

	// Auth module
	authService := &auth.Service{DB: db, StartingBalance: cfg.StartingBalance}
	authHandlers := &auth.Handlers{Service: authService, Secret: cfg.JWTSecret, TokenTTL: cfg.TokenTTL}
	authGroup := app.Group("/api/auth")
	authGroup.Post("/register", authHandlers.Register)
	authGroup.Post("/login", authHandlers.Login)
	authGroup.Post("/verify", authHandlers.Verify)
	authGroup.Get("/profile", requireAuth, authHandlers.Profile)
	authGroup.Put("/profile", requireAuth, authHandlers.UpdateProfile)
	authGroup.Post("/recharge", requireAuth, authHandlers.Recharge)

	// Projects module (static paths before /:id)
	projectService := &projects.Service{DB: db}
	projectHandlers := &projects.Handlers{Service: projectService}
	investService := &investing.Service{
		DB:               db,
		UniquePerProject: cfg.UniqueInvestment,
		LockWait:         cfg.LockWait,
	}
	investHandlers := &investing.Handlers{Service: investService}
	projectGroup := app.Group("/api/projects")
	projectGroup.Get("/search", projectHandlers.Search)
	projectGroup.Get("/featured", projectHandlers.Featured)
	projectGroup.Get("/", projectHandlers.GetAll)
	projectGroup.Post("/", requireAuth, requireEntrepreneur, projectHandlers.Create)
	projectGroup.Get("/:id", projectHandlers.GetByID)
	projectGroup.Put("/:id", requireAuth, requireEntrepreneur, projectHandlers.Update)
	projectGroup.Delete("/:id", requireAuth, requireEntrepreneur, projectHandlers.Delete)
	projectGroup.Get("/:id/investments", projectHandlers.GetInvestments)
	projectGroup.Post("/:id/invest", requireAuth, requireInvestor, investHandlers.Invest)

	// Dashboard module
	dashService := &dashboard.Service{DB: db}
	dashHandlers := &dashboard.Handlers{Service: dashService}
	dashGroup := app.Group("/api/dashboard", requireAuth)
	dashGroup.Get("/entrepreneur", requireEntrepreneur, dashHandlers.Entrepreneur)
	dashGroup.Get("/investor", requireInvestor, dashHandlers.Investor)

	// Stats module
	statsService := &stats.Service{DB: db, Rdb: rdb, CacheTTL: cfg.StatsCacheTTL}
	statsHandlers := &stats.Handlers{Service: statsService}
	statsGroup := app.Group("/api/stats")
	statsGroup.Get("/global", statsHandlers.Global)
	statsGroup.Get("/realtime", statsHandlers.Realtime)

	return app, db, rdb, nil
}
