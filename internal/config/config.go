package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	DatabaseURL         string
	RedisURL            string
	JWTSecret           string
	TokenTTL            time.Duration // bearer token lifetime
	StartingBalance     float64       // balance granted to investors at registration
	UniqueInvestment    bool          // reject a second investment on the same (project, investor)
	LockWait            time.Duration // upper bound on waiting for contended balance/project rows
	StatsCacheTTL       time.Duration // Redis cache lifetime for global stats
	MaintenanceSchedule string        // cron spec for the expiry/completion sweep
	FrontendOrigin      string
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	secret := viper.GetString("JWT_SECRET")
	if secret == "" && env != "production" {
		secret = "dev_secret_key_change_in_production"
	}

	return &Config{
		Env:                 env,
		Port:                port,
		DatabaseURL:         viper.GetString("DATABASE_URL"),
		RedisURL:            viper.GetString("REDIS_URL"),
		JWTSecret:           secret,
		TokenTTL:            durationOr("TOKEN_TTL", 7*24*time.Hour),
		StartingBalance:     floatOr("STARTING_BALANCE", 1000),
		UniqueInvestment:    strings.EqualFold(viper.GetString("UNIQUE_INVESTMENT_PER_PROJECT"), "true"),
		LockWait:            durationOr("LOCK_WAIT", 5*time.Second),
		StatsCacheTTL:       durationOr("STATS_CACHE_TTL", time.Minute),
		MaintenanceSchedule: stringOr("MAINTENANCE_SCHEDULE", "0 2 * * *"),
		FrontendOrigin:      viper.GetString("FRONTEND_ORIGIN"),
	}, nil
}

func stringOr(key, def string) string {
	s := strings.TrimSpace(viper.GetString(key))
	if s == "" {
		return def
	}
	return s
}

func durationOr(key string, def time.Duration) time.Duration {
	if d := viper.GetDuration(key); d > 0 {
		return d
	}
	return def
}

func floatOr(key string, def float64) float64 {
	if viper.IsSet(key) {
		return viper.GetFloat64(key)
	}
	return def
}
