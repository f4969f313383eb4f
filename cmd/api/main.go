package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"seedfund-backend/internal/app"
	"seedfund-backend/internal/config"
	"seedfund-backend/internal/database"
	"seedfund-backend/internal/maintenance"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	fiberApp, db, rdb, err := app.CreateApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("app create failed")
	}

	if db != nil {
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatal().Err(err).Msg("database handle unavailable")
		}
		if err := sqlDB.Ping(); err != nil {
			log.Fatal().Err(err).Msg("database connection failed")
		}
		if err := database.AutoMigrate(db); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
		log.Info().Msg("database connected")
	}
	if rdb != nil {
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		log.Info().Msg("redis connected")
	}

	var sweeper *maintenance.Sweeper
	if db != nil {
		sweeper = maintenance.New(db)
		sweeper.Run()
		if err := sweeper.Start(cfg.MaintenanceSchedule); err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.MaintenanceSchedule).Msg("maintenance schedule invalid")
		}
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server listening")
		if err := fiberApp.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	if sweeper != nil {
		sweeper.Stop()
	}
	if err := fiberApp.Shutdown(); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}
	if db != nil {
		if err := database.Close(db); err != nil {
			log.Error().Err(err).Msg("database close failed")
		}
	}
}
