package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/rafaelminatto1/fisioflow-sub012/internal/clock"
	"github.com/rafaelminatto1/fisioflow-sub012/internal/config"
	"github.com/rafaelminatto1/fisioflow-sub012/internal/models"
	"github.com/rafaelminatto1/fisioflow-sub012/internal/routes"
)

func main() {
	// .env is optional outside development
	_ = godotenv.Load()

	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error loading config")
	}
	if level, perr := zerolog.ParseLevel(cfg.LogLevel); perr == nil {
		log = log.Level(level)
	}

	db, err := models.InitDB(models.DatabaseConfig{DSN: cfg.Database.DSN})
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Tenant-ID", "X-User-ID"}
	router.Use(cors.New(corsConfig))

	comp := routes.SetupRoutes(router, db, cfg, log)

	// One-minute wall-clock tick for the "now" indicator. Read-only: the
	// composer caches the timestamp and nothing else changes.
	ticker := clock.NewTicker(time.Minute)
	ticker.Start()
	defer ticker.Stop()
	ticks, unsubscribe := ticker.Subscribe()
	defer unsubscribe()
	go func() {
		for now := range ticks {
			comp.RefreshNow(now)
		}
	}()

	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	log.Info().Str("port", cfg.Port).Msg("server running")
	if err := router.Run(serverAddr); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
