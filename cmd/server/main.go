package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dawam/attendance-system/internal/api"
	"github.com/dawam/attendance-system/internal/core/service"
	"github.com/dawam/attendance-system/internal/infrastructure/db/mongo"
	"github.com/dawam/attendance-system/internal/infrastructure/db/redis"
	"github.com/dawam/attendance-system/internal/infrastructure/notify"
	"github.com/dawam/attendance-system/internal/infrastructure/queue"
	"github.com/dawam/attendance-system/internal/pkg/config"
	"github.com/dawam/attendance-system/internal/pkg/timeutil"
	"github.com/dawam/attendance-system/pkg/logger"
)

// @title        Attendance API
// @version      1.0
// @description  Employee attendance tracking: check-in, check-out, rolling 30-day summaries.
// @BasePath     /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the admin token.

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Service: "attendance-api",
		Pretty:  cfg.Env == "development",
	})

	clock, err := timeutil.LoadClock(cfg.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Timezone).Msg("invalid display timezone")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- MongoDB ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	attendanceRepo := mongo.NewAttendanceRepository(db)
	employeeRepo := mongo.NewEmployeeRepository(db)
	if err := attendanceRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("attendance index bootstrap failed")
	}
	if err := employeeRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("employee index bootstrap failed")
	}

	// --- Redis ---
	rdb, err := redis.Connect(ctx, redis.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("redis close failed")
		}
	}()
	summaryCache := redis.NewSummaryCache(rdb)

	// --- Notifications ---
	mailer := notify.NewMailer(notify.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		Owner:    cfg.SMTP.Owner,
	}, log)
	dispatcher := queue.NewDispatcher(cfg.NotifyWorkers, mailer, log)
	dispatcher.Start(ctx)

	// --- Services ---
	attendanceService := service.NewAttendanceService(attendanceRepo, employeeRepo, summaryCache, dispatcher, clock, log)
	authService := service.NewAuthService(employeeRepo, cfg.AdminPassword, cfg.JWTSecret, 12*time.Hour)

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		Attendance: attendanceService,
		Auth:       authService,
		Mongo:      db,
		Redis:      rdb,
		JWTSecret:  cfg.JWTSecret,
		StaticDir:  cfg.StaticDir,
		Logger:     log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}
