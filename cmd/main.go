package main

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	httpapi "github.com/minhtran24/meethub/internal/api/http"
	"github.com/minhtran24/meethub/internal/auth"
	"github.com/minhtran24/meethub/internal/config"
	"github.com/minhtran24/meethub/internal/repository"
	"github.com/minhtran24/meethub/internal/repository/model"
	"github.com/minhtran24/meethub/internal/service"
	"github.com/minhtran24/meethub/internal/signaling"
	"github.com/minhtran24/meethub/lib/logger/slogpretty"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load(".env")

	cfg := config.MustLoad()
	log := setupLogger(cfg.Env)

	if cfg.Auth.Secret == "" {
		log.Error("auth secret is not configured")
		os.Exit(1)
	}

	db, err := connectDatabase(cfg.Database)
	if err != nil {
		log.Error("failed to connect database", slog.Any("error", err))
		os.Exit(1)
	}

	meetingRepo := repository.NewPostgresMeetingRepository(db)
	userRepo := repository.NewPostgresUserRepository(db)

	tokenManager := auth.NewTokenManager(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	verifier := auth.NewVerifier(tokenManager, userRepo)

	meetingService := service.NewMeetingService(meetingRepo, log)
	userService := service.NewUserService(userRepo, tokenManager, log)

	gateway := signaling.NewGateway(verifier, meetingService, log)

	authController := httpapi.NewAuthController(userService)
	meetingController := httpapi.NewMeetingController(meetingService, gateway.Registry())
	userController := httpapi.NewUserController(userService)

	router := httpapi.SetupRouter(cfg, verifier, authController, meetingController, userController, gateway)

	log.Info("starting application", slog.String("addr", cfg.HTTP.Address))
	if err := router.Run(cfg.HTTP.Address); err != nil {
		log.Error("http server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = setupPrettySlog()
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}

func connectDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	if cfg.DSN == "" {
		return nil, errors.New("database dsn is empty")
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	db.AutoMigrate(&model.User{}, &model.Meeting{}, &model.MeetingParticipant{})

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}
