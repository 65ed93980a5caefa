package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/tutor_market/internal/app"
	"github.com/Freeeeeet/tutor_market/internal/config"
	"github.com/Freeeeeet/tutor_market/internal/controller/httpapi"
	"github.com/Freeeeeet/tutor_market/internal/notify"
	"github.com/Freeeeeet/tutor_market/internal/repository"
	"github.com/Freeeeeet/tutor_market/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	teacherRepo := repository.NewTeacherRepository(pool)
	slotRepo := repository.NewSlotRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)

	var notifier notify.Notifier = notify.Noop{}
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		tg, err := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID, logger)
		if err != nil {
			logger.Fatal("Failed to create telegram notifier", zap.Error(err))
		}
		notifier = tg
	}

	scheduleService := service.NewScheduleService(teacherRepo, slotRepo, sessionRepo, logger, cfg.QueryTimeout)
	assignmentService := service.NewAssignmentService(teacherRepo, slotRepo, sessionRepo, notifier, logger, cfg.QueryTimeout)
	availabilityService := service.NewAvailabilityService(teacherRepo, slotRepo, sessionRepo, logger, cfg.QueryTimeout)

	sweeper := app.NewSweeper(sessionRepo, time.Hour, logger)
	sweeper.Start(ctx)
	defer sweeper.Stop()

	fiberApp := fiber.New(fiber.Config{
		AppName:      "tutor_market scheduling",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	handler := httpapi.NewHandler(scheduleService, assignmentService, availabilityService, logger)
	handler.Register(fiberApp)

	go func() {
		logger.Info("Starting HTTP server",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("environment", cfg.Environment),
		)
		if err := fiberApp.Listen(cfg.HTTPAddr); err != nil {
			logger.Fatal("HTTP server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	if err := fiberApp.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("Failed to shut down HTTP server", zap.Error(err))
	}
}
