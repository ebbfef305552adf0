package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/melodia/agenda_bot/internal/app"
	"github.com/melodia/agenda_bot/internal/config"
	"github.com/melodia/agenda_bot/internal/controller"
	"github.com/melodia/agenda_bot/internal/repository"
	"github.com/melodia/agenda_bot/internal/service"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Sugar().Infow("Starting agenda bot",
		"environment", cfg.Environment,
		"token_length", len(cfg.TelegramToken))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Database is not reachable", zap.Error(err))
	}

	// Миграции накатываются на старте
	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		logger.Fatal("Failed to init migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	if err := migrator.Close(); err != nil {
		logger.Warn("Failed to close migrator", zap.Error(err))
	}

	// Репозитории
	lessonRepo := repository.NewLessonRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	roomRepo := repository.NewRoomRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)

	// Telegram bot
	botInstance, err := bot.New(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	sender := controller.NewTelegramSender(botInstance)

	// Сервисы
	userService := service.NewUserService(userRepo, logger)
	agendaService := service.NewAgendaService(lessonRepo, logger)
	bookingService := service.NewBookingService(lessonRepo, logger)
	directoryService := service.NewDirectoryService(courseRepo, roomRepo, logger)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, sender, logger)

	// Контроллер бота
	botController := controller.NewBotController(
		botInstance,
		userService,
		agendaService,
		bookingService,
		directoryService,
		notificationService,
		logger,
		cfg.AgendaFontPath,
	)

	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Fatal("Failed to register handlers", zap.Error(err))
	}

	// Фоновые напоминания о занятиях
	scheduler := app.NewScheduler(lessonRepo, notificationService, directoryService, cfg.ReminderLeadHours, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	if err := botController.Start(ctx); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}

	logger.Info("Agenda bot stopped")
}
