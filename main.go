package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"studio-booking/cmd"
	"studio-booking/internal/data/repository"
	"studio-booking/internal/notify"
	"studio-booking/internal/wire"
	"studio-booking/pkg/database"
	"studio-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.String("notifier", config.Notifier.Driver),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	repos := repository.NewRepository(db, logger)

	notifier, closeNotifier, err := notify.New(config.Notifier, repos.Notification, logger)
	if err != nil {
		logger.Fatal("Failed to init notifier", zap.Error(err))
	}
	defer func() {
		if err := closeNotifier(); err != nil {
			logger.Warn("Failed to close notifier", zap.Error(err))
		}
	}()

	// Queued notifications land in the inbox table.
	if config.Notifier.Driver == notify.DriverAsynq {
		worker := notify.NewWorker(config.Notifier, notify.NewStoreNotifier(repos.Notification), logger)
		if err := worker.Start(); err != nil {
			logger.Fatal("Failed to start notification worker", zap.Error(err))
		}
		defer worker.Shutdown()
	}

	app := wire.Wiring(repos, notifier, config, logger)

	if err := app.Service.Booking.Warm(ctx); err != nil {
		logger.Fatal("Failed to load active bookings", zap.Error(err))
	}

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped", zap.Error(err))
	}
}
