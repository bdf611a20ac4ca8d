// main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yamdb/cmd"
	"yamdb/internal/data/migrations"
	"yamdb/internal/data/repository"
	"yamdb/internal/metrics"
	"yamdb/internal/wire"
	"yamdb/pkg/cache"
	"yamdb/pkg/database"
	"yamdb/pkg/notify"
	"yamdb/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Run migrations
	if config.App.MigrationsRun {
		if err := migrations.Up(config.Database.MigrateURL(), logger); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	// Connect to database
	db, err := database.InitDB(ctx, config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Signup throttle, only when Redis is configured
	throttle := (*cache.SignupThrottle)(nil)
	if config.Redis.Enabled {
		client, err := cache.Connect(ctx, cache.Config{Addr: config.Redis.Addr, DB: config.Redis.DB})
		if err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer client.Close()

		window := time.Duration(config.Code.ResendWindowSeconds) * time.Second
		throttle = cache.NewSignupThrottle(client, window)
		logger.Info("Redis connected successfully", zap.String("addr", config.Redis.Addr))
	}

	// Confirmation mail
	dispatcher := notify.NewDispatcher(config.Email.Workers, notify.NewLogMailer(config.Email.From, logger), logger)
	dispatcher.OnDrop = func(notify.Message) { metrics.NotificationsDroppedTotal.Inc() }

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app, err := wire.Wiring(repos, config, dispatcher, throttle, logger)
	if err != nil {
		logger.Fatal("Failed to wire application", zap.Error(err))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		dispatcher.Start(gctx)
		<-gctx.Done()
		dispatcher.Wait()
		return nil
	})
	g.Go(func() error {
		return cmd.APIServer(gctx, app.Router, config.App.Port, logger)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		return
	}
	logger.Info("Server stopped")
}
