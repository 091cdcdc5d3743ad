// main.go
package main

import (
	"log"
	"time"

	"media-catalog/cmd"
	"media-catalog/internal/data/repository"
	"media-catalog/internal/wire"
	"media-catalog/pkg/database"
	"media-catalog/pkg/lock"
	"media-catalog/pkg/utils"

	"go.uber.org/zap"
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

	// Connect to the identity database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Submit lock, keyed per (author, item)
	locker, err := lock.NewRedisLock(
		config.Redis.Addr,
		config.Redis.Password,
		config.Redis.DB,
		time.Duration(config.Redis.LockTTLSeconds)*time.Second,
	)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer locker.Close()

	logger.Info("Redis connected successfully", zap.String("addr", config.Redis.Addr))

	// Remote review collection client
	reviewStore := repository.NewHTTPReviewStore(
		config.Store.BaseURL,
		time.Duration(config.Store.TimeoutSeconds)*time.Second,
		logger,
	)

	// Initialize all repositories
	repos := repository.NewRepository(db, reviewStore, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, locker, config, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}
