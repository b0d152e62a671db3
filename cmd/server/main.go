// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/fortexuz/fortex-backend/internal/config"
	"github.com/fortexuz/fortex-backend/internal/database"
	"github.com/fortexuz/fortex-backend/internal/i18n"
	"github.com/fortexuz/fortex-backend/internal/repository"
	"github.com/fortexuz/fortex-backend/internal/router"
	"github.com/fortexuz/fortex-backend/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal("Failed to load configuration: ", err)
	}

	configureLogging(cfg)

	// Open the store
	store, db, err := openStore(cfg)
	if err != nil {
		logrus.Fatal("Failed to initialize storage: ", err)
	}
	if db != nil {
		defer database.Close(db)
	}

	// Initialize i18n
	if err := i18n.Initialize(); err != nil {
		logrus.Fatal("Failed to initialize i18n: ", err)
	}

	// Staff notifications go through a queue so checkout never waits on
	// Telegram
	queue := newNotificationQueue(cfg)
	queue.Start()
	notifier := services.NewNotificationService(queue, cfg)

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	r, err := router.Initialize(store, notifier, cfg)
	if err != nil {
		logrus.Fatal("Failed to initialize router: ", err)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logrus.WithFields(logrus.Fields{
			"port":    cfg.Server.Port,
			"storage": cfg.Storage.Driver,
		}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatal("Failed to start server: ", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown server
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Error("Server forced to shutdown: ", err)
	}

	// Give queued notifications the rest of the deadline
	if err := queue.Stop(ctx); err != nil {
		logrus.WithError(err).Warn("Notification queue did not drain")
	}

	logrus.Info("Server exited")
}

func configureLogging(cfg *config.Config) {
	if cfg.Environment == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

// openStore builds the repositories for the configured driver. The gorm
// handle is returned for postgres only.
func openStore(cfg *config.Config) (*repository.Store, *gorm.DB, error) {
	switch cfg.Storage.Driver {
	case "memory":
		return repository.NewMemoryStore(cfg.Storage.SeedCatalog), nil, nil

	case "file":
		docs, err := repository.NewFileDocumentStore(cfg.Storage.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewDocumentStore(docs, cfg.Storage.SeedCatalog), nil, nil

	case "postgres":
		db, err := database.Initialize(cfg.Database)
		if err != nil {
			return nil, nil, err
		}

		// Run database migrations
		if err := database.RunMigrations(db); err != nil {
			database.Close(db)
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		if cfg.Storage.SeedCatalog {
			if err := database.SeedCatalog(db); err != nil {
				database.Close(db)
				return nil, nil, fmt.Errorf("failed to seed catalog: %w", err)
			}
		}

		// Carts and language choices are per-session and stay on disk
		sessions, err := repository.NewFileDocumentStore(cfg.Storage.DataDir)
		if err != nil {
			database.Close(db)
			return nil, nil, err
		}
		return repository.NewGormStore(db, sessions), db, nil
	}

	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

func newNotificationQueue(cfg *config.Config) *services.NotificationQueue {
	var sender services.Sender = services.LogSender{}
	if cfg.Telegram.Enabled() {
		sender = services.NewTelegramClient(cfg.Telegram)
	} else {
		logrus.Warn("Telegram is not configured; notifications are only logged")
	}

	var fallback services.Sender
	if email := services.NewEmailSender(cfg.Email); email.Configured() {
		fallback = email
	}

	return services.NewNotificationQueue(sender, fallback, services.QueueOptionsFromConfig(cfg.Telegram))
}
