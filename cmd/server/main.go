package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/diewo77/bizadmin/auth"
	"github.com/diewo77/bizadmin/internal/chat"
	"github.com/diewo77/bizadmin/internal/config"
	"github.com/diewo77/bizadmin/internal/db"
	"github.com/diewo77/bizadmin/internal/handlers"
	"github.com/diewo77/bizadmin/internal/logging"
	"github.com/diewo77/bizadmin/internal/server"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Run DB seed and exit")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	log := logging.New(cfg.Log)

	auth.SetSecret(cfg.App.SessionSecret)
	auth.SetSessionTTL(cfg.App.SessionTTL)

	dbConn, err := db.Connect(cfg.Database, log)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if *migrateOnlyFlag {
		if err := migrate(cfg, dbConn); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Info("Migrations completed successfully")
		return
	}
	if *seedOnlyFlag {
		if err := db.Seed(dbConn); err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
		log.Info("Seeding completed successfully")
		return
	}

	if cfg.App.Migrations {
		if err := migrate(cfg, dbConn); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Info("Migrations completed")
	}
	if cfg.App.Seed {
		if err := db.Seed(dbConn); err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
	}

	opts := server.Options{
		DB:              dbConn,
		Log:             log,
		RequestIDHeader: cfg.Server.RequestIDHeader,
	}
	if assistant, closeFn := newAssistant(cfg, log); assistant != nil {
		defer closeFn()
		opts.Assistant = assistant
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      server.New(opts),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.WithFields(logrus.Fields{"port": cfg.Server.Port, "dev": cfg.App.Dev}).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Error during shutdown")
	}
	if sqlDB, err := dbConn.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("Server stopped gracefully")
}

// migrate applies the SQL migrations when enabled, AutoMigrate otherwise.
func migrate(cfg *config.Config, conn *gorm.DB) error {
	if cfg.App.Dev {
		return db.Migrate(conn)
	}
	return db.RunSQLMigrations(cfg.Database.URL())
}

// newAssistant builds the chat service, backed by redis when REDIS_ADDR is set.
// It returns nil when no API key is configured.
func newAssistant(cfg *config.Config, log *logrus.Logger) (handlers.Sender, func()) {
	if !cfg.Assistant.Enabled() {
		log.Info("Assistant disabled: OPENAI_KEY not set")
		return nil, func() {}
	}
	var (
		store   chat.Store = chat.NewMemoryStore()
		closeFn            = func() {}
	)
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.WithError(err).Warn("Redis unreachable, assistant conversations kept in memory")
			_ = client.Close()
		} else {
			store = chat.NewRedisStore(client, cfg.Redis.KeyPrefix)
			closeFn = func() { _ = client.Close() }
		}
	}
	svc := chat.NewService(store, chat.NewOpenAICompleter(cfg.Assistant),
		chat.WithSystemPrompt(cfg.Assistant.SystemPrompt),
		chat.WithMaxHistory(cfg.Assistant.MaxHistory),
		chat.WithLogger(log),
	)
	return svc, closeFn
}
