package db

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/diewo77/bizadmin/internal/config"
	"github.com/diewo77/bizadmin/internal/logging"
)

const retryDelay = 2 * time.Second

// Connect opens the PostgreSQL connection, retrying while the server starts up.
func Connect(cfg config.DatabaseConfig, log *logrus.Logger) (*gorm.DB, error) {
	dsn := cfg.DSN()
	log.WithField("dsn", config.MaskDSN(dsn)).Info("connecting to database")

	gcfg := &gorm.Config{Logger: logging.GormLogger(log, cfg.Debug)}
	attempts := cfg.Retries
	if attempts < 1 {
		attempts = 1
	}
	var (
		conn *gorm.DB
		err  error
	)
	for i := 1; i <= attempts; i++ {
		conn, err = gorm.Open(postgres.Open(dsn), gcfg)
		if err == nil {
			break
		}
		log.WithError(err).WithField("attempt", i).Warn("database not ready, retrying")
		time.Sleep(retryDelay)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after %d attempts: %w", attempts, err)
	}
	if err := Ping(conn); err != nil {
		return nil, err
	}
	return conn, nil
}

// Ping runs a trivial query to check connectivity.
func Ping(conn *gorm.DB) error {
	if err := conn.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("db ping failed: %w", err)
	}
	return nil
}
