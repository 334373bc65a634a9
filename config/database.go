package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/pedidoshn/pedidos-app/utils"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	maxConnectRetries = 5
	connectRetryDelay = 2 * time.Second
)

func dialector(driver, dsn string) (gorm.Dialector, error) {
	switch strings.ToLower(driver) {
	case "sqlite":
		return sqlite.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
}

// InitDB opens the configured database and retries the first ping.
func InitDB(cfg Config) (*gorm.DB, error) {
	dial, err := dialector(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dial, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", cfg.DBDriver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		err = sqlDB.Ping()
		if err == nil {
			break
		}
		if attempt == maxConnectRetries {
			return nil, fmt.Errorf("database not reachable after %d attempts: %w", attempt, err)
		}
		utils.ErrorLogger.Printf("Database ping failed (attempt %d/%d): %v", attempt, maxConnectRetries, err)
		time.Sleep(connectRetryDelay)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	utils.InfoLogger.Printf("Connected to %s database", cfg.DBDriver)
	return db, nil
}
