package db

import (
	"context"
	"fmt"
	"time"

	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/config"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/metrics"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Open connects to postgres. The ledger wraps its own transactions, so
// gorm's implicit per-statement transaction is disabled.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database DSN is required")
	}
	gdb, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		SkipDefaultTransaction:                   true,
		PrepareStmt:                              true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	return gdb, nil
}

// InitDB opens the database, migrates the ledger schema and sets DB.
func InitDB(cfg config.DatabaseConfig, log *logrus.Logger) error {
	gdb, err := Open(cfg)
	if err != nil {
		return err
	}
	log.Info("Database connected")

	if err := gdb.AutoMigrate(&models.Account{}); err != nil {
		return fmt.Errorf("AutoMigrate failed: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	if err := RunDataMigrations(sqlDB, log); err != nil {
		return fmt.Errorf("data migrations failed: %w", err)
	}

	DB = gdb
	metrics.DBConnectionStatus.Set(1)
	log.Info("Database schema migrated")
	return nil
}

// Ping checks the connection and updates the status gauge.
func Ping(ctx context.Context, gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		metrics.DBConnectionStatus.Set(0)
		return err
	}
	metrics.DBConnectionStatus.Set(1)
	return nil
}
