// Package persistence stores quote snapshots through GORM.
package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/courierdash/backend/internal/infrastructure/config"
	"github.com/courierdash/backend/internal/infrastructure/logger"
	"github.com/courierdash/backend/internal/infrastructure/persistence/models"
)

// Database wraps the GORM handle used by the quote repository
type Database struct {
	DB *gorm.DB
}

// NewDatabase connects to PostgreSQL, applies the pool limits from cfg and
// verifies the connection before returning.
func NewDatabase(cfg *config.DatabaseConfig, zapLogger *zap.Logger) (*Database, error) {
	d, err := Open(postgres.Open(cfg.DSN()), zapLogger, logger.MapGormLogLevel(cfg.LogLevel))
	if err != nil {
		return nil, err
	}
	pool, err := d.pool()
	if err != nil {
		return nil, err
	}

	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	pool.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	if err := pool.Ping(); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return d, nil
}

// Open connects through any GORM dialector. Statements are logged to zapLogger at level.
func Open(dialector gorm.Dialector, zapLogger *zap.Logger, level gormlogger.LogLevel) (*Database, error) {
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.NewGormLogger(zapLogger, level),
		SkipDefaultTransaction: true,
		NowFunc:                func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &Database{DB: db}, nil
}

// Migrate creates the quote table from the model. Only SQLite uses it;
// PostgreSQL is migrated from the SQL files.
func (d *Database) Migrate() error {
	if err := d.DB.AutoMigrate(&models.QuoteModel{}); err != nil {
		return fmt.Errorf("failed to migrate quote history: %w", err)
	}
	return nil
}

func (d *Database) Close() error {
	pool, err := d.pool()
	if err != nil {
		return err
	}
	return pool.Close()
}

// Ping satisfies the health check contract of the system handler
func (d *Database) Ping(ctx context.Context) error {
	pool, err := d.pool()
	if err != nil {
		return err
	}
	return pool.PingContext(ctx)
}

func (d *Database) pool() (*sql.DB, error) {
	pool, err := d.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return pool, nil
}
