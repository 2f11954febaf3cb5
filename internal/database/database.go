package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entities"
)

type Database struct {
	DB     *gorm.DB
	driver config.DatabaseDriver
}

// NewDatabase opens the configured driver and migrates the books table.
func NewDatabase(cfg config.Database) (*Database, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DatabaseDriverPostgres:
		if cfg.URL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
		dialector = postgres.Open(cfg.URL)
	case config.DatabaseDriverSQLite, "":
		dialector = SQLiteDialector(cfg.Path)
		cfg.Driver = config.DatabaseDriverSQLite
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Driver == config.DatabaseDriverPostgres {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.AutoMigrate(&entities.Book{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Info().Str("driver", string(cfg.Driver)).Msg("Database initialized")

	return &Database{DB: db, driver: cfg.Driver}, nil
}

// NewSQLiteDatabase is a shortcut for a quiet sqlite database at dbPath.
func NewSQLiteDatabase(dbPath string) (*Database, error) {
	return NewDatabase(config.Database{
		Driver:   config.DatabaseDriverSQLite,
		Path:     dbPath,
		LogLevel: "silent",
	})
}

// Driver reports which backend the connection was opened with.
func (d *Database) Driver() config.DatabaseDriver {
	return d.driver
}

// SQLDB exposes the pooled *sql.DB underneath gorm, e.g. for session stores.
func (d *Database) SQLDB() (*sql.DB, error) {
	return d.DB.DB()
}

func (d *Database) Ping() error {
	return d.PingContext(context.Background())
}

// PingContext checks the connection is usable within ctx's deadline.
func (d *Database) PingContext(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
