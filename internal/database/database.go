// Package database opens the gorm connection backing the entity store.
//
// Production runs on Postgres through a pgxpool handed to gorm via the pgx
// stdlib adapter. Development and tests run on SQLite with a single
// connection, so writers never contend for the file lock.
package database

import (
	"context"
	"fmt"

	"sosmed/internal/config"
	"sosmed/internal/logger"
	"sosmed/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to the configured database. The returned close function
// releases the connection and, for Postgres, the underlying pool.
func Open(ctx context.Context, cfg *config.Config) (*gorm.DB, func(), error) {
	gormCfg := NewGormConfig(gormlogger.Warn)

	switch cfg.DatabaseDriver {
	case "postgres":
		return openPostgres(ctx, cfg.DatabaseDSN, cfg.DatabaseMaxConns, gormCfg)
	case "sqlite":
		db, err := OpenSQLite(cfg.DatabaseDSN, gormCfg)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { closeDB(db) }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
}

// NewGormConfig returns the gorm settings shared by every driver. Error
// translation turns driver-specific constraint errors into
// gorm.ErrDuplicatedKey / gorm.ErrForeignKeyViolated.
func NewGormConfig(level gormlogger.LogLevel) *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(level),
	}
}

func openPostgres(ctx context.Context, dsn string, maxConns int32, gormCfg *gorm.Config) (*gorm.DB, func(), error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if maxConns > 0 {
		poolCfg.MaxConns = maxConns
	}
	poolCfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheStatement
	poolCfg.ConnConfig.StatementCacheCapacity = 256

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping postgres: %w", err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormCfg)
	if err != nil {
		sqlDB.Close()
		pool.Close()
		return nil, nil, fmt.Errorf("open gorm postgres: %w", err)
	}

	logger.Info.Printf("Connected to postgres (max conns %d)", poolCfg.MaxConns)
	return db, func() {
		closeDB(db)
		pool.Close()
	}, nil
}

// OpenSQLite opens a SQLite database with the pragmas the store relies on.
func OpenSQLite(dsn string, gormCfg *gorm.Config) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sqlite handle: %w", err)
	}
	// SQLite only supports one writer at a time
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

func applyPragmas(db *gorm.DB) error {
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// Migrate creates or updates the users, posts, comments and post_likes tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return nil
}

func closeDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error.Printf("Error getting database handle on close: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error.Printf("Error closing database: %v", err)
	}
}
