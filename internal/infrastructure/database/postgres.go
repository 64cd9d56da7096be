package database

import (
	"context"
	"fmt"
	"log"
	"time"

	migrate "github.com/rubenv/sql-migrate"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/johnquangdev/earnings-transcripts/pkg/config"
	"github.com/johnquangdev/earnings-transcripts/pkg/retry"
)

// MigrationsDir is where the SQL migrations live, relative to the working directory
const MigrationsDir = "migrations"

// NewPostgresDB creates a new PostgreSQL database connection using GORM.
// The first ping is retried while the database comes up.
func NewPostgresDB(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.GetDatabaseDSN()

	// Configure GORM logger
	gormLogger := logger.Default.LogMode(logger.Warn)
	if cfg.IsProduction() {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MinConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := retry.Connect(ctx, "postgres", retry.DefaultMaxElapsed, func() error {
		return sqlDB.PingContext(ctx)
	}); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ Database connected successfully")

	return db, nil
}

// Migrate applies (or rolls back) the SQL migrations in dir with sql-migrate.
// max limits how many migrations run; 0 means all.
func Migrate(db *gorm.DB, dir string, direction migrate.MigrationDirection, max int) (int, error) {
	log.Printf("🔄 Applying migrations from %s/ using sql-migrate...", dir)

	migrations := &migrate.FileMigrationSource{
		Dir: dir,
	}

	sqlDB, err := db.DB()
	if err != nil {
		return 0, fmt.Errorf("failed to get db connection during migrate: %w", err)
	}

	n, err := migrate.ExecMax(sqlDB, "postgres", migrations, direction, max)
	if err != nil {
		return n, fmt.Errorf("failed to apply migration: %w", err)
	}

	log.Printf("✅ Applied %d migrations!\n", n)
	return n, nil
}

// AutoMigrate applies every pending migration from MigrationsDir
func AutoMigrate(db *gorm.DB) error {
	_, err := Migrate(db, MigrationsDir, migrate.Up, 0)
	return err
}

// CloseDB closes the database connection
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	log.Println("✅ Database connection closed")
	return nil
}
