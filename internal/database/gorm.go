package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/noah-isme/gema-quiz-api/internal/repository"
)

// OpenGorm connects to the relational store used by the sqlite and postgres drivers and
// migrates the quiz tables. For sqlite an empty dsn means quiz.db inside dataDir.
func OpenGorm(driver, dsn, dataDir string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(driver) {
	case "postgres":
		if dsn == "" {
			return nil, fmt.Errorf("postgres dsn must not be empty")
		}
		dialector = postgres.Open(dsn)
	case "sqlite":
		if dsn == "" {
			if err := os.MkdirAll(dataDir, 0o755); err != nil {
				return nil, fmt.Errorf("create data directory: %w", err)
			}
			dsn = filepath.Join(dataDir, "quiz.db")
		}
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported gorm driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}

	if err := repository.Migrate(db); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, fmt.Errorf("failed to migrate %s schema: %w", driver, err)
	}

	return db, nil
}
