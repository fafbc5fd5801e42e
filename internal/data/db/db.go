package db

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/lovepattern-backend/internal/domain/aicall"
	"github.com/yungbote/lovepattern-backend/internal/platform/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open connects to the AI call log database and migrates it. An empty driver
// returns (nil, nil): the call log is optional.
func Open(logg *logger.Logger, driver, dsn string) (*gorm.DB, error) {
	driver = strings.ToLower(strings.TrimSpace(driver))
	if driver == "" {
		return nil, nil
	}
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("database driver %q configured without a DSN", driver)
	}

	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)
	theDB, err := gorm.Open(dialector, &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	if err := AutoMigrateAll(theDB); err != nil {
		return nil, fmt.Errorf("%s automigrate: %w", driver, err)
	}
	logg.Info("AI call log database ready", "driver", driver)
	return theDB, nil
}

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(&aicall.AICallLog{})
}

func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
