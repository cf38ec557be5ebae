package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/krishimitra/farmer-portal-backend/config"
	"github.com/krishimitra/farmer-portal-backend/internal/application"
	"github.com/krishimitra/farmer-portal-backend/internal/auditlog"
	"github.com/krishimitra/farmer-portal-backend/internal/auth"
	"github.com/krishimitra/farmer-portal-backend/internal/farmer"
	"github.com/krishimitra/farmer-portal-backend/internal/notification"
	"github.com/krishimitra/farmer-portal-backend/internal/scheme"
)

// DSN builds the Postgres connection string from cfg.
func DSN(cfg *config.Config) string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=Asia/Kolkata",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode,
	)
}

// Connect opens the Postgres pool.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	level := logger.Warn
	if cfg.IsDevelopment() {
		level = logger.Info
	}

	db, err := gorm.Open(postgres.Open(DSN(cfg)), &gorm.Config{
		Logger: logger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), logger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  cfg.IsDevelopment(),
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres %s:%s/%s: %w", cfg.DBHost, cfg.DBPort, cfg.DBName, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// Models lists every table the service owns, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&auth.User{},
		&farmer.Farmer{},
		&farmer.Land{},
		&farmer.Crop{},
		&farmer.Livestock{},
		&scheme.Scheme{},
		&application.Application{},
		&application.Bookmark{},
		&notification.Notification{},
		&notification.DeviceToken{},
		&auditlog.AuditLog{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
