// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gisportal/evisa-backend/internal/config"
	"github.com/gisportal/evisa-backend/internal/models"
)

var DB *gorm.DB

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	// Connect to database
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return DB, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	// Enable UUID extension
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return fmt.Errorf("failed to create UUID extension: %w", err)
	}

	// Run auto-migrations
	err := db.AutoMigrate(
		&models.Application{},
		&models.Feedback{},
		&models.StaffUser{},
		&models.AuditLog{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// Application indexes
		"CREATE INDEX IF NOT EXISTS idx_applications_status ON applications(application_status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_applications_email ON applications(email)",
		"CREATE INDEX IF NOT EXISTS idx_applications_passport ON applications(passport_number)",
		"CREATE INDEX IF NOT EXISTS idx_applications_created_at ON applications(created_at DESC)",

		// Feedback indexes
		"CREATE INDEX IF NOT EXISTS idx_feedback_status ON feedback(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_feedback_category ON feedback(category)",

		// Staff indexes
		"CREATE INDEX IF NOT EXISTS idx_staff_users_email ON staff_users(email)",

		// Audit indexes
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_staff_action ON audit_logs(staff_id, action)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_resource ON audit_logs(resource_type, resource_id)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at DESC)",

		// Free-text admin search across reference, name, email, passport
		"CREATE INDEX IF NOT EXISTS idx_applications_search ON applications USING GIN(to_tsvector('english', reference_number || ' ' || full_name || ' ' || email || ' ' || passport_number))",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// SeedInitialData creates the default admin account when none exists.
func SeedInitialData(db *gorm.DB, cfg *config.Config) error {
	var adminCount int64
	db.Model(&models.StaffUser{}).Where("role = ?", models.StaffRoleAdmin).Count(&adminCount)

	if adminCount > 0 {
		return nil
	}

	if cfg.Admin.DefaultPassword == "" {
		log.Println("No admin account exists and ADMIN_PASSWORD is unset; skipping seed")
		return nil
	}

	admin := &models.StaffUser{
		Email:    cfg.Admin.DefaultEmail,
		FullName: "System Administrator",
		Role:     models.StaffRoleAdmin,
		Active:   true,
	}

	if err := admin.SetPassword(cfg.Admin.DefaultPassword); err != nil {
		return fmt.Errorf("failed to set admin password: %w", err)
	}

	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	log.Println("Default admin user created successfully")
	return nil
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
