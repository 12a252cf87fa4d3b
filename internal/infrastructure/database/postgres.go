package database

import (
	"fmt"
	"log"

	"github.com/freelio/freelio-api/internal/config"
	"github.com/freelio/freelio-api/internal/domain/entity"
	"github.com/freelio/freelio-api/internal/domain/enum"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		// Unique violations must surface as gorm.ErrDuplicatedKey so the
		// serial assignment retry can catch them.
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&entity.User{},
		&entity.Client{},
		&entity.Project{},
		&entity.Budget{},
		&entity.Invoice{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData creates the initial freelancer account when one is
// configured through the environment.
func SeedDefaultData(db *gorm.DB) error {
	email := viper.GetString("SEED_FREELANCER_EMAIL")
	password := viper.GetString("SEED_FREELANCER_PASSWORD")
	username := viper.GetString("SEED_FREELANCER_USERNAME")

	if email == "" || password == "" {
		return nil
	}
	if username == "" {
		username = "freelancer"
	}

	var existing entity.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		log.Printf("Seed freelancer already exists: %s", email)
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	user := entity.User{
		Username:    username,
		Email:       email,
		Password:    string(hashed),
		AccountType: enum.AccountTypeFreelancer,
		Active:      true,
	}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("failed to create seed freelancer: %w", err)
	}

	log.Printf("Seed freelancer created: %s", email)
	return nil
}
