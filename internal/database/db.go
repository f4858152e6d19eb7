package database

import (
	"fmt"

	"github.com/funnelforge/api/internal/config"
	"github.com/funnelforge/api/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	DB = db

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.ResetToken{},
		&models.RefreshToken{},
		&models.Funnel{},
		&models.FunnelVersion{},
		&models.FunnelDeployment{},
		&models.FormSubmission{},
		&models.MediaFile{},
	)
}
