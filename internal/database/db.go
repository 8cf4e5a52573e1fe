package database

import (
    "fmt"

    "gorm.io/driver/postgres"
    "gorm.io/gorm"

    "github.com/rahardyan/classroom_backend/internal/config"
    "github.com/rahardyan/classroom_backend/internal/models"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
    dsn := fmt.Sprintf(
        "host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
        cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode,
    )
    // TranslateError so unique-constraint races surface as
    // gorm.ErrDuplicatedKey instead of driver-specific codes.
    return gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
}

func Migrate(db *gorm.DB) error {
    return db.AutoMigrate(
        &models.User{},
        &models.Class{},
        &models.Enrollment{},
        &models.Assignment{},
        &models.Submission{},
        &models.RefreshToken{},
    )
}
