package models

import (
    "time"

    "github.com/google/uuid"
    "gorm.io/gorm"
)

type Assignment struct {
    ID          string `gorm:"type:uuid;primaryKey"`
    ClassIDRef  string `gorm:"type:uuid;index"`
    Title       string
    Description string
    DueDate     time.Time `gorm:"index"`
    CreatedAt   time.Time
    UpdatedAt   time.Time
}

func (a *Assignment) BeforeCreate(tx *gorm.DB) (err error) {
    if a.ID == "" {
        a.ID = uuid.NewString()
    }
    return nil
}
