package models

import (
    "time"

    "github.com/google/uuid"
    "gorm.io/gorm"
)

type Class struct {
    ID           string `gorm:"type:uuid;primaryKey"`
    Name         string
    Description  string
    Code         string `gorm:"uniqueIndex"` // join code students redeem
    TeacherIDRef string `gorm:"type:uuid;index"`
    CreatedAt    time.Time
    UpdatedAt    time.Time
}

func (cl *Class) BeforeCreate(tx *gorm.DB) (err error) {
    if cl.ID == "" {
        cl.ID = uuid.NewString()
    }
    return nil
}
