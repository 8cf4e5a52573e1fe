package models

import (
    "time"

    "github.com/google/uuid"
    "gorm.io/gorm"
)

const (
    EnrollmentActive   = "active"
    EnrollmentInactive = "inactive"
)

// Enrollment rows are never hard-deleted; leaving a class flips the
// status to inactive and rejoining reactivates the same row.
type Enrollment struct {
    ID           string `gorm:"type:uuid;primaryKey"`
    ClassIDRef   string `gorm:"type:uuid;index;uniqueIndex:idx_enrollments_class_student"`
    StudentIDRef string `gorm:"type:uuid;index;uniqueIndex:idx_enrollments_class_student"`
    Status       string `gorm:"index"`
    EnrolledAt   time.Time
    CreatedAt    time.Time
    UpdatedAt    time.Time
}

func (e *Enrollment) BeforeCreate(tx *gorm.DB) (err error) {
    if e.ID == "" {
        e.ID = uuid.NewString()
    }
    return nil
}
