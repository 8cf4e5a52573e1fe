package models

import (
    "time"

    "github.com/google/uuid"
    "gorm.io/gorm"
)

// Submission is unique per (assignment, student); a resubmission
// overwrites content and refreshes SubmittedAt via upsert.
type Submission struct {
    ID              string `gorm:"type:uuid;primaryKey"`
    AssignmentIDRef string `gorm:"type:uuid;index;uniqueIndex:idx_submissions_assignment_student"`
    StudentIDRef    string `gorm:"type:uuid;index;uniqueIndex:idx_submissions_assignment_student"`
    Content         string
    SubmittedAt     time.Time
    CreatedAt       time.Time
    UpdatedAt       time.Time
}

func (s *Submission) BeforeCreate(tx *gorm.DB) (err error) {
    if s.ID == "" {
        s.ID = uuid.NewString()
    }
    return nil
}
