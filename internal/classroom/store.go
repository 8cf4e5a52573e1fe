package classroom

import (
    "errors"
    "fmt"
    "strings"
    "time"

    "gorm.io/gorm"
    "gorm.io/gorm/clause"

    "github.com/rahardyan/classroom_backend/internal/models"
)

const maxTitleLen = 200

// Store holds assignments and their submissions. Submissions are
// upserted on the (assignment, student) unique index so a resubmission
// replaces the previous one instead of appending.
type Store struct {
    DB *gorm.DB
}

// CreateAssignment validates and persists an assignment for a class.
// The due date must not be in the past at creation time.
func (s *Store) CreateAssignment(classID, title, description string, dueDate time.Time) (*models.Assignment, error) {
    title = strings.TrimSpace(title)
    if title == "" {
        return nil, fmt.Errorf("%w: title is required", ErrValidation)
    }
    if len(title) > maxTitleLen {
        return nil, fmt.Errorf("%w: title must be at most %d characters", ErrValidation, maxTitleLen)
    }
    if dueDate.Before(time.Now().UTC()) {
        return nil, fmt.Errorf("%w: due date cannot be in the past", ErrValidation)
    }

    var class models.Class
    if err := s.DB.Where("id = ?", classID).First(&class).Error; err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            return nil, fmt.Errorf("%w: class", ErrNotFound)
        }
        return nil, err
    }

    assignment := models.Assignment{
        ClassIDRef:  class.ID,
        Title:       title,
        Description: strings.TrimSpace(description),
        DueDate:     dueDate.UTC(),
    }
    if err := s.DB.Create(&assignment).Error; err != nil {
        return nil, err
    }
    return &assignment, nil
}

// GetAssignment fetches an assignment by id.
func (s *Store) GetAssignment(assignmentID string) (*models.Assignment, error) {
    var assignment models.Assignment
    if err := s.DB.Where("id = ?", assignmentID).First(&assignment).Error; err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            return nil, fmt.Errorf("%w: assignment", ErrNotFound)
        }
        return nil, err
    }
    return &assignment, nil
}

// UpsertSubmission stores a student's work for an assignment. Calling
// it again replaces content and refreshes submitted_at on the same row;
// the (assignment, student) unique index plus ON CONFLICT make this a
// single idempotent write. The student must hold an active enrollment
// in the assignment's class; the route-level gate already checked this,
// but the store re-checks so it stays safe standalone.
func (s *Store) UpsertSubmission(assignmentID, studentID, content string) (*models.Submission, error) {
    content = strings.TrimSpace(content)
    if content == "" {
        return nil, fmt.Errorf("%w: content is required", ErrValidation)
    }

    assignment, err := s.GetAssignment(assignmentID)
    if err != nil {
        return nil, err
    }

    var enrolled int64
    if err := s.DB.Model(&models.Enrollment{}).
        Where("class_id_ref = ? AND student_id_ref = ? AND status = ?", assignment.ClassIDRef, studentID, models.EnrollmentActive).
        Count(&enrolled).Error; err != nil {
        return nil, err
    }
    if enrolled == 0 {
        return nil, ErrNotEnrolled
    }

    now := time.Now().UTC()
    sub := models.Submission{
        AssignmentIDRef: assignmentID,
        StudentIDRef:    studentID,
        Content:         content,
        SubmittedAt:     now,
    }
    if err := s.DB.Clauses(clause.OnConflict{
        Columns: []clause.Column{{Name: "assignment_id_ref"}, {Name: "student_id_ref"}},
        DoUpdates: clause.Assignments(map[string]interface{}{
            "content":      content,
            "submitted_at": now,
            "updated_at":   now,
        }),
    }).Create(&sub).Error; err != nil {
        return nil, err
    }

    // re-read: on conflict the generated id above never hit the table
    var saved models.Submission
    if err := s.DB.Where("assignment_id_ref = ? AND student_id_ref = ?", assignmentID, studentID).First(&saved).Error; err != nil {
        return nil, err
    }
    return &saved, nil
}

// SubmissionOf returns the student's own submission row, if any.
func (s *Store) SubmissionOf(assignmentID, studentID string) (*models.Submission, error) {
    var sub models.Submission
    if err := s.DB.Where("assignment_id_ref = ? AND student_id_ref = ?", assignmentID, studentID).First(&sub).Error; err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            return nil, fmt.Errorf("%w: submission", ErrNotFound)
        }
        return nil, err
    }
    return &sub, nil
}

// SubmissionRate reports what share of the class's active students have
// submitted, as a percentage in [0,100]. A class with no active
// students rates 0. Submissions from students who have since left the
// class are excluded so the figure stays within range.
func (s *Store) SubmissionRate(classID, assignmentID string) (float64, error) {
    assignment, err := s.GetAssignment(assignmentID)
    if err != nil {
        return 0, err
    }
    if assignment.ClassIDRef != classID {
        return 0, fmt.Errorf("%w: assignment", ErrNotFound)
    }

    var active int64
    if err := s.DB.Model(&models.Enrollment{}).
        Where("class_id_ref = ? AND status = ?", classID, models.EnrollmentActive).
        Count(&active).Error; err != nil {
        return 0, err
    }
    if active == 0 {
        return 0, nil
    }

    var submitted int64
    if err := s.DB.Table("submissions AS s").
        Joins("JOIN enrollments e ON e.student_id_ref = s.student_id_ref AND e.class_id_ref = ?", classID).
        Where("s.assignment_id_ref = ? AND e.status = ?", assignmentID, models.EnrollmentActive).
        Count(&submitted).Error; err != nil {
        return 0, err
    }
    return 100 * float64(submitted) / float64(active), nil
}
