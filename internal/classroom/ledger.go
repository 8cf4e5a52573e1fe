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

// Ledger records student membership in classes. Rows are status-
// transitioned, never deleted, and the (class, student) pair is unique.
type Ledger struct {
    DB *gorm.DB
}

// NormalizeCode makes join codes case-insensitive: trim, uppercase.
func NormalizeCode(code string) string {
    return strings.ToUpper(strings.TrimSpace(code))
}

// JoinClass redeems a class code for a student. Only active users with
// the student role can be enrolled, regardless of how the call was
// routed. A previously inactive enrollment is silently reactivated
// (same row); an active one is rejected with ErrAlreadyEnrolled. The
// existence check and insert are a single conditional upsert on the
// (class, student) unique index so concurrent joins cannot produce
// duplicate rows.
func (l *Ledger) JoinClass(studentID, code string) (*models.Class, error) {
    normalized := NormalizeCode(code)
    if len(normalized) != classCodeLength {
        return nil, fmt.Errorf("%w: code must be %d characters", ErrValidation, classCodeLength)
    }

    var student models.User
    if err := l.DB.Where("id = ? AND active = ?", studentID, true).First(&student).Error; err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            return nil, fmt.Errorf("%w: only active students can join classes", ErrValidation)
        }
        return nil, err
    }
    if student.Role != "student" {
        return nil, fmt.Errorf("%w: only students can join classes", ErrValidation)
    }

    var class models.Class
    if err := l.DB.Where("code = ?", normalized).First(&class).Error; err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            return nil, fmt.Errorf("%w: invalid class code", ErrNotFound)
        }
        return nil, err
    }

    now := time.Now().UTC()
    enrollment := models.Enrollment{
        ClassIDRef:   class.ID,
        StudentIDRef: studentID,
        Status:       models.EnrollmentActive,
        EnrolledAt:   now,
    }
    res := l.DB.Clauses(clause.OnConflict{
        Columns: []clause.Column{{Name: "class_id_ref"}, {Name: "student_id_ref"}},
        DoUpdates: clause.Assignments(map[string]interface{}{
            "status":      models.EnrollmentActive,
            "enrolled_at": now,
            "updated_at":  now,
        }),
        Where: clause.Where{Exprs: []clause.Expression{
            clause.Eq{Column: clause.Column{Table: "enrollments", Name: "status"}, Value: models.EnrollmentInactive},
        }},
    }).Create(&enrollment)
    if res.Error != nil {
        return nil, res.Error
    }
    if res.RowsAffected == 0 {
        // conflict row exists and is already active
        return nil, ErrAlreadyEnrolled
    }
    return &class, nil
}

// LeaveClass flips an active enrollment to inactive. The row stays.
func (l *Ledger) LeaveClass(studentID, classID string) error {
    res := l.DB.Model(&models.Enrollment{}).
        Where("class_id_ref = ? AND student_id_ref = ? AND status = ?", classID, studentID, models.EnrollmentActive).
        Update("status", models.EnrollmentInactive)
    if res.Error != nil {
        return res.Error
    }
    if res.RowsAffected == 0 {
        return fmt.Errorf("%w: enrollment", ErrNotFound)
    }
    return nil
}

// StudentCount counts active enrollments only; lapsed students do not
// show up in class statistics.
func (l *Ledger) StudentCount(classID string) (int64, error) {
    var count int64
    err := l.DB.Model(&models.Enrollment{}).
        Where("class_id_ref = ? AND status = ?", classID, models.EnrollmentActive).
        Count(&count).Error
    return count, err
}

// IsEnrolled reports whether the student holds an active enrollment.
func (l *Ledger) IsEnrolled(studentID, classID string) (bool, error) {
    var count int64
    err := l.DB.Model(&models.Enrollment{}).
        Where("class_id_ref = ? AND student_id_ref = ? AND status = ?", classID, studentID, models.EnrollmentActive).
        Count(&count).Error
    return count > 0, err
}
