package access

import (
    "errors"

    "gorm.io/gorm"

    "github.com/rahardyan/classroom_backend/internal/models"
)

// ErrDenied is the only failure this package reports. Lookup errors
// underneath collapse into it so authorization can never leak whether a
// resource exists, and never resolves to allow on ambiguity.
var ErrDenied = errors.New("access denied")

// Principal is the authenticated actor for a single request. It is
// passed explicitly into every decision; nothing here reads session
// state.
type Principal struct {
    UserID string
    Role   string
}

type ResourceType string

const (
    ResourceClass      ResourceType = "class"
    ResourceAssignment ResourceType = "assignment"
    ResourceSubmission ResourceType = "submission"
)

type Gate struct {
    DB *gorm.DB
}

// Authorize decides whether the principal may touch the resource.
// Admins pass everything. Teachers must own the class the resource
// belongs to. Students need an active enrollment in that class, and a
// submission must additionally be their own. Returns nil on allow,
// ErrDenied otherwise.
func (g *Gate) Authorize(p Principal, resource ResourceType, resourceID string) error {
    if p.UserID == "" || resourceID == "" {
        return ErrDenied
    }
    if p.Role == "admin" {
        return nil
    }

    switch resource {
    case ResourceClass:
        return g.authorizeClass(p, resourceID)
    case ResourceAssignment:
        var assignment models.Assignment
        if err := g.DB.Where("id = ?", resourceID).First(&assignment).Error; err != nil {
            return ErrDenied
        }
        return g.authorizeClass(p, assignment.ClassIDRef)
    case ResourceSubmission:
        var sub models.Submission
        if err := g.DB.Where("id = ?", resourceID).First(&sub).Error; err != nil {
            return ErrDenied
        }
        if p.Role == "student" && sub.StudentIDRef != p.UserID {
            return ErrDenied
        }
        return g.Authorize(p, ResourceAssignment, sub.AssignmentIDRef)
    }
    return ErrDenied
}

func (g *Gate) authorizeClass(p Principal, classID string) error {
    switch p.Role {
    case "teacher":
        var count int64
        if err := g.DB.Model(&models.Class{}).
            Where("id = ? AND teacher_id_ref = ?", classID, p.UserID).
            Count(&count).Error; err != nil {
            return ErrDenied
        }
        if count == 0 {
            return ErrDenied
        }
        return nil
    case "student":
        var count int64
        if err := g.DB.Model(&models.Enrollment{}).
            Where("class_id_ref = ? AND student_id_ref = ? AND status = ?", classID, p.UserID, models.EnrollmentActive).
            Count(&count).Error; err != nil {
            return ErrDenied
        }
        if count == 0 {
            return ErrDenied
        }
        return nil
    }
    return ErrDenied
}
