package classroom

import (
    "errors"
    "fmt"
    "strings"

    "gorm.io/gorm"

    "github.com/rahardyan/classroom_backend/internal/models"
    "github.com/rahardyan/classroom_backend/internal/utils"
)

const (
    classCodeLength = 6
    maxCodeAttempts = 5
    maxClassNameLen = 200
)

// Registry owns class records and their join codes.
type Registry struct {
    DB *gorm.DB
}

// CreateClass persists a class with a freshly generated join code,
// retrying on code collision. The unique index on classes.code is the
// source of truth; generation never pre-checks the table. The owner
// must be an active user with the teacher role.
func (r *Registry) CreateClass(teacherID, name, description string) (*models.Class, error) {
    name = strings.TrimSpace(name)
    if name == "" {
        return nil, fmt.Errorf("%w: class name is required", ErrValidation)
    }
    if len(name) > maxClassNameLen {
        return nil, fmt.Errorf("%w: class name must be at most %d characters", ErrValidation, maxClassNameLen)
    }

    var owner models.User
    if err := r.DB.Where("id = ? AND role = ? AND active = ?", teacherID, "teacher", true).First(&owner).Error; err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            return nil, fmt.Errorf("%w: owning teacher not found", ErrValidation)
        }
        return nil, err
    }

    for attempt := 0; attempt < maxCodeAttempts; attempt++ {
        code, err := utils.GenerateCode(classCodeLength)
        if err != nil {
            return nil, err
        }
        class := models.Class{
            Name:         name,
            Description:  strings.TrimSpace(description),
            Code:         code,
            TeacherIDRef: teacherID,
        }
        if err := r.DB.Create(&class).Error; err != nil {
            if errors.Is(err, gorm.ErrDuplicatedKey) {
                continue
            }
            return nil, err
        }
        return &class, nil
    }
    return nil, fmt.Errorf("%w: could not allocate a unique class code", ErrConflict)
}

// UpdateClass changes name/description of an existing class. Ownership
// is the caller's concern (gate-checked before getting here).
func (r *Registry) UpdateClass(classID, name, description string) (*models.Class, error) {
    name = strings.TrimSpace(name)
    if name == "" {
        return nil, fmt.Errorf("%w: class name is required", ErrValidation)
    }
    var class models.Class
    if err := r.DB.Where("id = ?", classID).First(&class).Error; err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            return nil, fmt.Errorf("%w: class", ErrNotFound)
        }
        return nil, err
    }
    class.Name = name
    class.Description = strings.TrimSpace(description)
    if err := r.DB.Save(&class).Error; err != nil {
        return nil, err
    }
    return &class, nil
}

// GetClass fetches a class by id.
func (r *Registry) GetClass(classID string) (*models.Class, error) {
    var class models.Class
    if err := r.DB.Where("id = ?", classID).First(&class).Error; err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            return nil, fmt.Errorf("%w: class", ErrNotFound)
        }
        return nil, err
    }
    return &class, nil
}
