package classroom

import (
    "testing"
    "time"

    "github.com/glebarez/sqlite"
    "github.com/stretchr/testify/require"
    "gorm.io/gorm"

    "github.com/rahardyan/classroom_backend/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
    t.Helper()
    db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
    require.NoError(t, err)
    require.NoError(t, db.AutoMigrate(
        &models.User{},
        &models.Class{},
        &models.Enrollment{},
        &models.Assignment{},
        &models.Submission{},
    ))
    return db
}

func seedUser(t *testing.T, db *gorm.DB, role, email string) models.User {
    t.Helper()
    u := models.User{FullName: email, Email: email, Role: role, Active: true}
    require.NoError(t, db.Create(&u).Error)
    return u
}

func seedClass(t *testing.T, db *gorm.DB, teacherID, code string) models.Class {
    t.Helper()
    cl := models.Class{Name: "Class " + code, Code: code, TeacherIDRef: teacherID}
    require.NoError(t, db.Create(&cl).Error)
    return cl
}

func seedAssignment(t *testing.T, db *gorm.DB, classID string) models.Assignment {
    t.Helper()
    a := models.Assignment{ClassIDRef: classID, Title: "Homework", DueDate: time.Now().UTC().Add(72 * time.Hour)}
    require.NoError(t, db.Create(&a).Error)
    return a
}

func enrollmentRows(t *testing.T, db *gorm.DB, classID, studentID string) []models.Enrollment {
    t.Helper()
    var rows []models.Enrollment
    require.NoError(t, db.Where("class_id_ref = ? AND student_id_ref = ?", classID, studentID).Find(&rows).Error)
    return rows
}
