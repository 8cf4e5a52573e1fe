package access

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

type fixture struct {
    teacher      models.User
    otherTeacher models.User
    student      models.User
    outsider     models.User
    lapsed       models.User
    class        models.Class
    otherClass   models.Class
    assignment   models.Assignment
    submission   models.Submission
}

func seedFixture(t *testing.T, db *gorm.DB) fixture {
    t.Helper()
    f := fixture{
        teacher:      models.User{FullName: "Teacher One", Email: "t1@example.com", Role: "teacher", Active: true},
        otherTeacher: models.User{FullName: "Teacher Two", Email: "t2@example.com", Role: "teacher", Active: true},
        student:      models.User{FullName: "Student One", Email: "s1@example.com", Role: "student", Active: true},
        outsider:     models.User{FullName: "Student Two", Email: "s2@example.com", Role: "student", Active: true},
        lapsed:       models.User{FullName: "Student Three", Email: "s3@example.com", Role: "student", Active: true},
    }
    for _, u := range []*models.User{&f.teacher, &f.otherTeacher, &f.student, &f.outsider, &f.lapsed} {
        require.NoError(t, db.Create(u).Error)
    }

    f.class = models.Class{Name: "Math 101", Code: "MATH42", TeacherIDRef: f.teacher.ID}
    f.otherClass = models.Class{Name: "History", Code: "HIST77", TeacherIDRef: f.otherTeacher.ID}
    require.NoError(t, db.Create(&f.class).Error)
    require.NoError(t, db.Create(&f.otherClass).Error)

    require.NoError(t, db.Create(&models.Enrollment{
        ClassIDRef: f.class.ID, StudentIDRef: f.student.ID,
        Status: models.EnrollmentActive, EnrolledAt: time.Now().UTC(),
    }).Error)
    require.NoError(t, db.Create(&models.Enrollment{
        ClassIDRef: f.class.ID, StudentIDRef: f.lapsed.ID,
        Status: models.EnrollmentInactive, EnrolledAt: time.Now().UTC(),
    }).Error)

    f.assignment = models.Assignment{ClassIDRef: f.class.ID, Title: "Homework 1", DueDate: time.Now().UTC().Add(48 * time.Hour)}
    require.NoError(t, db.Create(&f.assignment).Error)

    f.submission = models.Submission{
        AssignmentIDRef: f.assignment.ID, StudentIDRef: f.student.ID,
        Content: "my work", SubmittedAt: time.Now().UTC(),
    }
    require.NoError(t, db.Create(&f.submission).Error)
    return f
}

func TestAuthorizeClass(t *testing.T) {
    db := openTestDB(t)
    f := seedFixture(t, db)
    gate := &Gate{DB: db}

    admin := Principal{UserID: "any-admin-id", Role: "admin"}

    tests := []struct {
        name      string
        principal Principal
        classID   string
        allowed   bool
    }{
        {"admin any class", admin, f.class.ID, true},
        {"admin unknown class", admin, f.otherClass.ID, true},
        {"owning teacher", Principal{f.teacher.ID, "teacher"}, f.class.ID, true},
        {"non-owning teacher", Principal{f.otherTeacher.ID, "teacher"}, f.class.ID, false},
        {"enrolled student", Principal{f.student.ID, "student"}, f.class.ID, true},
        {"student not enrolled", Principal{f.outsider.ID, "student"}, f.class.ID, false},
        {"student with inactive enrollment", Principal{f.lapsed.ID, "student"}, f.class.ID, false},
        {"enrolled student, other class", Principal{f.student.ID, "student"}, f.otherClass.ID, false},
        {"unknown role", Principal{f.student.ID, "guest"}, f.class.ID, false},
        {"empty principal", Principal{}, f.class.ID, false},
        {"empty resource id", Principal{f.teacher.ID, "teacher"}, "", false},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            err := gate.Authorize(tt.principal, ResourceClass, tt.classID)
            if tt.allowed {
                require.NoError(t, err)
            } else {
                require.ErrorIs(t, err, ErrDenied)
            }
        })
    }
}

func TestAuthorizeAssignment(t *testing.T) {
    db := openTestDB(t)
    f := seedFixture(t, db)
    gate := &Gate{DB: db}

    require.NoError(t, gate.Authorize(Principal{f.teacher.ID, "teacher"}, ResourceAssignment, f.assignment.ID))
    require.NoError(t, gate.Authorize(Principal{f.student.ID, "student"}, ResourceAssignment, f.assignment.ID))
    require.ErrorIs(t, gate.Authorize(Principal{f.otherTeacher.ID, "teacher"}, ResourceAssignment, f.assignment.ID), ErrDenied)
    require.ErrorIs(t, gate.Authorize(Principal{f.outsider.ID, "student"}, ResourceAssignment, f.assignment.ID), ErrDenied)
    // missing assignment denies without leaking existence
    require.ErrorIs(t, gate.Authorize(Principal{f.teacher.ID, "teacher"}, ResourceAssignment, "b5a2f5a0-0000-0000-0000-000000000000"), ErrDenied)
}

func TestAuthorizeSubmission(t *testing.T) {
    db := openTestDB(t)
    f := seedFixture(t, db)
    gate := &Gate{DB: db}

    // owner sees their own submission
    require.NoError(t, gate.Authorize(Principal{f.student.ID, "student"}, ResourceSubmission, f.submission.ID))
    // another student may not, even if enrolled in the same class
    require.NoError(t, db.Create(&models.Enrollment{
        ClassIDRef: f.class.ID, StudentIDRef: f.outsider.ID,
        Status: models.EnrollmentActive,
    }).Error)
    require.ErrorIs(t, gate.Authorize(Principal{f.outsider.ID, "student"}, ResourceSubmission, f.submission.ID), ErrDenied)
    // class teacher and admin see all submissions of the class
    require.NoError(t, gate.Authorize(Principal{f.teacher.ID, "teacher"}, ResourceSubmission, f.submission.ID))
    require.NoError(t, gate.Authorize(Principal{"root", "admin"}, ResourceSubmission, f.submission.ID))
    // teacher of an unrelated class does not
    require.ErrorIs(t, gate.Authorize(Principal{f.otherTeacher.ID, "teacher"}, ResourceSubmission, f.submission.ID), ErrDenied)
}

func TestAuthorizeFailsClosedOnLookupError(t *testing.T) {
    db := openTestDB(t)
    f := seedFixture(t, db)
    gate := &Gate{DB: db}

    // dropping the enrollments table makes every student lookup fail;
    // the gate must deny, not error out as allow
    require.NoError(t, db.Migrator().DropTable(&models.Enrollment{}))
    require.ErrorIs(t, gate.Authorize(Principal{f.student.ID, "student"}, ResourceClass, f.class.ID), ErrDenied)
}
