package classroom

import (
    "strings"
    "testing"
    "time"

    "github.com/stretchr/testify/require"

    "github.com/rahardyan/classroom_backend/internal/models"
)

func TestCreateAssignmentValidation(t *testing.T) {
    db := openTestDB(t)
    teacher := seedUser(t, db, "teacher", "t@example.com")
    class := seedClass(t, db, teacher.ID, "AB12CD")
    store := &Store{DB: db}

    future := time.Now().UTC().Add(24 * time.Hour)

    _, err := store.CreateAssignment(class.ID, "   ", "", future)
    require.ErrorIs(t, err, ErrValidation)

    _, err = store.CreateAssignment(class.ID, strings.Repeat("x", 201), "", future)
    require.ErrorIs(t, err, ErrValidation)

    yesterday := time.Now().UTC().Add(-24 * time.Hour)
    _, err = store.CreateAssignment(class.ID, "Homework", "", yesterday)
    require.ErrorIs(t, err, ErrValidation)

    created, err := store.CreateAssignment(class.ID, "  Homework 1  ", "read chapter 2", future)
    require.NoError(t, err)
    require.Equal(t, "Homework 1", created.Title)
}

func TestCreateAssignmentUnknownClass(t *testing.T) {
    db := openTestDB(t)
    store := &Store{DB: db}

    _, err := store.CreateAssignment("0c9e7c1e-0000-0000-0000-000000000000", "Homework", "", time.Now().UTC().Add(time.Hour))
    require.ErrorIs(t, err, ErrNotFound)
}

func TestUpsertSubmissionIdempotent(t *testing.T) {
    db := openTestDB(t)
    teacher := seedUser(t, db, "teacher", "t@example.com")
    student := seedUser(t, db, "student", "s@example.com")
    class := seedClass(t, db, teacher.ID, "AB12CD")
    assignment := seedAssignment(t, db, class.ID)
    ledger := &Ledger{DB: db}
    store := &Store{DB: db}

    _, err := ledger.JoinClass(student.ID, "AB12CD")
    require.NoError(t, err)

    first, err := store.UpsertSubmission(assignment.ID, student.ID, "draft")
    require.NoError(t, err)
    require.Equal(t, "draft", first.Content)

    time.Sleep(10 * time.Millisecond)

    second, err := store.UpsertSubmission(assignment.ID, student.ID, "final")
    require.NoError(t, err)
    require.Equal(t, first.ID, second.ID, "resubmit must reuse the row")
    require.Equal(t, "final", second.Content)
    require.True(t, second.SubmittedAt.After(first.SubmittedAt), "submitted_at must refresh")

    var count int64
    require.NoError(t, db.Model(&models.Submission{}).
        Where("assignment_id_ref = ? AND student_id_ref = ?", assignment.ID, student.ID).
        Count(&count).Error)
    require.EqualValues(t, 1, count)
}

func TestUpsertSubmissionRequiresEnrollment(t *testing.T) {
    db := openTestDB(t)
    teacher := seedUser(t, db, "teacher", "t@example.com")
    student := seedUser(t, db, "student", "s@example.com")
    class := seedClass(t, db, teacher.ID, "AB12CD")
    assignment := seedAssignment(t, db, class.ID)
    ledger := &Ledger{DB: db}
    store := &Store{DB: db}

    _, err := store.UpsertSubmission(assignment.ID, student.ID, "work")
    require.ErrorIs(t, err, ErrNotEnrolled)

    // leaving the class closes the door again
    _, err = ledger.JoinClass(student.ID, "AB12CD")
    require.NoError(t, err)
    require.NoError(t, ledger.LeaveClass(student.ID, class.ID))
    _, err = store.UpsertSubmission(assignment.ID, student.ID, "work")
    require.ErrorIs(t, err, ErrNotEnrolled)
}

func TestUpsertSubmissionEmptyContent(t *testing.T) {
    db := openTestDB(t)
    teacher := seedUser(t, db, "teacher", "t@example.com")
    student := seedUser(t, db, "student", "s@example.com")
    class := seedClass(t, db, teacher.ID, "AB12CD")
    assignment := seedAssignment(t, db, class.ID)
    store := &Store{DB: db}
    ledger := &Ledger{DB: db}
    _, err := ledger.JoinClass(student.ID, "AB12CD")
    require.NoError(t, err)

    _, err = store.UpsertSubmission(assignment.ID, student.ID, "   ")
    require.ErrorIs(t, err, ErrValidation)
}

func TestSubmissionOf(t *testing.T) {
    db := openTestDB(t)
    teacher := seedUser(t, db, "teacher", "t@example.com")
    student := seedUser(t, db, "student", "s@example.com")
    class := seedClass(t, db, teacher.ID, "AB12CD")
    assignment := seedAssignment(t, db, class.ID)
    ledger := &Ledger{DB: db}
    store := &Store{DB: db}

    _, err := store.SubmissionOf(assignment.ID, student.ID)
    require.ErrorIs(t, err, ErrNotFound)

    _, err = ledger.JoinClass(student.ID, "AB12CD")
    require.NoError(t, err)
    _, err = store.UpsertSubmission(assignment.ID, student.ID, "essay")
    require.NoError(t, err)

    sub, err := store.SubmissionOf(assignment.ID, student.ID)
    require.NoError(t, err)
    require.Equal(t, "essay", sub.Content)
}

func TestSubmissionRate(t *testing.T) {
    db := openTestDB(t)
    teacher := seedUser(t, db, "teacher", "t@example.com")
    class := seedClass(t, db, teacher.ID, "AB12CD")
    assignment := seedAssignment(t, db, class.ID)
    ledger := &Ledger{DB: db}
    store := &Store{DB: db}

    // no active students: defined as 0, not a division error
    rate, err := store.SubmissionRate(class.ID, assignment.ID)
    require.NoError(t, err)
    require.Zero(t, rate)

    s1 := seedUser(t, db, "student", "s1@example.com")
    s2 := seedUser(t, db, "student", "s2@example.com")
    for _, s := range []models.User{s1, s2} {
        _, err := ledger.JoinClass(s.ID, "AB12CD")
        require.NoError(t, err)
    }

    _, err = store.UpsertSubmission(assignment.ID, s1.ID, "done")
    require.NoError(t, err)
    rate, err = store.SubmissionRate(class.ID, assignment.ID)
    require.NoError(t, err)
    require.InDelta(t, 50, rate, 0.001)

    _, err = store.UpsertSubmission(assignment.ID, s2.ID, "done too")
    require.NoError(t, err)
    rate, err = store.SubmissionRate(class.ID, assignment.ID)
    require.NoError(t, err)
    require.InDelta(t, 100, rate, 0.001)

    // a student who left no longer counts on either side
    require.NoError(t, ledger.LeaveClass(s2.ID, class.ID))
    rate, err = store.SubmissionRate(class.ID, assignment.ID)
    require.NoError(t, err)
    require.InDelta(t, 100, rate, 0.001)
}

func TestSubmissionRateWrongClass(t *testing.T) {
    db := openTestDB(t)
    teacher := seedUser(t, db, "teacher", "t@example.com")
    classA := seedClass(t, db, teacher.ID, "AAAAAA")
    classB := seedClass(t, db, teacher.ID, "BBBBBB")
    assignment := seedAssignment(t, db, classA.ID)
    store := &Store{DB: db}

    _, err := store.SubmissionRate(classB.ID, assignment.ID)
    require.ErrorIs(t, err, ErrNotFound)
}
