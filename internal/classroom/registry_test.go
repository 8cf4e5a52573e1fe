package classroom

import (
    "strings"
    "testing"

    "github.com/stretchr/testify/require"
)

func TestCreateClassGeneratesCode(t *testing.T) {
    db := openTestDB(t)
    teacher := seedUser(t, db, "teacher", "t@example.com")
    registry := &Registry{DB: db}

    class, err := registry.CreateClass(teacher.ID, "  Algebra I  ", "intro course")
    require.NoError(t, err)
    require.Equal(t, "Algebra I", class.Name)
    require.Len(t, class.Code, classCodeLength)
    for _, r := range class.Code {
        require.Contains(t, "ABCDEFGHJKLMNPQRSTUVWXYZ23456789", string(r))
    }
    require.Equal(t, teacher.ID, class.TeacherIDRef)
}

func TestCreateClassValidation(t *testing.T) {
    db := openTestDB(t)
    teacher := seedUser(t, db, "teacher", "t@example.com")
    registry := &Registry{DB: db}

    _, err := registry.CreateClass(teacher.ID, "   ", "")
    require.ErrorIs(t, err, ErrValidation)

    _, err = registry.CreateClass(teacher.ID, strings.Repeat("x", 201), "")
    require.ErrorIs(t, err, ErrValidation)
}

func TestCreateClassRequiresTeacherOwner(t *testing.T) {
    db := openTestDB(t)
    admin := seedUser(t, db, "admin", "root@example.com")
    student := seedUser(t, db, "student", "s@example.com")
    registry := &Registry{DB: db}

    for _, u := range []string{admin.ID, student.ID, "22222222-2222-2222-2222-222222222222"} {
        _, err := registry.CreateClass(u, "Algebra I", "")
        require.ErrorIs(t, err, ErrValidation)
    }
}

func TestUpdateClass(t *testing.T) {
    db := openTestDB(t)
    teacher := seedUser(t, db, "teacher", "t@example.com")
    class := seedClass(t, db, teacher.ID, "AB12CD")
    registry := &Registry{DB: db}

    updated, err := registry.UpdateClass(class.ID, "Renamed", "new blurb")
    require.NoError(t, err)
    require.Equal(t, "Renamed", updated.Name)
    require.Equal(t, "AB12CD", updated.Code, "join code must survive updates")

    _, err = registry.UpdateClass(class.ID, "", "")
    require.ErrorIs(t, err, ErrValidation)

    _, err = registry.UpdateClass("11111111-1111-1111-1111-111111111111", "X", "")
    require.ErrorIs(t, err, ErrNotFound)
}
