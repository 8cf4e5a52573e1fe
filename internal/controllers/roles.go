package controllers

var allowedRoles = map[string]struct{}{
    "admin":   {},
    "teacher": {},
    "student": {},
}

func IsValidRole(role string) bool {
    _, ok := allowedRoles[role]
    return ok
}
