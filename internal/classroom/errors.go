package classroom

import "errors"

// Sentinel errors for the service layer. Handlers map these onto HTTP
// statuses; anything else is treated as a storage failure, logged, and
// surfaced as a generic message.
var (
    ErrNotFound        = errors.New("not found")
    ErrValidation      = errors.New("invalid input")
    ErrAlreadyEnrolled = errors.New("already enrolled")
    ErrNotEnrolled     = errors.New("not enrolled in this class")
    ErrConflict        = errors.New("conflict")
)
