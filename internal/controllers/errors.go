package controllers

import (
    "errors"
    "log"
    "net/http"

    "github.com/gin-gonic/gin"
    "gorm.io/gorm"

    "github.com/rahardyan/classroom_backend/internal/access"
    "github.com/rahardyan/classroom_backend/internal/classroom"
)

// respondError maps service errors to HTTP responses. Validation and
// conflict errors carry their message through; a gate denial stays a
// uniform "access denied" so responses never reveal whether the
// resource exists; anything unrecognized is logged and hidden behind a
// generic message.
func respondError(c *gin.Context, err error) {
    switch {
    case errors.Is(err, classroom.ErrValidation):
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    case errors.Is(err, classroom.ErrNotFound):
        c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
    case errors.Is(err, classroom.ErrAlreadyEnrolled):
        c.JSON(http.StatusConflict, gin.H{"error": "already enrolled in this class"})
    case errors.Is(err, classroom.ErrConflict), errors.Is(err, gorm.ErrDuplicatedKey):
        c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
    case errors.Is(err, access.ErrDenied), errors.Is(err, classroom.ErrNotEnrolled):
        c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
    default:
        log.Printf("storage error: %v", err)
        c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong, please try again"})
    }
}
