package controllers

import (
    "net/http"
    "time"

    "github.com/gin-gonic/gin"
    "gorm.io/gorm"

    "github.com/rahardyan/classroom_backend/internal/access"
    "github.com/rahardyan/classroom_backend/internal/classroom"
    "github.com/rahardyan/classroom_backend/internal/ws"
)

type SubmissionController struct {
    DB    *gorm.DB
    Store *classroom.Store
    Gate  *access.Gate
    Hub   *ws.ClassHub
}

type submitRequest struct {
    Content string `json:"content" binding:"required"`
}

// Submit upserts the requesting student's work for an assignment.
// Gate rule: a student can only reach an assignment of a class they are
// actively enrolled in; the store re-checks membership before writing.
func (sc *SubmissionController) Submit(c *gin.Context) {
    assignmentID, ok := uuidParam(c, "id")
    if !ok {
        return
    }
    user := currentUser(c)
    if err := sc.Gate.Authorize(principalOf(user), access.ResourceAssignment, assignmentID); err != nil {
        respondError(c, err)
        return
    }

    var req submitRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }

    sub, err := sc.Store.UpsertSubmission(assignmentID, user.ID, req.Content)
    if err != nil {
        respondError(c, err)
        return
    }

    assignment, err := sc.Store.GetAssignment(assignmentID)
    if err == nil {
        sc.Hub.Broadcast(ws.StreamEvent{
            Type:    ws.EventSubmissionReceived,
            ClassID: assignment.ClassIDRef,
            Subject: assignment.Title,
            Actor:   user.FullName,
        })
    }
    c.JSON(http.StatusOK, gin.H{
        "id":           sub.ID,
        "assignment":   sub.AssignmentIDRef,
        "submitted_at": sub.SubmittedAt,
    })
}

// Mine returns the student's own submission for an assignment.
func (sc *SubmissionController) Mine(c *gin.Context) {
    assignmentID, ok := uuidParam(c, "id")
    if !ok {
        return
    }
    user := currentUser(c)
    if err := sc.Gate.Authorize(principalOf(user), access.ResourceAssignment, assignmentID); err != nil {
        respondError(c, err)
        return
    }

    sub, err := sc.Store.SubmissionOf(assignmentID, user.ID)
    if err != nil {
        respondError(c, err)
        return
    }
    c.JSON(http.StatusOK, gin.H{
        "id":           sub.ID,
        "content":      sub.Content,
        "submitted_at": sub.SubmittedAt,
    })
}

// ListForAssignment is the teacher view: all submissions for one
// assignment with student names, newest first.
func (sc *SubmissionController) ListForAssignment(c *gin.Context) {
    assignmentID, ok := uuidParam(c, "id")
    if !ok {
        return
    }
    user := currentUser(c)
    if err := sc.Gate.Authorize(principalOf(user), access.ResourceAssignment, assignmentID); err != nil {
        respondError(c, err)
        return
    }

    type row struct {
        ID          string    `json:"id"`
        StudentID   string    `json:"student_id"`
        StudentName string    `json:"student_name"`
        Content     string    `json:"content"`
        SubmittedAt time.Time `json:"submitted_at"`
    }
    var rows []row
    if err := sc.DB.Table("submissions AS s").
        Select("s.id, s.student_id_ref AS student_id, u.full_name AS student_name, s.content, s.submitted_at").
        Joins("JOIN users u ON u.id = s.student_id_ref").
        Where("s.assignment_id_ref = ?", assignmentID).
        Order("s.submitted_at DESC").
        Scan(&rows).Error; err != nil {
        respondError(c, err)
        return
    }
    c.JSON(http.StatusOK, gin.H{"data": rows})
}
