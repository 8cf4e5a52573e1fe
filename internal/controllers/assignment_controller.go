package controllers

import (
    "net/http"
    "time"

    "github.com/gin-gonic/gin"
    "gorm.io/gorm"

    "github.com/rahardyan/classroom_backend/internal/access"
    "github.com/rahardyan/classroom_backend/internal/classroom"
    "github.com/rahardyan/classroom_backend/internal/models"
    "github.com/rahardyan/classroom_backend/internal/ws"
)

type AssignmentController struct {
    DB    *gorm.DB
    Store *classroom.Store
    Gate  *access.Gate
    Hub   *ws.ClassHub
}

type assignmentRequest struct {
    Title       string    `json:"title" binding:"required,max=200"`
    Description string    `json:"description"`
    DueDate     time.Time `json:"due_date" binding:"required"`
}

// Create adds an assignment to a class the requesting teacher owns.
func (ac *AssignmentController) Create(c *gin.Context) {
    classID, ok := uuidParam(c, "id")
    if !ok {
        return
    }
    user := currentUser(c)
    if err := ac.Gate.Authorize(principalOf(user), access.ResourceClass, classID); err != nil {
        respondError(c, err)
        return
    }

    var req assignmentRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }

    assignment, err := ac.Store.CreateAssignment(classID, req.Title, req.Description, req.DueDate)
    if err != nil {
        respondError(c, err)
        return
    }

    ac.Hub.Broadcast(ws.StreamEvent{
        Type:    ws.EventAssignmentCreated,
        ClassID: classID,
        Subject: assignment.Title,
        Actor:   user.FullName,
    })
    c.JSON(http.StatusCreated, gin.H{
        "id":          assignment.ID,
        "class_id":    assignment.ClassIDRef,
        "title":       assignment.Title,
        "description": assignment.Description,
        "due_date":    assignment.DueDate,
        "created_at":  assignment.CreatedAt,
    })
}

// ListForClass lists a class's assignments with submission counts,
// soonest due first.
func (ac *AssignmentController) ListForClass(c *gin.Context) {
    classID, ok := uuidParam(c, "id")
    if !ok {
        return
    }
    user := currentUser(c)
    if err := ac.Gate.Authorize(principalOf(user), access.ResourceClass, classID); err != nil {
        respondError(c, err)
        return
    }

    type row struct {
        ID              string    `json:"id"`
        Title           string    `json:"title"`
        Description     string    `json:"description"`
        DueDate         time.Time `json:"due_date"`
        SubmissionCount int64     `json:"submission_count"`
        CreatedAt       time.Time `json:"created_at"`
    }
    var rows []row
    if err := ac.DB.Table("assignments AS a").
        Select("a.id, a.title, a.description, a.due_date, a.created_at, "+
            "(SELECT COUNT(*) FROM submissions s WHERE s.assignment_id_ref = a.id) AS submission_count").
        Where("a.class_id_ref = ?", classID).
        Order("a.due_date ASC").
        Scan(&rows).Error; err != nil {
        respondError(c, err)
        return
    }
    c.JSON(http.StatusOK, gin.H{"data": rows})
}

// Get returns one assignment, gate-checked against its parent class.
func (ac *AssignmentController) Get(c *gin.Context) {
    assignmentID, ok := uuidParam(c, "id")
    if !ok {
        return
    }
    user := currentUser(c)
    if err := ac.Gate.Authorize(principalOf(user), access.ResourceAssignment, assignmentID); err != nil {
        respondError(c, err)
        return
    }

    assignment, err := ac.Store.GetAssignment(assignmentID)
    if err != nil {
        respondError(c, err)
        return
    }
    c.JSON(http.StatusOK, gin.H{
        "id":          assignment.ID,
        "class_id":    assignment.ClassIDRef,
        "title":       assignment.Title,
        "description": assignment.Description,
        "due_date":    assignment.DueDate,
        "created_at":  assignment.CreatedAt,
    })
}

// Rate reports the submission rate for one assignment: the share of
// the class's active students that have submitted.
func (ac *AssignmentController) Rate(c *gin.Context) {
    assignmentID, ok := uuidParam(c, "id")
    if !ok {
        return
    }
    user := currentUser(c)
    if err := ac.Gate.Authorize(principalOf(user), access.ResourceAssignment, assignmentID); err != nil {
        respondError(c, err)
        return
    }

    assignment, err := ac.Store.GetAssignment(assignmentID)
    if err != nil {
        respondError(c, err)
        return
    }
    rate, err := ac.Store.SubmissionRate(assignment.ClassIDRef, assignmentID)
    if err != nil {
        respondError(c, err)
        return
    }
    c.JSON(http.StatusOK, gin.H{
        "assignment_id":   assignmentID,
        "class_id":        assignment.ClassIDRef,
        "submission_rate": rate,
    })
}

// Upcoming lists the requesting student's assignments across active
// enrollments, nearest due date first, with their submission state.
func (ac *AssignmentController) Upcoming(c *gin.Context) {
    user := currentUser(c)

    type row struct {
        ID        string    `json:"id"`
        ClassID   string    `json:"class_id"`
        ClassName string    `json:"class_name"`
        Title     string    `json:"title"`
        DueDate   time.Time `json:"due_date"`
        Submitted bool      `json:"submitted"`
    }
    var rows []row
    if err := ac.DB.Table("assignments AS a").
        Select("a.id, a.class_id_ref AS class_id, c.name AS class_name, a.title, a.due_date, "+
            "EXISTS(SELECT 1 FROM submissions s WHERE s.assignment_id_ref = a.id AND s.student_id_ref = ?) AS submitted", user.ID).
        Joins("JOIN classes c ON c.id = a.class_id_ref").
        Joins("JOIN enrollments e ON e.class_id_ref = c.id").
        Where("e.student_id_ref = ? AND e.status = ?", user.ID, models.EnrollmentActive).
        Order("a.due_date ASC").
        Limit(20).
        Scan(&rows).Error; err != nil {
        respondError(c, err)
        return
    }
    c.JSON(http.StatusOK, gin.H{"data": rows})
}
