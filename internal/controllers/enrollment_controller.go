package controllers

import (
    "net/http"

    "github.com/gin-gonic/gin"
    "gorm.io/gorm"

    "github.com/rahardyan/classroom_backend/internal/classroom"
    "github.com/rahardyan/classroom_backend/internal/models"
    "github.com/rahardyan/classroom_backend/internal/ws"
)

type EnrollmentController struct {
    DB     *gorm.DB
    Ledger *classroom.Ledger
    Hub    *ws.ClassHub
}

type joinRequest struct {
    Code string `json:"code" binding:"required"`
}

// Join redeems a class code for the requesting student. Codes are
// case-insensitive; rejoining a class left earlier reactivates the old
// enrollment row.
func (ec *EnrollmentController) Join(c *gin.Context) {
    user := currentUser(c)

    var req joinRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }

    class, err := ec.Ledger.JoinClass(user.ID, req.Code)
    if err != nil {
        respondError(c, err)
        return
    }

    ec.Hub.Broadcast(ws.StreamEvent{
        Type:    ws.EventStudentJoined,
        ClassID: class.ID,
        Actor:   user.FullName,
    })
    c.JSON(http.StatusOK, gin.H{
        "message":    "joined",
        "class_id":   class.ID,
        "class_name": class.Name,
    })
}

// Leave marks the enrollment inactive; the row is kept so a later
// rejoin reuses it.
func (ec *EnrollmentController) Leave(c *gin.Context) {
    classID, ok := uuidParam(c, "id")
    if !ok {
        return
    }
    user := currentUser(c)
    if err := ec.Ledger.LeaveClass(user.ID, classID); err != nil {
        respondError(c, err)
        return
    }
    c.JSON(http.StatusOK, gin.H{"message": "left class"})
}

// MyClasses lists the student's actively enrolled classes with teacher
// names and assignment counts, newest class first.
func (ec *EnrollmentController) MyClasses(c *gin.Context) {
    user := currentUser(c)

    type row struct {
        ID              string `json:"id"`
        Name            string `json:"name"`
        Description     string `json:"description"`
        TeacherName     string `json:"teacher_name"`
        AssignmentCount int64  `json:"assignment_count"`
        EnrolledAt      string `json:"enrolled_at"`
    }
    var rows []row
    if err := ec.DB.Table("classes AS c").
        Select("c.id, c.name, c.description, u.full_name AS teacher_name, e.enrolled_at, "+
            "(SELECT COUNT(*) FROM assignments a WHERE a.class_id_ref = c.id) AS assignment_count").
        Joins("JOIN enrollments e ON e.class_id_ref = c.id").
        Joins("JOIN users u ON u.id = c.teacher_id_ref").
        Where("e.student_id_ref = ? AND e.status = ?", user.ID, models.EnrollmentActive).
        Order("c.created_at DESC").
        Scan(&rows).Error; err != nil {
        respondError(c, err)
        return
    }
    c.JSON(http.StatusOK, gin.H{"data": rows})
}
