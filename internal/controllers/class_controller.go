package controllers

import (
    "net/http"

    "github.com/gin-gonic/gin"
    "gorm.io/gorm"

    "github.com/rahardyan/classroom_backend/internal/access"
    "github.com/rahardyan/classroom_backend/internal/classroom"
    "github.com/rahardyan/classroom_backend/internal/models"
)

type ClassController struct {
    DB       *gorm.DB
    Registry *classroom.Registry
    Ledger   *classroom.Ledger
    Gate     *access.Gate
}

type classRequest struct {
    Name        string `json:"name" binding:"required,max=200"`
    Description string `json:"description"`
}

// Create makes a new class owned by the requesting teacher. Admins
// create on behalf of a teacher and must name one via teacher_id; a
// class is always owned by a teacher, never by an admin.
func (cc *ClassController) Create(c *gin.Context) {
    user := currentUser(c)

    var req struct {
        classRequest
        TeacherID string `json:"teacher_id"`
    }
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }

    teacherID := user.ID
    if user.Role == "admin" {
        if req.TeacherID == "" {
            c.JSON(http.StatusBadRequest, gin.H{"error": "teacher_id is required"})
            return
        }
        var teacher models.User
        if err := cc.DB.Where("id = ? AND role = ?", req.TeacherID, "teacher").First(&teacher).Error; err != nil {
            c.JSON(http.StatusBadRequest, gin.H{"error": "teacher not found"})
            return
        }
        teacherID = teacher.ID
    }

    class, err := cc.Registry.CreateClass(teacherID, req.Name, req.Description)
    if err != nil {
        respondError(c, err)
        return
    }
    c.JSON(http.StatusCreated, gin.H{
        "id":          class.ID,
        "name":        class.Name,
        "description": class.Description,
        "code":        class.Code,
        "teacher_id":  class.TeacherIDRef,
        "created_at":  class.CreatedAt,
    })
}

// ListMine returns the requesting teacher's classes with active student
// counts, newest first.
func (cc *ClassController) ListMine(c *gin.Context) {
    user := currentUser(c)

    var classes []models.Class
    if err := cc.DB.Where("teacher_id_ref = ?", user.ID).Order("created_at DESC").Find(&classes).Error; err != nil {
        respondError(c, err)
        return
    }

    out := make([]gin.H, 0, len(classes))
    for _, class := range classes {
        count, err := cc.Ledger.StudentCount(class.ID)
        if err != nil {
            respondError(c, err)
            return
        }
        out = append(out, gin.H{
            "id":            class.ID,
            "name":          class.Name,
            "description":   class.Description,
            "code":          class.Code,
            "student_count": count,
            "created_at":    class.CreatedAt,
        })
    }
    c.JSON(http.StatusOK, gin.H{"data": out})
}

// Get returns class details for anyone the gate lets through. The join
// code is only included for the owning teacher and admins.
func (cc *ClassController) Get(c *gin.Context) {
    classID, ok := uuidParam(c, "id")
    if !ok {
        return
    }
    user := currentUser(c)
    if err := cc.Gate.Authorize(principalOf(user), access.ResourceClass, classID); err != nil {
        respondError(c, err)
        return
    }

    class, err := cc.Registry.GetClass(classID)
    if err != nil {
        respondError(c, err)
        return
    }
    var teacher models.User
    teacherName := ""
    if err := cc.DB.Where("id = ?", class.TeacherIDRef).First(&teacher).Error; err == nil {
        teacherName = teacher.FullName
    }
    count, err := cc.Ledger.StudentCount(classID)
    if err != nil {
        respondError(c, err)
        return
    }

    resp := gin.H{
        "id":            class.ID,
        "name":          class.Name,
        "description":   class.Description,
        "teacher_id":    class.TeacherIDRef,
        "teacher_name":  teacherName,
        "student_count": count,
        "created_at":    class.CreatedAt,
    }
    if user.Role == "admin" || user.ID == class.TeacherIDRef {
        resp["code"] = class.Code
    }
    c.JSON(http.StatusOK, resp)
}

// Update edits name/description. Gate rule: owning teacher or admin.
func (cc *ClassController) Update(c *gin.Context) {
    classID, ok := uuidParam(c, "id")
    if !ok {
        return
    }
    user := currentUser(c)
    if err := cc.Gate.Authorize(principalOf(user), access.ResourceClass, classID); err != nil {
        respondError(c, err)
        return
    }

    var req classRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    class, err := cc.Registry.UpdateClass(classID, req.Name, req.Description)
    if err != nil {
        respondError(c, err)
        return
    }
    c.JSON(http.StatusOK, gin.H{
        "id":          class.ID,
        "name":        class.Name,
        "description": class.Description,
        "updated_at":  class.UpdatedAt,
    })
}

// ListStudents lists a class roster (active enrollments) with
// pagination and a sort whitelist.
func (cc *ClassController) ListStudents(c *gin.Context) {
    classID, ok := uuidParam(c, "id")
    if !ok {
        return
    }
    user := currentUser(c)
    if err := cc.Gate.Authorize(principalOf(user), access.ResourceClass, classID); err != nil {
        respondError(c, err)
        return
    }

    allowedSorts := map[string]string{
        "enrolled_at": "e.enrolled_at",
        "full_name":   "u.full_name",
        "email":       "u.email",
    }
    p, order := pagination(c, "enrolled_at", allowedSorts)

    var total int64
    if err := cc.DB.Model(&models.Enrollment{}).
        Where("class_id_ref = ? AND status = ?", classID, models.EnrollmentActive).
        Count(&total).Error; err != nil {
        respondError(c, err)
        return
    }

    type row struct {
        UserID     string `json:"user_id"`
        FullName   string `json:"full_name"`
        Email      string `json:"email"`
        EnrolledAt string `json:"enrolled_at"`
    }
    q := cc.DB.Table("enrollments AS e").
        Select("u.id AS user_id, u.full_name, u.email, e.enrolled_at").
        Joins("JOIN users u ON u.id = e.student_id_ref").
        Where("e.class_id_ref = ? AND e.status = ?", classID, models.EnrollmentActive).
        Order(order)
    if !p.All {
        q = q.Offset((p.Page - 1) * p.Limit).Limit(p.Limit)
    }
    var rows []row
    if err := q.Scan(&rows).Error; err != nil {
        respondError(c, err)
        return
    }
    c.JSON(http.StatusOK, gin.H{"data": rows, "meta": p.meta(total)})
}
