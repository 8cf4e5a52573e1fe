package controllers

import (
    "net/http"
    "strings"

    "github.com/gin-gonic/gin"
    "gorm.io/gorm"

    "github.com/rahardyan/classroom_backend/internal/models"
    "github.com/rahardyan/classroom_backend/internal/utils"
)

type AdminController struct {
    DB *gorm.DB
}

// ListUsers supports pagination, sorting whitelist and q/role/active
// filters.
func (a *AdminController) ListUsers(c *gin.Context) {
    allowedSorts := map[string]string{
        "created_at": "created_at",
        "full_name":  "full_name",
        "email":      "email",
        "role":       "role",
        "active":     "active",
    }
    p, order := pagination(c, "created_at", allowedSorts)

    qText := strings.TrimSpace(c.Query("q"))
    role := strings.TrimSpace(strings.ToLower(c.Query("role")))
    activeStr := strings.TrimSpace(strings.ToLower(c.Query("active")))
    if role != "" && !IsValidRole(role) {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
        return
    }

    applyFilters := func(q *gorm.DB) (*gorm.DB, bool) {
        if qText != "" {
            like := "%" + qText + "%"
            q = q.Where("full_name ILIKE ? OR email ILIKE ?", like, like)
        }
        if role != "" {
            q = q.Where("role = ?", role)
        }
        switch activeStr {
        case "":
        case "true", "1":
            q = q.Where("active = ?", true)
        case "false", "0":
            q = q.Where("active = ?", false)
        default:
            return nil, false
        }
        return q, true
    }

    base, ok := applyFilters(a.DB.Model(&models.User{}))
    if !ok {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid active value"})
        return
    }
    var total int64
    if err := base.Count(&total).Error; err != nil {
        respondError(c, err)
        return
    }

    listQ, _ := applyFilters(a.DB.Model(&models.User{}).Order(order))
    if !p.All {
        listQ = listQ.Offset((p.Page - 1) * p.Limit).Limit(p.Limit)
    }
    var users []models.User
    if err := listQ.Find(&users).Error; err != nil {
        respondError(c, err)
        return
    }

    out := make([]gin.H, 0, len(users))
    for _, u := range users {
        out = append(out, gin.H{
            "user_id":    u.ID,
            "full_name":  u.FullName,
            "email":      u.Email,
            "role":       u.Role,
            "active":     u.Active,
            "created_at": u.CreatedAt,
            "updated_at": u.UpdatedAt,
        })
    }
    c.JSON(http.StatusOK, gin.H{"data": out, "meta": p.meta(total)})
}

func (a *AdminController) GetUser(c *gin.Context) {
    userID, ok := uuidParam(c, "user_id")
    if !ok {
        return
    }
    var user models.User
    if err := a.DB.Where("id = ?", userID).First(&user).Error; err != nil {
        c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
        return
    }
    c.JSON(http.StatusOK, gin.H{
        "user_id":    user.ID,
        "full_name":  user.FullName,
        "email":      user.Email,
        "role":       user.Role,
        "active":     user.Active,
        "created_at": user.CreatedAt,
        "updated_at": user.UpdatedAt,
    })
}

type updateUserRequest struct {
    FullName *string `json:"full_name"`
    Email    *string `json:"email" binding:"omitempty,email"`
    Password *string `json:"password" binding:"omitempty,min=6"`
    Active   *bool   `json:"active"`
}

// UpdateUser edits profile fields. The role is immutable after
// creation, so it is deliberately absent from the request shape.
func (a *AdminController) UpdateUser(c *gin.Context) {
    userID, ok := uuidParam(c, "user_id")
    if !ok {
        return
    }
    var user models.User
    if err := a.DB.Where("id = ?", userID).First(&user).Error; err != nil {
        c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
        return
    }

    var req updateUserRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    if req.FullName != nil {
        user.FullName = strings.TrimSpace(*req.FullName)
    }
    if req.Email != nil {
        user.Email = strings.TrimSpace(*req.Email)
    }
    if req.Password != nil {
        hashed, err := utils.HashPassword(*req.Password)
        if err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
            return
        }
        user.Password = hashed
    }
    if req.Active != nil {
        user.Active = *req.Active
    }
    if err := a.DB.Save(&user).Error; err != nil {
        respondError(c, err)
        return
    }
    c.JSON(http.StatusOK, gin.H{"message": "updated", "user_id": user.ID})
}

// DeleteUser deactivates rather than deletes: enrollments and
// submissions keep their foreign keys intact.
func (a *AdminController) DeleteUser(c *gin.Context) {
    userID, ok := uuidParam(c, "user_id")
    if !ok {
        return
    }
    res := a.DB.Model(&models.User{}).Where("id = ?", userID).Update("active", false)
    if res.Error != nil {
        respondError(c, res.Error)
        return
    }
    if res.RowsAffected == 0 {
        c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
        return
    }
    c.JSON(http.StatusOK, gin.H{"message": "deactivated"})
}

// ListClasses gives admins the full class registry with teacher names.
func (a *AdminController) ListClasses(c *gin.Context) {
    allowedSorts := map[string]string{
        "created_at": "c.created_at",
        "name":       "c.name",
    }
    p, order := pagination(c, "created_at", allowedSorts)

    var total int64
    if err := a.DB.Model(&models.Class{}).Count(&total).Error; err != nil {
        respondError(c, err)
        return
    }

    type row struct {
        ID          string `json:"id"`
        Name        string `json:"name"`
        Code        string `json:"code"`
        TeacherID   string `json:"teacher_id"`
        TeacherName string `json:"teacher_name"`
        CreatedAt   string `json:"created_at"`
    }
    q := a.DB.Table("classes AS c").
        Select("c.id, c.name, c.code, c.teacher_id_ref AS teacher_id, u.full_name AS teacher_name, c.created_at").
        Joins("JOIN users u ON u.id = c.teacher_id_ref").
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

// Stats backs the admin dashboard: user counts per role plus the most
// recent users and classes.
func (a *AdminController) Stats(c *gin.Context) {
    type roleCount struct {
        Role  string `json:"role"`
        Count int64  `json:"count"`
    }
    var roleCounts []roleCount
    if err := a.DB.Model(&models.User{}).
        Select("role, COUNT(*) AS count").
        Group("role").
        Scan(&roleCounts).Error; err != nil {
        respondError(c, err)
        return
    }

    var recentUsers []models.User
    if err := a.DB.Order("created_at DESC").Limit(5).Find(&recentUsers).Error; err != nil {
        respondError(c, err)
        return
    }
    users := make([]gin.H, 0, len(recentUsers))
    for _, u := range recentUsers {
        users = append(users, gin.H{
            "user_id":    u.ID,
            "full_name":  u.FullName,
            "email":      u.Email,
            "role":       u.Role,
            "created_at": u.CreatedAt,
        })
    }

    type classRow struct {
        ID          string `json:"id"`
        Name        string `json:"name"`
        TeacherName string `json:"teacher_name"`
        CreatedAt   string `json:"created_at"`
    }
    var recentClasses []classRow
    if err := a.DB.Table("classes AS c").
        Select("c.id, c.name, u.full_name AS teacher_name, c.created_at").
        Joins("JOIN users u ON u.id = c.teacher_id_ref").
        Order("c.created_at DESC").
        Limit(5).
        Scan(&recentClasses).Error; err != nil {
        respondError(c, err)
        return
    }

    c.JSON(http.StatusOK, gin.H{
        "user_counts":    roleCounts,
        "recent_users":   users,
        "recent_classes": recentClasses,
    })
}
