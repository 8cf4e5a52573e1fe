package routes

import (
    "strconv"
    "time"

    "github.com/gin-gonic/gin"
    "gorm.io/gorm"

    "github.com/rahardyan/classroom_backend/internal/access"
    "github.com/rahardyan/classroom_backend/internal/classroom"
    "github.com/rahardyan/classroom_backend/internal/config"
    "github.com/rahardyan/classroom_backend/internal/controllers"
    "github.com/rahardyan/classroom_backend/internal/middleware"
    "github.com/rahardyan/classroom_backend/internal/ws"
)

func Register(r *gin.Engine, db *gorm.DB, cfg *config.Config, hub *ws.ClassHub) {
    accessTTL, err := time.ParseDuration(cfg.AccessTokenTTLMinutes + "m")
    if err != nil || accessTTL == 0 {
        accessTTL = 15 * time.Minute
    }
    refreshDays, err := strconv.Atoi(cfg.RefreshTokenTTLDays)
    if err != nil || refreshDays <= 0 {
        refreshDays = 30
    }

    gate := &access.Gate{DB: db}
    registry := &classroom.Registry{DB: db}
    ledger := &classroom.Ledger{DB: db}
    store := &classroom.Store{DB: db}

    authCtrl := &controllers.AuthController{
        DB:            db,
        AccessSecret:  cfg.JWTSecret,
        RefreshSecret: cfg.RefreshJWTSecret,
        AccessTTL:     accessTTL,
        RefreshTTL:    time.Duration(refreshDays) * 24 * time.Hour,
    }
    adminCtrl := &controllers.AdminController{DB: db}
    classCtrl := &controllers.ClassController{DB: db, Registry: registry, Ledger: ledger, Gate: gate}
    enrollCtrl := &controllers.EnrollmentController{DB: db, Ledger: ledger, Hub: hub}
    assignCtrl := &controllers.AssignmentController{DB: db, Store: store, Gate: gate, Hub: hub}
    subCtrl := &controllers.SubmissionController{DB: db, Store: store, Gate: gate, Hub: hub}

    // Public
    auth := r.Group("/api/v1/auth")
    {
        auth.POST("/login", authCtrl.Login)
        auth.POST("/refresh", authCtrl.Refresh)
    }

    // Protected
    authMW := middleware.AuthMiddleware(db, middleware.AuthConfig{JWTSecret: cfg.JWTSecret})
    api := r.Group("/api/v1", authMW)
    {
        api.GET("/auth/me", authCtrl.Me)
        api.POST("/auth/logout", authCtrl.Logout)

        // Shared, gate-checked per resource
        api.GET("/classes/:id", classCtrl.Get)
        api.GET("/classes/:id/assignments", assignCtrl.ListForClass)
        api.GET("/classes/:id/students", classCtrl.ListStudents)
        api.GET("/classes/:id/stream", ws.StreamHandler(gate, hub))
        api.GET("/assignments/:id", assignCtrl.Get)

        // Admin-only
        admin := api.Group("/admin", middleware.RequireRoles("admin"))
        {
            admin.GET("/users", adminCtrl.ListUsers)
            admin.POST("/users", authCtrl.Register) // admin-only registration (role fixed at creation)
            admin.GET("/users/:user_id", adminCtrl.GetUser)
            admin.PUT("/users/:user_id", adminCtrl.UpdateUser)
            admin.DELETE("/users/:user_id", adminCtrl.DeleteUser)
            admin.GET("/classes", adminCtrl.ListClasses)
            admin.GET("/stats", adminCtrl.Stats)
        }

        // Teacher area (and admin)
        teacher := api.Group("/teacher", middleware.RequireRoles("teacher", "admin"))
        {
            teacher.POST("/classes", classCtrl.Create)
            teacher.GET("/classes", classCtrl.ListMine)
            teacher.PUT("/classes/:id", classCtrl.Update)
            teacher.POST("/classes/:id/assignments", assignCtrl.Create)
            teacher.GET("/assignments/:id/submissions", subCtrl.ListForAssignment)
            teacher.GET("/assignments/:id/rate", assignCtrl.Rate)
        }

        // Student area (and admin)
        student := api.Group("/student", middleware.RequireRoles("student", "admin"))
        {
            student.POST("/join", enrollCtrl.Join)
            student.POST("/classes/:id/leave", enrollCtrl.Leave)
            student.GET("/classes", enrollCtrl.MyClasses)
            student.GET("/assignments", assignCtrl.Upcoming)
            student.POST("/assignments/:id/submission", subCtrl.Submit)
            student.GET("/assignments/:id/submission", subCtrl.Mine)
        }
    }
}
