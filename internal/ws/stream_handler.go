package ws

import (
    "net/http"
    "strings"

    "github.com/gin-gonic/gin"
    "github.com/gorilla/websocket"

    "github.com/rahardyan/classroom_backend/internal/access"
    "github.com/rahardyan/classroom_backend/internal/models"
)

var upgrader = websocket.Upgrader{
    CheckOrigin: func(r *http.Request) bool {
        // Allow all origins; rely on JWT auth.
        return true
    },
}

// StreamHandler subscribes an authenticated client to a class's
// activity stream. Same gate as any other class read: teachers get
// their own classes, students their active enrollments, admins
// everything.
func StreamHandler(gate *access.Gate, hub *ClassHub) gin.HandlerFunc {
    return func(c *gin.Context) {
        if hub == nil {
            c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "realtime not available"})
            return
        }
        uVal, ok := c.Get("user")
        if !ok {
            c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
            return
        }
        user := uVal.(models.User)

        classID := strings.TrimSpace(c.Param("id"))
        principal := access.Principal{UserID: user.ID, Role: user.Role}
        if err := gate.Authorize(principal, access.ResourceClass, classID); err != nil {
            c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
            return
        }

        conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
        if err != nil {
            return
        }
        client := newClassClient(hub, conn, classID)
        hub.register <- client

        go client.writePump()
        client.readPump()
    }
}
