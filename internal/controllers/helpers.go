package controllers

import (
    "net/http"
    "strconv"
    "strings"

    "github.com/gin-gonic/gin"
    "github.com/google/uuid"

    "github.com/rahardyan/classroom_backend/internal/access"
    "github.com/rahardyan/classroom_backend/internal/models"
)

func currentUser(c *gin.Context) models.User {
    uVal, _ := c.Get("user")
    return uVal.(models.User)
}

func principalOf(u models.User) access.Principal {
    return access.Principal{UserID: u.ID, Role: u.Role}
}

// uuidParam validates a :param as a UUID before it reaches a uuid
// column. Writes a 400 and returns false when malformed.
func uuidParam(c *gin.Context, name string) (string, bool) {
    raw := strings.TrimSpace(c.Param(name))
    if _, err := uuid.Parse(raw); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
        return "", false
    }
    return raw, true
}

type pageParams struct {
    All     bool
    Limit   int
    Page    int
    SortBy  string
    SortDir string
}

// pagination reads limit/page/all/sort_by/sort_dir query params, with
// sort columns restricted to the given whitelist.
func pagination(c *gin.Context, defaultSort string, allowedSorts map[string]string) (pageParams, string) {
    p := pageParams{Limit: 20, Page: 1}
    p.All = strings.EqualFold(c.Query("all"), "true") || c.Query("all") == "1"
    if v := c.Query("limit"); v != "" {
        if n, err := strconv.Atoi(v); err == nil && n > 0 {
            p.Limit = n
        }
    }
    if v := c.Query("page"); v != "" {
        if n, err := strconv.Atoi(v); err == nil && n > 0 {
            p.Page = n
        }
    }
    p.SortBy = strings.ToLower(c.DefaultQuery("sort_by", defaultSort))
    p.SortDir = strings.ToUpper(c.DefaultQuery("sort_dir", "DESC"))
    if p.SortDir != "ASC" && p.SortDir != "DESC" {
        p.SortDir = "DESC"
    }
    sortCol, ok := allowedSorts[p.SortBy]
    if !ok {
        sortCol = allowedSorts[defaultSort]
    }
    return p, sortCol + " " + p.SortDir
}

func (p pageParams) meta(total int64) gin.H {
    meta := gin.H{"total": total, "all": p.All}
    if !p.All {
        meta["limit"] = p.Limit
        meta["page"] = p.Page
        meta["sort_by"] = p.SortBy
        meta["sort_dir"] = p.SortDir
    }
    return meta
}
