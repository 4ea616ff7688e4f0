// Package handler provides HTTP handlers for platform-level endpoints.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthHandler reports service liveness and database reachability on
// /health.
type HealthHandler struct {
	db *gorm.DB
}

// NewHealthHandler creates the handler. A nil db skips the reachability
// probe.
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health handles /health. It responds to HEAD and OPTIONS cheaply and
// answers GET with a JSON status including a database ping.
func (h *HealthHandler) Health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
		return
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
		return
	}

	dbStatus := "skipped"
	status := http.StatusOK
	if h.db != nil {
		dbStatus = "ok"
		sqlDB, err := h.db.DB()
		if err == nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			dbStatus = "unreachable"
			status = http.StatusServiceUnavailable
		}
	}

	body := gin.H{"status": "ok", "database": dbStatus}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	c.JSON(status, body)
}
