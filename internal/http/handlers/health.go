package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lovepattern-backend/internal/platform/apierr"
)

// HealthHandler answers liveness checks. Ping, when set, is the session
// store's dependency check (redis).
type HealthHandler struct {
	Ping func(ctx context.Context) error
}

func NewHealthHandler(ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{Ping: ping}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	if h.Ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.Ping(ctx); err != nil {
			c.String(http.StatusServiceUnavailable, apierr.CodeUnavailable)
			return
		}
	}
	c.String(http.StatusOK, "ok")
}
