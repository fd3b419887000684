package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether the database answers. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type healthResponse struct {
	Status      string `json:"status"`
	Database    string `json:"database"`
	Storage     string `json:"storage"`
	Environment string `json:"environment"`
}

func (h HandlerSet) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status, code := "ok", http.StatusOK
	dbStatus := "ok"
	if err := h.db.PingContext(ctx); err != nil {
		dbStatus = "error"
		status, code = "degraded", http.StatusServiceUnavailable
		h.log.Error().Err(err).Msg("database ping failed")
	}

	c.JSON(code, healthResponse{
		Status:      status,
		Database:    dbStatus,
		Storage:     h.store.Name(),
		Environment: h.cfg.Environment,
	})
}
