package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is satisfied by the catalogue stores.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CheckConn handles GET /check-conn.
func CheckConn(store Pinger, log *slog.Logger) gin.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			log.ErrorContext(ctx, "store ping failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "API is alive and database connected"})
	}
}
