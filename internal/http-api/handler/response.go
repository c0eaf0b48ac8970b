package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bookshelf/internal/apperrors"
	"bookshelf/internal/http-api/middleware"
)

// respondError renders err by its code. Internal causes are logged and the
// client only sees "internal error".
func respondError(c *gin.Context, log *slog.Logger, err error) {
	_ = c.Error(err)

	var appErr *apperrors.Error
	if !errors.As(err, &appErr) || appErr.Code == apperrors.CodeInternal {
		log.ErrorContext(c.Request.Context(), "request failed",
			"request_id", middleware.GetRequestID(c),
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	body := gin.H{"error": appErr.Message}
	if appErr.Code == apperrors.CodeValidation && appErr.Details != nil {
		body["errors"] = appErr.Details
	}
	c.JSON(appErr.HTTPStatus(), body)
}

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param})
		return 0, false
	}
	return id, true
}
