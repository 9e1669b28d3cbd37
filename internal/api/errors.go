package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/apperr"
	"github.com/pageza/foodgram/backend/internal/logger"
)

// respondError renders err with its status. Field errors are rendered as
// {"field": ["message", ...]}, everything else as {"detail": "message"}.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	_ = c.Error(err)

	appErr, ok := apperr.As(err)
	if !ok || appErr.Status >= http.StatusInternalServerError {
		log.Error("Request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error."})
		return
	}

	if appErr.Message == "" && len(appErr.Fields) > 0 {
		c.AbortWithStatusJSON(appErr.Status, appErr.Fields)
		return
	}
	c.AbortWithStatusJSON(appErr.Status, gin.H{"detail": appErr.Error()})
}

func respondMalformedBody(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "Malformed request body."})
}

func respondNotFound(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"detail": "Not found."})
}
