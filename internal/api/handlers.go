package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/middleware"
)

// HealthHandler reports whether the API and its database are reachable.
type HealthHandler struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHealthHandler(db *gorm.DB, log *logger.Logger) *HealthHandler {
	return &HealthHandler{db: db, log: log.With("handler", "HealthHandler")}
}

func (h *HealthHandler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/health", h.HealthCheck)
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := database.HealthCheck(ctx, h.db); err != nil {
		h.log.Warn("Health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": "unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Foodgram API is running",
	})
}

// RateLimitHandler reports how much of the recipe creation allowance is left.
type RateLimitHandler struct {
	authService     middleware.TokenValidator
	creationLimiter *middleware.RateLimiter
	log             *logger.Logger
}

func NewRateLimitHandler(authService middleware.TokenValidator, creationLimiter *middleware.RateLimiter, log *logger.Logger) *RateLimitHandler {
	return &RateLimitHandler{
		authService:     authService,
		creationLimiter: creationLimiter,
		log:             log.With("handler", "RateLimitHandler"),
	}
}

// RegisterRoutes registers endpoints for checking rate limit status
func (h *RateLimitHandler) RegisterRoutes(router *gin.RouterGroup) {
	rateLimits := router.Group("/rate-limits")
	rateLimits.Use(middleware.AuthMiddleware(h.authService))
	{
		rateLimits.GET("/recipe-creation", h.RecipeCreation)
	}
}

func (h *RateLimitHandler) RecipeCreation(c *gin.Context) {
	viewer := middleware.Viewer(c)
	remaining, resetTime, err := h.creationLimiter.GetRemainingRequests(c.Request.Context(), viewer.UserID.String())
	if err != nil {
		h.log.Error("Failed to read rate limit", "user_id", viewer.UserID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to check rate limit."})
		return
	}

	cfg := h.creationLimiter.Config()
	c.JSON(http.StatusOK, gin.H{
		"limit":      cfg.Limit,
		"remaining":  remaining,
		"reset_time": resetTime.Unix(),
		"window":     cfg.Window.String(),
	})
}
