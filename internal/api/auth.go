package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// AuthHandler issues and revokes API tokens.
type AuthHandler struct {
	authService service.IAuthService
	log         *logger.Logger
}

func NewAuthHandler(authService service.IAuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log.With("handler", "AuthHandler")}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	token := router.Group("/auth/token")
	{
		token.POST("/login", h.Login)
		token.POST("/logout", middleware.AuthMiddleware(h.authService), h.Logout)
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMalformedBody(c, err)
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.Claims(c)); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
