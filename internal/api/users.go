package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// UserHandler serves registration, user lookups and subscriptions.
type UserHandler struct {
	userService         service.IUserService
	subscriptionService service.ISubscriptionService
	authService         middleware.TokenValidator
	pageSize            int
	log                 *logger.Logger
}

func NewUserHandler(
	userService service.IUserService,
	subscriptionService service.ISubscriptionService,
	authService middleware.TokenValidator,
	pageSize int,
	log *logger.Logger,
) *UserHandler {
	return &UserHandler{
		userService:         userService,
		subscriptionService: subscriptionService,
		authService:         authService,
		pageSize:            pageSize,
		log:                 log.With("handler", "UserHandler"),
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	requireAuth := middleware.AuthMiddleware(h.authService)
	optionalAuth := middleware.OptionalAuth(h.authService)

	users := router.Group("/users")
	{
		users.POST("", h.Register)
		users.GET("", optionalAuth, h.ListUsers)
		users.GET("/me", requireAuth, h.Me)
		users.POST("/set_password", requireAuth, h.SetPassword)
		users.GET("/subscriptions", requireAuth, h.Subscriptions)
		users.GET("/:id", optionalAuth, h.GetUser)
		users.POST("/:id/subscribe", requireAuth, h.Subscribe)
		users.DELETE("/:id/subscribe", requireAuth, h.Unsubscribe)
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMalformedBody(c, err)
		return
	}
	user, err := h.userService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	page := pageQuery(c, h.pageSize)
	users, count, err := h.userService.List(c.Request.Context(), middleware.Viewer(c), page)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newPage(c, users, count, page))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.Get(c.Request.Context(), middleware.Viewer(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.userService.Me(c.Request.Context(), middleware.Viewer(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) SetPassword(c *gin.Context) {
	var req types.SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMalformedBody(c, err)
		return
	}
	if err := h.userService.SetPassword(c.Request.Context(), middleware.Viewer(c), &req); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Subscriptions lists the authors the viewer follows. ?recipes_limit caps
// the recipes shown per author.
func (h *UserHandler) Subscriptions(c *gin.Context) {
	page := pageQuery(c, h.pageSize)
	follows, count, err := h.subscriptionService.List(c.Request.Context(), middleware.Viewer(c), page, intQuery(c, "recipes_limit"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newPage(c, follows, count, page))
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	follow, err := h.subscriptionService.Subscribe(c.Request.Context(), middleware.Viewer(c), id, intQuery(c, "recipes_limit"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, follow)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.subscriptionService.Unsubscribe(c.Request.Context(), middleware.Viewer(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
