package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/media"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
)

// Dependencies are the long-lived resources the routes are built on.
// Redis is optional.
type Dependencies struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client
	Store  media.Store
	Log    *logger.Logger
}

// SetupRouter configures the application routes
func SetupRouter(deps Dependencies) *gin.Engine {
	cfg, log := deps.Config, deps.Log
	if !cfg.Env.DebugEndpoints() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	var (
		denylist        service.TokenDenylist = service.NewMemoryDenylist()
		creationLimiter *middleware.RateLimiter
	)
	if deps.Redis != nil {
		denylist = service.NewRedisDenylist(deps.Redis)
		creationLimiter = middleware.NewRecipeCreationRateLimiter(deps.Redis, cfg.RecipeCreateLimit, cfg.RecipeCreateWindow, log)
	} else {
		log.Warn("Redis not configured; token revocation is process-local and recipe creation is not rate limited")
	}

	authService := service.NewAuthService(deps.DB, cfg.JWTSecret, cfg.TokenTTL, denylist, log)
	userService := service.NewUserService(deps.DB, log)
	subscriptionService := service.NewSubscriptionService(deps.DB, log)
	recipeService := service.NewRecipeService(deps.DB, deps.Store, log)
	favorites := service.NewRelationService(deps.DB, service.RelationFavorite, log)
	carts := service.NewRelationService(deps.DB, service.RelationShoppingCart, log)
	catalogService := service.NewCatalogService(deps.DB, log)

	health := api.NewHealthHandler(deps.DB, log)
	health.RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if cfg.MediaDriver == "disk" {
		router.Static(cfg.MediaBaseURL, cfg.MediaRoot)
	}

	v1 := router.Group("/api")
	health.RegisterRoutes(v1)
	api.NewAuthHandler(authService, log).RegisterRoutes(v1)
	api.NewUserHandler(userService, subscriptionService, authService, cfg.PageSize, log).RegisterRoutes(v1)
	api.NewRecipeHandler(recipeService, favorites, carts, authService, creationLimiter, cfg.PageSize, log).RegisterRoutes(v1)
	api.NewCatalogHandler(catalogService, log).RegisterRoutes(v1)
	if creationLimiter != nil {
		api.NewRateLimitHandler(authService, creationLimiter, log).RegisterRoutes(v1)
	}

	return router
}
