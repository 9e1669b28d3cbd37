package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

const shoppingListFilename = "shopping_list.txt"

type RecipeHandler struct {
	recipeService service.IRecipeService
	favorites     service.IRelationService
	carts         service.IRelationService
	authService   middleware.TokenValidator
	createLimiter *middleware.RateLimiter
	pageSize      int
	log           *logger.Logger
}

// NewRecipeHandler builds the recipe endpoints. createLimiter may be nil, in
// which case recipe creation is not rate limited.
func NewRecipeHandler(
	recipeService service.IRecipeService,
	favorites service.IRelationService,
	carts service.IRelationService,
	authService middleware.TokenValidator,
	createLimiter *middleware.RateLimiter,
	pageSize int,
	log *logger.Logger,
) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		favorites:     favorites,
		carts:         carts,
		authService:   authService,
		createLimiter: createLimiter,
		pageSize:      pageSize,
		log:           log.With("handler", "RecipeHandler"),
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	requireAuth := middleware.AuthMiddleware(h.authService)
	optionalAuth := middleware.OptionalAuth(h.authService)

	create := []gin.HandlerFunc{requireAuth}
	if h.createLimiter != nil {
		create = append(create, h.createLimiter.RateLimitMiddleware())
	}
	create = append(create, h.CreateRecipe)

	recipes := router.Group("/recipes")
	{
		recipes.GET("", optionalAuth, h.ListRecipes)
		recipes.POST("", create...)
		recipes.GET("/download_shopping_cart", requireAuth, h.DownloadShoppingCart)
		recipes.GET("/:id", optionalAuth, h.GetRecipe)
		recipes.PATCH("/:id", requireAuth, h.UpdateRecipe)
		recipes.PUT("/:id", requireAuth, h.UpdateRecipe)
		recipes.DELETE("/:id", requireAuth, h.DeleteRecipe)
		recipes.POST("/:id/favorite", requireAuth, h.addRelation(h.favorites))
		recipes.DELETE("/:id/favorite", requireAuth, h.removeRelation(h.favorites))
		recipes.POST("/:id/shopping_cart", requireAuth, h.addRelation(h.carts))
		recipes.DELETE("/:id/shopping_cart", requireAuth, h.removeRelation(h.carts))
	}
}

// ListRecipes supports ?author=<id>, repeated ?tags=<slug>, ?is_favorited=1
// and ?is_in_shopping_cart=1 on top of pagination.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	filter := types.RecipeFilter{
		AuthorID:         c.Query("author"),
		IsFavorited:      boolQuery(c, "is_favorited"),
		IsInShoppingCart: boolQuery(c, "is_in_shopping_cart"),
	}
	for _, slug := range c.QueryArray("tags") {
		if slug = strings.TrimSpace(slug); slug != "" {
			filter.TagSlugs = append(filter.TagSlugs, slug)
		}
	}
	page := pageQuery(c, h.pageSize)

	recipes, count, err := h.recipeService.List(c.Request.Context(), middleware.Viewer(c), filter, page)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newPage(c, recipes, count, page))
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	recipe, err := h.recipeService.Get(c.Request.Context(), middleware.Viewer(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.RecipeWriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMalformedBody(c, err)
		return
	}

	recipe, err := h.recipeService.Create(c.Request.Context(), middleware.Viewer(c), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req types.RecipeWriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMalformedBody(c, err)
		return
	}

	recipe, err := h.recipeService.Update(c.Request.Context(), middleware.Viewer(c), id, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.recipeService.Delete(c.Request.Context(), middleware.Viewer(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) addRelation(relations service.IRelationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uuidParam(c, "id")
		if !ok {
			return
		}
		short, err := relations.Add(c.Request.Context(), middleware.Viewer(c), id)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		c.JSON(http.StatusCreated, short)
	}
}

func (h *RecipeHandler) removeRelation(relations service.IRelationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uuidParam(c, "id")
		if !ok {
			return
		}
		if err := relations.Remove(c.Request.Context(), middleware.Viewer(c), id); err != nil {
			respondError(c, h.log, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// DownloadShoppingCart sends the summed ingredients of the viewer's cart as a text file.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	items, err := h.recipeService.ShoppingList(c.Request.Context(), middleware.Viewer(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+shoppingListFilename+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(service.FormatShoppingList(items)))
}
