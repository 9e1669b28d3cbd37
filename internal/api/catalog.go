package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/service"
)

// CatalogHandler exposes tags and ingredients. Neither listing is paginated.
type CatalogHandler struct {
	catalogService service.ICatalogService
	log            *logger.Logger
}

func NewCatalogHandler(catalogService service.ICatalogService, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, log: log.With("handler", "CatalogHandler")}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/tags", h.ListTags)
	router.GET("/tags/:id", h.GetTag)
	router.GET("/ingredients", h.ListIngredients)
	router.GET("/ingredients/:id", h.GetIngredient)
}

func (h *CatalogHandler) ListTags(c *gin.Context) {
	tags, err := h.catalogService.ListTags(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (h *CatalogHandler) GetTag(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	tag, err := h.catalogService.GetTag(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

// ListIngredients filters by ?name=, a case-insensitive name prefix.
func (h *CatalogHandler) ListIngredients(c *gin.Context) {
	ingredients, err := h.catalogService.ListIngredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

func (h *CatalogHandler) GetIngredient(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	ingredient, err := h.catalogService.GetIngredient(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, ingredient)
}
