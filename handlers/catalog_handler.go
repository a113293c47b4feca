package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pos-service/catalog"
	"pos-service/models"
)

type CatalogHandler struct {
	catalog *catalog.Service
}

func NewCatalogHandler(catalog *catalog.Service) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// Products handles GET /catalog/products?search=&category=
func (h *CatalogHandler) Products(c *gin.Context) {
	products, err := h.catalog.Products(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalog.FilterProducts(products, c.Query("search"), c.Query("category")))
}

func (h *CatalogHandler) Sizes(c *gin.Context) {
	sizes, err := h.catalog.Sizes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sizes)
}

func (h *CatalogHandler) Addons(c *gin.Context) {
	addons, err := h.catalog.Addons(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, addons)
}

func (h *CatalogHandler) Categories(c *gin.Context) {
	categories, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// GetProduct handles GET /catalog/products/:productId
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("productId"), 10, 32)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "Invalid product ID",
			Details: "Product ID must be a positive integer",
		})
		return
	}

	product, err := h.catalog.Product(c.Request.Context(), int32(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}
