package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"pos-service/catalog"
	"pos-service/models"
	"pos-service/pricing"
)

type CartHandler struct {
	catalog *catalog.Service
}

func NewCartHandler(catalog *catalog.Service) *CartHandler {
	return &CartHandler{catalog: catalog}
}

func renderCart(c *gin.Context, status int) {
	lines, revision := currentSession(c).Cart.Snapshot()
	c.JSON(status, pricing.View(lines, revision))
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	renderCart(c, http.StatusOK)
}

// AddItem handles POST /cart/items. Prices come from the catalog, never from
// the request.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req models.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	line, err := h.catalog.ResolveItem(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	sess := currentSession(c)
	sess.Cart.Add(line)
	log.WithFields(log.Fields{
		"session_id": sess.ID,
		"product":    line.ProductName,
		"size":       line.Size,
		"quantity":   line.Quantity,
	}).Debug("added item to cart")

	renderCart(c, http.StatusOK)
}

func lineIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		badRequest(c, "Invalid cart line index", err)
		return 0, false
	}
	return index, true
}

// IncreaseQuantity handles POST /cart/items/:index/increase
func (h *CartHandler) IncreaseQuantity(c *gin.Context) {
	h.mutateLine(c, func(index int) error {
		return currentSession(c).Cart.IncreaseQuantity(index)
	})
}

// DecreaseQuantity handles POST /cart/items/:index/decrease
func (h *CartHandler) DecreaseQuantity(c *gin.Context) {
	h.mutateLine(c, func(index int) error {
		return currentSession(c).Cart.DecreaseQuantity(index)
	})
}

// RemoveItem handles DELETE /cart/items/:index
func (h *CartHandler) RemoveItem(c *gin.Context) {
	h.mutateLine(c, func(index int) error {
		return currentSession(c).Cart.Remove(index)
	})
}

func (h *CartHandler) mutateLine(c *gin.Context, mutate func(int) error) {
	index, ok := lineIndex(c)
	if !ok {
		return
	}
	if err := mutate(index); err != nil {
		respondError(c, err)
		return
	}
	renderCart(c, http.StatusOK)
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	currentSession(c).Cart.Clear()
	renderCart(c, http.StatusOK)
}
