package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pos-service/catalog"
	"pos-service/metrics"
	"pos-service/models"
	"pos-service/orders"
	"pos-service/realtime"
	"pos-service/session"
)

// Dependencies is everything the router wires into its handlers.
type Dependencies struct {
	Sessions *session.Store
	Auth     Authenticator
	Catalog  *catalog.Service
	Builder  *orders.Builder
	Book     *orders.Book
	Hub      *realtime.Hub
}

func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(), metrics.Middleware())

	authHandler := NewAuthHandler(deps.Sessions, deps.Auth, deps.Catalog)
	catalogHandler := NewCatalogHandler(deps.Catalog)
	cartHandler := NewCartHandler(deps.Catalog)
	checkoutHandler := NewCheckoutHandler(deps.Builder, deps.Book)
	orderHandler := NewOrderHandler(deps.Builder, deps.Book)
	reportHandler := NewReportHandler(deps.Book)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.POST("/auth/login", authHandler.Login)

	authed := router.Group("/", RequireSession(deps.Sessions))
	authed.POST("/auth/logout", authHandler.Logout)
	authed.GET("/auth/me", authHandler.Me)

	authed.GET("/catalog/products", RequirePage(models.PageCashier, models.PageProducts), catalogHandler.Products)
	authed.GET("/catalog/products/:productId", RequirePage(models.PageCashier, models.PageProducts), catalogHandler.GetProduct)
	authed.GET("/catalog/sizes", catalogHandler.Sizes)
	authed.GET("/catalog/addons", catalogHandler.Addons)
	authed.GET("/catalog/categories", catalogHandler.Categories)

	cashier := authed.Group("/", RequirePage(models.PageCashier))
	cashier.GET("/cart", cartHandler.GetCart)
	cashier.POST("/cart/items", cartHandler.AddItem)
	cashier.POST("/cart/items/:index/increase", cartHandler.IncreaseQuantity)
	cashier.POST("/cart/items/:index/decrease", cartHandler.DecreaseQuantity)
	cashier.DELETE("/cart/items/:index", cartHandler.RemoveItem)
	cashier.DELETE("/cart", cartHandler.ClearCart)
	cashier.POST("/checkout", checkoutHandler.Checkout)

	orderDesk := authed.Group("/", RequirePage(models.PageOrders))
	orderDesk.GET("/orders", orderHandler.ListOrders)
	orderDesk.POST("/orders/refresh", orderHandler.RefreshOrders)
	orderDesk.POST("/orders/:orderId/process", orderHandler.ProcessOrder)
	orderDesk.POST("/orders/:orderId/cancel", orderHandler.CancelOrder)
	if deps.Hub != nil {
		orderDesk.GET("/ws/orders", gin.WrapH(deps.Hub))
	}

	authed.GET("/reports/summary", RequirePage(models.PageDashboard), reportHandler.Summary)

	return router
}
