package handlers

import (
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Products *ProductHandler
	Orders   *OrderHandler
	Bad      *BadQueryHandler
	Static   *StaticHandler
}

// RegisterRoutes mounts the shop API and the front end on router.
func RegisterRoutes(router *gin.Engine, h Handlers) {
	api := router.Group("/api")
	{
		api.GET("/health", HealthCheck)
		api.GET("/products", h.Products.ListProducts)
		api.POST("/order", h.Orders.PlaceOrder)
		api.GET("/orders", h.Orders.ListOrders)
		api.GET("/bad", h.Bad.RunBadQuery)
		api.GET("/bad/mode", h.Bad.GetMode)
		api.POST("/bad/mode", h.Bad.SetMode)
		api.GET("/bad/runs", h.Bad.ListRuns)
	}

	router.GET("/", h.Static.Index)
	router.StaticFS("/assets", h.Static.Assets())
	router.NoRoute(h.Static.NotFound)
}
