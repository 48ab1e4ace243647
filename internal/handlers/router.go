package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter registers every route of the shop service.
func NewRouter(orders *OrderHandler, products *ProductHandler, system *SystemHandler, timeout time.Duration, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(logger), Timeout(timeout))

	router.GET("/health", system.HealthCheck)
	router.POST("/seed", system.Seed)

	router.POST("/orders", orders.CreateOrder)
	router.GET("/orders/:id", orders.GetOrder)
	router.POST("/orders/:id/items", orders.AddItem)

	router.GET("/products", products.ListProducts)
	router.GET("/products/:id", products.GetProduct)
	router.POST("/products", products.CreateProduct)
	router.PATCH("/products/:id/price", products.UpdateProductPrice)

	return router
}
