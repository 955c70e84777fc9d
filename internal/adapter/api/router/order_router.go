package router

import (
	"github.com/labstack/echo/v4"

	"giglink/internal/adapter/api/handler"
	"giglink/internal/adapter/api/middleware"
)

// SetupOrderRouter sets up order lifecycle routes
func SetupOrderRouter(e *echo.Echo, orderHandler *handler.OrderHandler, authMiddleware *middleware.AuthMiddleware) {
	group := e.Group("/v1/orders")
	group.Use(authMiddleware.Authenticate)

	group.GET("", orderHandler.ListOrders)
	group.GET("/:id", orderHandler.GetOrder)
	group.POST("/:id/deliver", orderHandler.Deliver)
	group.POST("/:id/request-revision", orderHandler.RequestRevision)
	group.POST("/:id/complete", orderHandler.Complete)
}
