package router

import (
	"github.com/labstack/echo/v4"

	"giglink/internal/adapter/api/handler"
	"giglink/internal/adapter/api/middleware"
)

// SetupOfferRouter sets up custom offer routes
func SetupOfferRouter(e *echo.Echo, offerHandler *handler.OfferHandler, authMiddleware *middleware.AuthMiddleware, rateLimitMiddleware *middleware.RateLimitMiddleware) {
	group := e.Group("/v1/offers")
	group.Use(authMiddleware.Authenticate)

	group.POST("", offerHandler.CreateOffer, rateLimitMiddleware.Limit("create_offer"))
	group.GET("", offerHandler.ListOffers)
	group.GET("/:id", offerHandler.GetOffer)
	group.POST("/:id/accept", offerHandler.AcceptOffer)
	group.POST("/:id/reject", offerHandler.RejectOffer)
}
