package router

import (
	"github.com/labstack/echo/v4"

	"gamemarket/internal/adapter/api/handler"
	"gamemarket/internal/adapter/api/middleware"
)

func SetupListingRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	listingHandler := handler.GetListingHandler()

	// Public browsing
	e.GET("/v1/listings", listingHandler.Browse)
	e.GET("/v1/listings/:id", listingHandler.GetByID)

	protected := e.Group("/v1/listings")
	protected.Use(authMiddleware.Authenticate)
	protected.POST("", listingHandler.Create)
	protected.PATCH("/:id", listingHandler.Update)
	protected.DELETE("/:id", listingHandler.Delete)

	mine := e.Group("/v1/my-listings")
	mine.Use(authMiddleware.Authenticate)
	mine.GET("", listingHandler.ListMine)
}
