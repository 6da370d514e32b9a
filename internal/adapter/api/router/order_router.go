package router

import (
	"github.com/labstack/echo/v4"

	"gamemarket/internal/adapter/api/handler"
	"gamemarket/internal/adapter/api/middleware"
)

func SetupOrderRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	orderHandler := handler.GetOrderHandler()

	orders := e.Group("/v1/orders")
	orders.Use(authMiddleware.Authenticate)

	orders.POST("", orderHandler.Create)
	orders.GET("", orderHandler.ListMine)
	orders.GET("/:id", orderHandler.GetByID)
	orders.GET("/:id/events", orderHandler.ListEvents)

	orders.POST("/:id/start-delivery", orderHandler.StartDelivery)
	orders.POST("/:id/deliver", orderHandler.DeliverAccountDetails)
	orders.POST("/:id/confirm", orderHandler.ConfirmDelivery)
	orders.POST("/:id/cancel", orderHandler.Cancel)
	orders.POST("/:id/dispute", orderHandler.Dispute)
}
