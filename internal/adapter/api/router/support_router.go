package router

import (
	"github.com/labstack/echo/v4"

	"gamemarket/internal/adapter/api/handler"
	"gamemarket/internal/adapter/api/middleware"
)

func SetupSupportRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	supportHandler := handler.GetSupportHandler()

	support := e.Group("/v1/support/tickets")
	support.Use(authMiddleware.Authenticate)

	support.POST("", supportHandler.CreateTicket)
	support.GET("", supportHandler.ListMyTickets)
	support.GET("/:id", supportHandler.GetTicket)
	support.POST("/:id/close", supportHandler.CloseTicket)
}
