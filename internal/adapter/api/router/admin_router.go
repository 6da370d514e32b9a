package router

import (
	"github.com/labstack/echo/v4"

	"gamemarket/internal/adapter/api/handler"
	"gamemarket/internal/adapter/api/middleware"
)

func SetupAdminRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	adminHandler := handler.GetAdminHandler()

	admin := e.Group("/v1/admin")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)

	admin.GET("/stats", adminHandler.GetStats)

	admin.GET("/users", adminHandler.ListUsers)
	admin.POST("/users/:id/ban", adminHandler.SetUserBanned)
	admin.POST("/users/:id/disable", adminHandler.SetUserDisabled)
	admin.POST("/users/:id/role", adminHandler.SetUserRole)

	admin.DELETE("/listings/:id", adminHandler.RemoveListing)

	admin.GET("/orders", adminHandler.ListOrders)
	admin.GET("/disputes", adminHandler.ListDisputes)
	admin.POST("/disputes/:id/resolve", adminHandler.ResolveDispute)

	admin.GET("/wallet-requests", adminHandler.ListWalletRequests)
	admin.POST("/wallet-requests/:id/process", adminHandler.ProcessWalletRequest)

	admin.GET("/support/tickets", adminHandler.ListTickets)
	admin.POST("/support/tickets/:id/reply", adminHandler.ReplyTicket)
}
