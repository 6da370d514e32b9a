package router

import (
	"github.com/labstack/echo/v4"

	"gamemarket/internal/adapter/api/handler"
	"gamemarket/internal/adapter/api/middleware"
)

func SetupChatRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	chatHandler := handler.GetChatHandler()

	chats := e.Group("/v1/chats")
	chats.Use(authMiddleware.Authenticate)

	chats.POST("", chatHandler.OpenChat)
	chats.GET("", chatHandler.ListChats)
	chats.POST("/:id/messages", chatHandler.SendMessage)
	chats.GET("/:id/messages", chatHandler.ListMessages)
	chats.POST("/:id/read", chatHandler.MarkRead)
	chats.POST("/:id/offers/:messageId/accept", chatHandler.AcceptOffer)
}

func SetupWebSocketRouter(e *echo.Echo, wsHandler *handler.WebSocketHandler) {
	e.GET("/v1/ws", wsHandler.Connect)
}
