package router

import (
	"github.com/labstack/echo/v4"

	"gamemarket/internal/adapter/api/handler"
	"gamemarket/internal/adapter/api/middleware"
)

func SetupAuthRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	authHandler := handler.GetAuthHandler()

	public := e.Group("/v1/auth", middleware.AuthRateLimit())
	public.POST("/register", authHandler.Register)
	public.POST("/login", authHandler.Login)
	public.POST("/refresh", authHandler.RefreshToken)

	protected := e.Group("/v1/auth")
	protected.Use(authMiddleware.Authenticate)
	protected.POST("/change-password", authHandler.ChangePassword)
}
