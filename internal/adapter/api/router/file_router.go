package router

import (
	"github.com/labstack/echo/v4"

	"gamemarket/internal/adapter/api/handler"
	"gamemarket/internal/adapter/api/middleware"
)

func SetupFileRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	fileHandler := handler.GetFileHandler()

	files := e.Group("/v1/files")
	files.Use(authMiddleware.Authenticate)

	files.POST("", fileHandler.Upload)
	files.GET("", fileHandler.ListMine)
	files.GET("/:id", fileHandler.View)
	files.DELETE("/:id", fileHandler.Delete)
}
