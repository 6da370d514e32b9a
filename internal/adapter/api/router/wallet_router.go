package router

import (
	"github.com/labstack/echo/v4"

	"gamemarket/internal/adapter/api/handler"
	"gamemarket/internal/adapter/api/middleware"
)

func SetupWalletRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	walletHandler := handler.GetWalletHandler()

	wallet := e.Group("/v1/wallet")
	wallet.Use(authMiddleware.Authenticate)

	wallet.GET("", walletHandler.GetWallet)
	wallet.GET("/transactions", walletHandler.GetTransactions)
	wallet.POST("/deposits", walletHandler.SubmitDeposit)
	wallet.POST("/withdrawals", walletHandler.SubmitWithdraw)
	wallet.GET("/requests", walletHandler.ListMyRequests)
}
