package handler

import (
	"github.com/labstack/echo/v4"

	"gamemarket/internal/usecase"
)

var (
	authHandler    *AuthHandler
	userHandler    *UserHandler
	listingHandler *ListingHandler
	orderHandler   *OrderHandler
	walletHandler  *WalletHandler
	chatHandler    *ChatHandler
	supportHandler *SupportHandler
	reviewHandler  *ReviewHandler
	adminHandler   *AdminHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	userUseCase *usecase.UserUseCase,
	listingUseCase *usecase.ListingUseCase,
	orderUseCase *usecase.OrderUseCase,
	walletUseCase *usecase.WalletUseCase,
	chatUseCase *usecase.ChatUseCase,
	supportUseCase *usecase.SupportUseCase,
	reviewUseCase *usecase.ReviewUseCase,
	adminUseCase *usecase.AdminUseCase,
) {
	authHandler = NewAuthHandler(authUseCase)
	userHandler = NewUserHandler(userUseCase)
	listingHandler = NewListingHandler(listingUseCase)
	orderHandler = NewOrderHandler(orderUseCase)
	walletHandler = NewWalletHandler(walletUseCase)
	chatHandler = NewChatHandler(chatUseCase)
	supportHandler = NewSupportHandler(supportUseCase)
	reviewHandler = NewReviewHandler(reviewUseCase)
	adminHandler = NewAdminHandler(adminUseCase, orderUseCase, walletUseCase, supportUseCase)
}

func GetAuthHandler() *AuthHandler       { return authHandler }
func GetUserHandler() *UserHandler       { return userHandler }
func GetListingHandler() *ListingHandler { return listingHandler }
func GetOrderHandler() *OrderHandler     { return orderHandler }
func GetWalletHandler() *WalletHandler   { return walletHandler }
func GetChatHandler() *ChatHandler       { return chatHandler }
func GetSupportHandler() *SupportHandler { return supportHandler }
func GetReviewHandler() *ReviewHandler   { return reviewHandler }
func GetAdminHandler() *AdminHandler     { return adminHandler }

func getUserID(c echo.Context) string {
	if uid, ok := c.Get("uid").(string); ok {
		return uid
	}
	return ""
}
