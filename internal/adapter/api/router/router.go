package router

import (
	"github.com/labstack/echo/v4"

	"gamemarket/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	SetupAuthRouter(e, authMiddleware)
	SetupUserRouter(e, authMiddleware)
	SetupListingRouter(e, authMiddleware)
	SetupOrderRouter(e, authMiddleware)
	SetupWalletRouter(e, authMiddleware)
	SetupChatRouter(e, authMiddleware)
	SetupSupportRouter(e, authMiddleware)
	SetupReviewRouter(e, authMiddleware)
	SetupFileRouter(e, authMiddleware)
	SetupAdminRouter(e, authMiddleware, adminMiddleware)
	SetupHealthRouter(e)
}
