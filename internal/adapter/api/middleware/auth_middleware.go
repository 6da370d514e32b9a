package middleware

import (
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"

	"gamemarket/internal/domain/repository"
)

type AuthMiddleware struct {
	authClient *auth.Client
	userRepo   repository.UserRepository
}

func NewAuthMiddleware(authClient *auth.Client, userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		authClient: authClient,
		userRepo:   userRepo,
	}
}

// Authenticate verifies the bearer token, rejects banned or disabled
// accounts, and stores uid and role on the request context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is required")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization format")
		}

		token, err := m.authClient.VerifyIDToken(c.Request().Context(), parts[1])
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
		}

		user, err := m.userRepo.GetByID(c.Request().Context(), token.UID)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Unknown account")
		}
		if !user.Active() {
			return echo.NewHTTPError(http.StatusForbidden, "Account is suspended")
		}

		c.Set("uid", token.UID)
		c.Set("role", user.Role)

		return next(c)
	}
}

// VerifyToken resolves a raw ID token to a uid. Used by the websocket
// handshake where the token arrives in a query parameter.
func (m *AuthMiddleware) VerifyToken(c echo.Context, token string) (string, error) {
	result, err := m.authClient.VerifyIDToken(c.Request().Context(), token)
	if err != nil {
		return "", err
	}
	return result.UID, nil
}
