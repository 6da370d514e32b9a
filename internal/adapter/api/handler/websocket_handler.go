package handler

import (
	"net/http"

	gorilla "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"gamemarket/internal/adapter/api/middleware"
	"gamemarket/internal/infrastructure/websocket"
	"gamemarket/internal/usecase"
	"gamemarket/pkg/logger"
)

var upgrader = gorilla.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	manager *websocket.Manager
	auth    *middleware.AuthMiddleware
	users   *usecase.UserUseCase
}

func NewWebSocketHandler(manager *websocket.Manager, auth *middleware.AuthMiddleware, users *usecase.UserUseCase) *WebSocketHandler {
	return &WebSocketHandler{
		manager: manager,
		auth:    auth,
		users:   users,
	}
}

// Connect upgrades the request and registers the client. Browsers cannot set
// headers on websocket handshakes, so the token arrives as a query parameter.
func (h *WebSocketHandler) Connect(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Token is required")
	}

	uid, err := h.auth.VerifyToken(c, token)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed: %v", err)
		return err
	}

	client := &websocket.Client{
		UserID: uid,
		Conn:   conn,
		Send:   make(chan []byte, 64),
	}

	h.manager.Register <- client

	h.users.UpdateLastSeen(c.Request().Context(), uid)

	go client.WritePump()
	go client.ReadPump(h.manager)

	return nil
}
