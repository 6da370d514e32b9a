package handler

import (
	"github.com/labstack/echo/v4"

	"gamemarket/internal/usecase"
	"gamemarket/pkg/response"
	"gamemarket/pkg/utils"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

func (h *ChatHandler) OpenChat(c echo.Context) error {
	var req struct {
		UserID    string `json:"user_id" validate:"required"`
		AccountID string `json:"account_id"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	chat, err := h.chatUseCase.OpenChat(c.Request().Context(), getUserID(c), req.UserID, req.AccountID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, chat)
}

func (h *ChatHandler) ListChats(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	chats, total, err := h.chatUseCase.ListChats(c.Request().Context(), getUserID(c), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, chats, total, pagination.Page, pagination.PageSize)
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req struct {
		Content        string   `json:"content"`
		Type           string   `json:"type" validate:"omitempty,oneof=text offer product image"`
		OfferPrice     float64  `json:"offer_price"`
		AccountID      string   `json:"account_id"`
		AttachmentURLs []string `json:"attachment_urls"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), getUserID(c), usecase.SendMessageInput{
		ChatID:         c.Param("id"),
		Content:        req.Content,
		Type:           req.Type,
		OfferPrice:     req.OfferPrice,
		AccountID:      req.AccountID,
		AttachmentURLs: req.AttachmentURLs,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, message)
}

func (h *ChatHandler) ListMessages(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	messages, total, err := h.chatUseCase.ListMessages(c.Request().Context(), getUserID(c), c.Param("id"), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, messages, total, pagination.Page, pagination.PageSize)
}

func (h *ChatHandler) MarkRead(c echo.Context) error {
	if err := h.chatUseCase.MarkRead(c.Request().Context(), getUserID(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{
		"message": "Chat marked as read",
	})
}

func (h *ChatHandler) AcceptOffer(c echo.Context) error {
	order, err := h.chatUseCase.AcceptOffer(c.Request().Context(), getUserID(c), c.Param("id"), c.Param("messageId"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, order)
}
