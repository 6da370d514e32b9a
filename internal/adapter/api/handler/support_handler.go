package handler

import (
	"github.com/labstack/echo/v4"

	"gamemarket/internal/usecase"
	"gamemarket/pkg/response"
	"gamemarket/pkg/utils"
)

type SupportHandler struct {
	supportUseCase *usecase.SupportUseCase
}

func NewSupportHandler(supportUseCase *usecase.SupportUseCase) *SupportHandler {
	return &SupportHandler{
		supportUseCase: supportUseCase,
	}
}

func isAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == "admin"
}

func (h *SupportHandler) CreateTicket(c echo.Context) error {
	var req struct {
		Subject string `json:"subject" validate:"required,min=5"`
		Message string `json:"message" validate:"required,min=10"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	ticket, err := h.supportUseCase.CreateTicket(c.Request().Context(), getUserID(c), req.Subject, req.Message)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, ticket)
}

func (h *SupportHandler) GetTicket(c echo.Context) error {
	ticket, err := h.supportUseCase.GetTicket(c.Request().Context(), getUserID(c), c.Param("id"), isAdmin(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, ticket)
}

func (h *SupportHandler) ListMyTickets(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	tickets, total, err := h.supportUseCase.ListMyTickets(c.Request().Context(), getUserID(c), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, tickets, total, pagination.Page, pagination.PageSize)
}

func (h *SupportHandler) CloseTicket(c echo.Context) error {
	ticket, err := h.supportUseCase.Close(c.Request().Context(), getUserID(c), c.Param("id"), isAdmin(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, ticket)
}
