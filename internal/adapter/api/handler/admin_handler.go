package handler

import (
	"github.com/labstack/echo/v4"

	"gamemarket/internal/usecase"
	"gamemarket/pkg/response"
	"gamemarket/pkg/utils"
)

type AdminHandler struct {
	adminUseCase   *usecase.AdminUseCase
	orderUseCase   *usecase.OrderUseCase
	walletUseCase  *usecase.WalletUseCase
	supportUseCase *usecase.SupportUseCase
}

func NewAdminHandler(
	adminUseCase *usecase.AdminUseCase,
	orderUseCase *usecase.OrderUseCase,
	walletUseCase *usecase.WalletUseCase,
	supportUseCase *usecase.SupportUseCase,
) *AdminHandler {
	return &AdminHandler{
		adminUseCase:   adminUseCase,
		orderUseCase:   orderUseCase,
		walletUseCase:  walletUseCase,
		supportUseCase: supportUseCase,
	}
}

func (h *AdminHandler) GetStats(c echo.Context) error {
	stats, err := h.adminUseCase.GetStats(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, stats)
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	users, total, err := h.adminUseCase.ListUsers(c.Request().Context(), c.QueryParam("role"), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, users, total, pagination.Page, pagination.PageSize)
}

func (h *AdminHandler) SetUserBanned(c echo.Context) error {
	var req struct {
		Banned bool `json:"banned"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.adminUseCase.SetUserBanned(c.Request().Context(), c.Param("id"), req.Banned)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}

func (h *AdminHandler) SetUserDisabled(c echo.Context) error {
	var req struct {
		Disabled bool `json:"disabled"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.adminUseCase.SetUserDisabled(c.Request().Context(), c.Param("id"), req.Disabled)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}

func (h *AdminHandler) SetUserRole(c echo.Context) error {
	var req struct {
		Role string `json:"role" validate:"required,oneof=user vip admin"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.adminUseCase.SetUserRole(c.Request().Context(), c.Param("id"), req.Role)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}

func (h *AdminHandler) RemoveListing(c echo.Context) error {
	if err := h.adminUseCase.RemoveListing(c.Request().Context(), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{
		"message": "Listing removed",
	})
}

func (h *AdminHandler) ListOrders(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	orders, total, err := h.adminUseCase.ListOrders(c.Request().Context(), c.QueryParam("status"), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, orders, total, pagination.Page, pagination.PageSize)
}

func (h *AdminHandler) ListDisputes(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	orders, total, err := h.adminUseCase.ListDisputes(c.Request().Context(), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, orders, total, pagination.Page, pagination.PageSize)
}

func (h *AdminHandler) ResolveDispute(c echo.Context) error {
	var req struct {
		ReleaseToSeller bool   `json:"release_to_seller"`
		Notes           string `json:"notes" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	order, err := h.orderUseCase.ResolveDispute(c.Request().Context(), getUserID(c), c.Param("id"), req.ReleaseToSeller, req.Notes)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, order)
}

func (h *AdminHandler) ListWalletRequests(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	requests, total, err := h.walletUseCase.ListPendingRequests(c.Request().Context(), c.QueryParam("type"), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, requests, total, pagination.Page, pagination.PageSize)
}

func (h *AdminHandler) ProcessWalletRequest(c echo.Context) error {
	var req struct {
		Approve bool   `json:"approve"`
		Notes   string `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	request, err := h.walletUseCase.ProcessRequest(c.Request().Context(), getUserID(c), c.Param("id"), req.Approve, req.Notes)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, request)
}

func (h *AdminHandler) ListTickets(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	tickets, total, err := h.supportUseCase.ListTickets(c.Request().Context(), c.QueryParam("status"), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, tickets, total, pagination.Page, pagination.PageSize)
}

func (h *AdminHandler) ReplyTicket(c echo.Context) error {
	var req struct {
		Reply   string `json:"reply" validate:"required"`
		Resolve bool   `json:"resolve"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	ticket, err := h.supportUseCase.Reply(c.Request().Context(), getUserID(c), c.Param("id"), req.Reply, req.Resolve)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, ticket)
}
