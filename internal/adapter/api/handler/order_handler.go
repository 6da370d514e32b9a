package handler

import (
	"github.com/labstack/echo/v4"

	"gamemarket/internal/usecase"
	"gamemarket/pkg/response"
	"gamemarket/pkg/utils"
)

type OrderHandler struct {
	orderUseCase *usecase.OrderUseCase
}

func NewOrderHandler(orderUseCase *usecase.OrderUseCase) *OrderHandler {
	return &OrderHandler{
		orderUseCase: orderUseCase,
	}
}

func (h *OrderHandler) Create(c echo.Context) error {
	var req struct {
		AccountID      string `json:"account_id" validate:"required"`
		IdempotencyKey string `json:"idempotency_key"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	// The Idempotency-Key header wins over the body field.
	if key := c.Request().Header.Get("Idempotency-Key"); key != "" {
		req.IdempotencyKey = key
	}

	order, err := h.orderUseCase.Create(c.Request().Context(), getUserID(c), usecase.CreateOrderInput{
		AccountID:      req.AccountID,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, order)
}

func (h *OrderHandler) StartDelivery(c echo.Context) error {
	order, err := h.orderUseCase.StartDelivery(c.Request().Context(), getUserID(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, order)
}

func (h *OrderHandler) DeliverAccountDetails(c echo.Context) error {
	var req struct {
		AccountDetails map[string]interface{} `json:"account_details" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	order, err := h.orderUseCase.DeliverAccountDetails(c.Request().Context(), getUserID(c), c.Param("id"), req.AccountDetails)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, order)
}

func (h *OrderHandler) ConfirmDelivery(c echo.Context) error {
	order, err := h.orderUseCase.ConfirmDelivery(c.Request().Context(), getUserID(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, order)
}

func (h *OrderHandler) Cancel(c echo.Context) error {
	var req struct {
		Reason string `json:"reason" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	order, err := h.orderUseCase.Cancel(c.Request().Context(), getUserID(c), c.Param("id"), req.Reason)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, order)
}

func (h *OrderHandler) Dispute(c echo.Context) error {
	var req struct {
		Reason string `json:"reason" validate:"required,min=10"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	order, err := h.orderUseCase.Dispute(c.Request().Context(), getUserID(c), c.Param("id"), req.Reason)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, order)
}

func (h *OrderHandler) GetByID(c echo.Context) error {
	order, details, err := h.orderUseCase.GetByID(c.Request().Context(), getUserID(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	payload := map[string]interface{}{
		"order": order,
	}
	if details != nil {
		payload["account_details"] = details
	}
	return response.Success(c, payload)
}

func (h *OrderHandler) ListMine(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	orders, total, err := h.orderUseCase.ListMine(
		c.Request().Context(),
		getUserID(c),
		c.QueryParam("role"),
		c.QueryParam("status"),
		pagination.PageSize,
		pagination.Offset,
	)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, orders, total, pagination.Page, pagination.PageSize)
}

func (h *OrderHandler) ListEvents(c echo.Context) error {
	events, err := h.orderUseCase.ListEvents(c.Request().Context(), getUserID(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, events)
}
