package handler

import (
	"github.com/labstack/echo/v4"

	"gamemarket/internal/usecase"
	"gamemarket/pkg/response"
	"gamemarket/pkg/utils"
)

type WalletHandler struct {
	walletUseCase *usecase.WalletUseCase
}

func NewWalletHandler(walletUseCase *usecase.WalletUseCase) *WalletHandler {
	return &WalletHandler{
		walletUseCase: walletUseCase,
	}
}

func (h *WalletHandler) GetWallet(c echo.Context) error {
	wallet, err := h.walletUseCase.GetWallet(c.Request().Context(), getUserID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, wallet)
}

func (h *WalletHandler) GetTransactions(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	txns, total, err := h.walletUseCase.GetTransactions(c.Request().Context(), getUserID(c), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, txns, total, pagination.Page, pagination.PageSize)
}

func (h *WalletHandler) SubmitDeposit(c echo.Context) error {
	var req struct {
		Amount     float64 `json:"amount" validate:"required,gt=0"`
		ReceiptURL string  `json:"receipt_url" validate:"required,url"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	request, err := h.walletUseCase.SubmitDeposit(c.Request().Context(), getUserID(c), usecase.DepositInput{
		Amount:     req.Amount,
		ReceiptURL: req.ReceiptURL,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, request)
}

func (h *WalletHandler) SubmitWithdraw(c echo.Context) error {
	var req struct {
		Amount        float64 `json:"amount" validate:"required,min=500"`
		Method        string  `json:"method" validate:"required,oneof=bank_transfer vodafone_cash instapay"`
		AccountNumber string  `json:"account_number" validate:"required"`
		AccountName   string  `json:"account_name"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	request, err := h.walletUseCase.SubmitWithdraw(c.Request().Context(), getUserID(c), usecase.WithdrawInput{
		Amount:        req.Amount,
		Method:        req.Method,
		AccountNumber: req.AccountNumber,
		AccountName:   req.AccountName,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, request)
}

func (h *WalletHandler) ListMyRequests(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	requests, total, err := h.walletUseCase.ListMyRequests(c.Request().Context(), getUserID(c), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, requests, total, pagination.Page, pagination.PageSize)
}
