package usecase

import (
	"context"
	"fmt"
	"time"

	"gamemarket/internal/domain/entity"
	"gamemarket/internal/domain/repository"
	"gamemarket/internal/infrastructure/ratelimit"
	"gamemarket/pkg/errors"
)

type WalletUseCase struct {
	walletRepo  repository.WalletRepository
	requestRepo repository.WalletRequestRepository
	notifier    Notifier
	limiter     *ratelimit.RateLimiter
}

func NewWalletUseCase(walletRepo repository.WalletRepository, requestRepo repository.WalletRequestRepository, notifier Notifier, limiter *ratelimit.RateLimiter) *WalletUseCase {
	return &WalletUseCase{
		walletRepo:  walletRepo,
		requestRepo: requestRepo,
		notifier:    notifier,
		limiter:     limiter,
	}
}

func (uc *WalletUseCase) allowRequest(userID string) error {
	if allowed, wait := uc.limiter.Allow(userID, "wallet_request"); !allowed {
		return errors.TooManyRequests(fmt.Sprintf("Too many wallet requests, retry in %s", wait.Round(time.Second)))
	}
	return nil
}

func (uc *WalletUseCase) GetWallet(ctx context.Context, userID string) (*entity.Wallet, error) {
	return uc.walletRepo.GetWalletByUserID(ctx, userID)
}

func (uc *WalletUseCase) GetTransactions(ctx context.Context, userID string, limit, offset int) ([]*entity.WalletTransaction, int64, error) {
	return uc.walletRepo.GetTransactionsByUserID(ctx, userID, limit, offset)
}

type DepositInput struct {
	Amount     float64
	ReceiptURL string
}

// SubmitDeposit queues a top-up for admin verification. Funds only appear in
// the wallet once an admin approves the receipt.
func (uc *WalletUseCase) SubmitDeposit(ctx context.Context, userID string, input DepositInput) (*entity.WalletRequest, error) {
	if err := uc.allowRequest(userID); err != nil {
		return nil, err
	}
	if input.Amount <= 0 {
		return nil, errors.BadRequest("Deposit amount must be positive", nil)
	}
	if input.ReceiptURL == "" {
		return nil, errors.BadRequest("A payment receipt is required", nil)
	}

	wallet, err := uc.walletRepo.GetWalletByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	request := &entity.WalletRequest{
		UserID:     userID,
		WalletID:   wallet.ID,
		Type:       entity.WalletRequestDeposit,
		Amount:     input.Amount,
		ReceiptURL: input.ReceiptURL,
	}
	if err := uc.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

type WithdrawInput struct {
	Amount        float64
	Method        string
	AccountNumber string
	AccountName   string
}

// SubmitWithdraw queues a payout request. The gross amount must meet the
// 500 EGP minimum; the 5% fee and the net payout are fixed here so approval
// applies stored values.
func (uc *WalletUseCase) SubmitWithdraw(ctx context.Context, userID string, input WithdrawInput) (*entity.WalletRequest, error) {
	if err := uc.allowRequest(userID); err != nil {
		return nil, err
	}
	if input.Amount < entity.MinWithdrawalAmount {
		return nil, errors.BadRequest("Minimum withdrawal amount is 500 EGP", nil)
	}
	if input.Method == "" || input.AccountNumber == "" {
		return nil, errors.BadRequest("A payout destination is required", nil)
	}

	wallet, err := uc.walletRepo.GetWalletByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if wallet.Balance < input.Amount {
		return nil, errors.BadRequest("Insufficient wallet balance", nil)
	}

	net, fee := entity.SellerPayout(input.Amount)

	request := &entity.WalletRequest{
		UserID:        userID,
		WalletID:      wallet.ID,
		Type:          entity.WalletRequestWithdraw,
		Amount:        input.Amount,
		Fee:           fee,
		NetAmount:     net,
		Method:        input.Method,
		AccountNumber: input.AccountNumber,
		AccountName:   input.AccountName,
	}
	if err := uc.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

func (uc *WalletUseCase) ListMyRequests(ctx context.Context, userID string, limit, offset int) ([]*entity.WalletRequest, int64, error) {
	return uc.requestRepo.ListByUserID(ctx, userID, limit, offset)
}

func (uc *WalletUseCase) ListPendingRequests(ctx context.Context, requestType string, limit, offset int) ([]*entity.WalletRequest, int64, error) {
	return uc.requestRepo.ListPending(ctx, requestType, limit, offset)
}

// ProcessRequest approves or rejects a pending request. The repository
// applies the wallet movement and the status flip in one transaction, so a
// double approval fails on the pending-status guard.
func (uc *WalletUseCase) ProcessRequest(ctx context.Context, adminID, requestID string, approve bool, notes string) (*entity.WalletRequest, error) {
	request, err := uc.requestRepo.Process(ctx, requestID, adminID, approve, notes)
	if err != nil {
		return nil, err
	}

	uc.notifier.NotifyUser(request.UserID, "wallet_update", request)
	return request, nil
}
