package repository

import (
	"context"

	"gamemarket/internal/domain/entity"
)

type WalletRepository interface {
	CreateWallet(ctx context.Context, wallet *entity.Wallet) error
	GetWalletByID(ctx context.Context, walletID string) (*entity.Wallet, error)
	GetWalletByUserID(ctx context.Context, userID string) (*entity.Wallet, error)

	// ApplyTransaction credits (amount > 0) or debits (amount < 0) a wallet
	// and writes the ledger entry in one database transaction. A debit that
	// would take the balance negative fails the whole transaction.
	ApplyTransaction(ctx context.Context, userID, txnType string, amount float64, reference, description string) (*entity.WalletTransaction, error)

	GetTransactionsByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.WalletTransaction, int64, error)

	GetWalletCount(ctx context.Context) (int, error)
	GetTotalBalance(ctx context.Context) (float64, error)
}

type WalletRequestRepository interface {
	Create(ctx context.Context, request *entity.WalletRequest) error
	GetByID(ctx context.Context, requestID string) (*entity.WalletRequest, error)
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.WalletRequest, int64, error)
	ListPending(ctx context.Context, requestType string, limit, offset int) ([]*entity.WalletRequest, int64, error)

	// Process flips a pending request and, on approval, applies the funds
	// movement atomically with the status flip so a request can never be
	// applied twice.
	Process(ctx context.Context, requestID, adminID string, approve bool, notes string) (*entity.WalletRequest, error)
}
