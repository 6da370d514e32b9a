package entity

import (
	"time"
)

const DefaultCurrency = "EGP"

// MinWithdrawalAmount is the smallest gross withdrawal a user may request.
const MinWithdrawalAmount = 500.0

const (
	WalletTxnDeposit       = "deposit"
	WalletTxnWithdraw      = "withdraw"
	WalletTxnPurchase      = "purchase"
	WalletTxnEscrowRelease = "escrow_release"
	WalletTxnRefund        = "refund"
)

type Wallet struct {
	ID        string    `json:"id" firestore:"id"`
	UserID    string    `json:"user_id" firestore:"userId"`
	Balance   float64   `json:"balance" firestore:"balance"`
	Currency  string    `json:"currency" firestore:"currency"`
	Status    string    `json:"status" firestore:"status"` // active, frozen
	LastTxnAt time.Time `json:"last_txn_at" firestore:"lastTxnAt"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

type WalletTransaction struct {
	ID              string     `json:"id" firestore:"id"`
	WalletID        string     `json:"wallet_id" firestore:"walletId"`
	UserID          string     `json:"user_id" firestore:"userId"`
	Type            string     `json:"type" firestore:"type"`
	Amount          float64    `json:"amount" firestore:"amount"`
	PreviousBalance float64    `json:"previous_balance" firestore:"previousBalance"`
	NewBalance      float64    `json:"new_balance" firestore:"newBalance"`
	Status          string     `json:"status" firestore:"status"` // completed, failed
	Reference       string     `json:"reference,omitempty" firestore:"reference,omitempty"`
	Description     string     `json:"description" firestore:"description"`
	ProcessedAt     *time.Time `json:"processed_at,omitempty" firestore:"processedAt,omitempty"`
	CreatedAt       time.Time  `json:"created_at" firestore:"createdAt"`
}

const (
	WalletRequestDeposit  = "deposit"
	WalletRequestWithdraw = "withdraw"

	WalletRequestPending  = "pending"
	WalletRequestApproved = "approved"
	WalletRequestRejected = "rejected"
)

// WalletRequest is an admin-queue record for deposits and withdrawals.
// Fee and net amount are fixed at submission time so processing applies
// stored values instead of recomputing.
type WalletRequest struct {
	ID         string  `json:"id" firestore:"id"`
	UserID     string  `json:"user_id" firestore:"userId"`
	WalletID   string  `json:"wallet_id" firestore:"walletId"`
	Type       string  `json:"type" firestore:"type"`
	Amount     float64 `json:"amount" firestore:"amount"`
	Fee        float64 `json:"fee,omitempty" firestore:"fee,omitempty"`
	NetAmount  float64 `json:"net_amount,omitempty" firestore:"netAmount,omitempty"`
	Status     string  `json:"status" firestore:"status"`
	ReceiptURL string  `json:"receipt_url,omitempty" firestore:"receiptUrl,omitempty"`

	// Withdrawal destination
	Method        string `json:"method,omitempty" firestore:"method,omitempty"` // bank_transfer, vodafone_cash, instapay
	AccountNumber string `json:"account_number,omitempty" firestore:"accountNumber,omitempty"`
	AccountName   string `json:"account_name,omitempty" firestore:"accountName,omitempty"`

	AdminNotes  string     `json:"admin_notes,omitempty" firestore:"adminNotes,omitempty"`
	ProcessedBy string     `json:"processed_by,omitempty" firestore:"processedBy,omitempty"`
	ProcessedAt *time.Time `json:"processed_at,omitempty" firestore:"processedAt,omitempty"`
	CreatedAt   time.Time  `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time  `json:"updated_at" firestore:"updatedAt"`
}
