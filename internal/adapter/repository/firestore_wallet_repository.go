package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"gamemarket/internal/domain/entity"
	"gamemarket/internal/domain/repository"
	"gamemarket/pkg/errors"
)

type firestoreWalletRepository struct {
	client *firestore.Client
}

func NewFirestoreWalletRepository(client *firestore.Client) repository.WalletRepository {
	return &firestoreWalletRepository{
		client: client,
	}
}

// Wallet documents are keyed by user ID so transactions can address a
// user's wallet without a query.
func (r *firestoreWalletRepository) walletRef(userID string) *firestore.DocumentRef {
	return r.client.Collection("wallets").Doc(userID)
}

func (r *firestoreWalletRepository) CreateWallet(ctx context.Context, wallet *entity.Wallet) error {
	if wallet.ID == "" {
		wallet.ID = uuid.New().String()
	}
	if wallet.Currency == "" {
		wallet.Currency = entity.DefaultCurrency
	}
	wallet.Status = "active"
	wallet.CreatedAt = time.Now()
	wallet.UpdatedAt = time.Now()

	_, err := r.walletRef(wallet.UserID).Create(ctx, wallet)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errors.Conflict("Wallet already exists for this user")
		}
		return errors.Internal("Failed to create wallet", err)
	}
	return nil
}

func (r *firestoreWalletRepository) GetWalletByID(ctx context.Context, walletID string) (*entity.Wallet, error) {
	iter := r.client.Collection("wallets").Where("id", "==", walletID).Limit(1).Documents(ctx)
	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errors.NotFound("Wallet", nil)
	}
	if err != nil {
		return nil, errors.Internal("Failed to get wallet", err)
	}

	var wallet entity.Wallet
	if err := doc.DataTo(&wallet); err != nil {
		return nil, errors.Internal("Failed to parse wallet data", err)
	}
	return &wallet, nil
}

func (r *firestoreWalletRepository) GetWalletByUserID(ctx context.Context, userID string) (*entity.Wallet, error) {
	doc, err := r.walletRef(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Wallet", err)
		}
		return nil, errors.Internal("Failed to get wallet", err)
	}

	var wallet entity.Wallet
	if err := doc.DataTo(&wallet); err != nil {
		return nil, errors.Internal("Failed to parse wallet data", err)
	}
	return &wallet, nil
}

func (r *firestoreWalletRepository) ApplyTransaction(ctx context.Context, userID, txnType string, amount float64, reference, description string) (*entity.WalletTransaction, error) {
	var result entity.WalletTransaction

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(r.walletRef(userID))
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Wallet", err)
			}
			return err
		}

		var wallet entity.Wallet
		if err := doc.DataTo(&wallet); err != nil {
			return err
		}

		if wallet.Status != "active" {
			return errors.Forbidden("Wallet is frozen", nil)
		}
		if wallet.Balance+amount < 0 {
			return errors.BadRequest("Insufficient wallet balance", nil)
		}

		now := time.Now()
		previousBalance := wallet.Balance
		wallet.Balance += amount
		wallet.LastTxnAt = now
		wallet.UpdatedAt = now
		if err := tx.Set(r.walletRef(userID), &wallet); err != nil {
			return err
		}

		result = entity.WalletTransaction{
			ID:              uuid.New().String(),
			WalletID:        wallet.ID,
			UserID:          userID,
			Type:            txnType,
			Amount:          amount,
			PreviousBalance: previousBalance,
			NewBalance:      wallet.Balance,
			Status:          "completed",
			Reference:       reference,
			Description:     description,
			ProcessedAt:     &now,
			CreatedAt:       now,
		}
		return tx.Set(r.client.Collection("walletTransactions").Doc(result.ID), &result)
	})

	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *firestoreWalletRepository) GetTransactionsByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.WalletTransaction, int64, error) {
	query := r.client.Collection("walletTransactions").
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc)

	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count transactions", err)
	}
	total := int64(len(countDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var txns []*entity.WalletTransaction
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to list transactions", err)
		}

		var txn entity.WalletTransaction
		if err := doc.DataTo(&txn); err != nil {
			return nil, 0, errors.Internal("Failed to parse transaction data", err)
		}
		txns = append(txns, &txn)
	}

	return txns, total, nil
}

func (r *firestoreWalletRepository) GetWalletCount(ctx context.Context) (int, error) {
	docs, err := r.client.Collection("wallets").Documents(ctx).GetAll()
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

func (r *firestoreWalletRepository) GetTotalBalance(ctx context.Context) (float64, error) {
	iter := r.client.Collection("wallets").Documents(ctx)
	defer iter.Stop()

	var total float64
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, err
		}

		var wallet entity.Wallet
		if err := doc.DataTo(&wallet); err != nil {
			continue
		}
		total += wallet.Balance
	}
	return total, nil
}

type firestoreWalletRequestRepository struct {
	client *firestore.Client
}

func NewFirestoreWalletRequestRepository(client *firestore.Client) repository.WalletRequestRepository {
	return &firestoreWalletRequestRepository{
		client: client,
	}
}

func (r *firestoreWalletRequestRepository) requestRef(id string) *firestore.DocumentRef {
	return r.client.Collection("walletRequests").Doc(id)
}

func (r *firestoreWalletRequestRepository) Create(ctx context.Context, request *entity.WalletRequest) error {
	if request.ID == "" {
		request.ID = uuid.New().String()
	}
	request.Status = entity.WalletRequestPending
	request.CreatedAt = time.Now()
	request.UpdatedAt = time.Now()

	_, err := r.requestRef(request.ID).Set(ctx, request)
	if err != nil {
		return errors.Internal("Failed to create wallet request", err)
	}
	return nil
}

func (r *firestoreWalletRequestRepository) GetByID(ctx context.Context, requestID string) (*entity.WalletRequest, error) {
	doc, err := r.requestRef(requestID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Wallet request", err)
		}
		return nil, errors.Internal("Failed to get wallet request", err)
	}

	var request entity.WalletRequest
	if err := doc.DataTo(&request); err != nil {
		return nil, errors.Internal("Failed to parse wallet request data", err)
	}
	return &request, nil
}

func (r *firestoreWalletRequestRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.WalletRequest, int64, error) {
	query := r.client.Collection("walletRequests").
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc)
	return r.collectRequests(ctx, query, limit, offset)
}

func (r *firestoreWalletRequestRepository) ListPending(ctx context.Context, requestType string, limit, offset int) ([]*entity.WalletRequest, int64, error) {
	query := r.client.Collection("walletRequests").
		Where("status", "==", entity.WalletRequestPending)
	if requestType != "" {
		query = query.Where("type", "==", requestType)
	}
	query = query.OrderBy("createdAt", firestore.Asc)
	return r.collectRequests(ctx, query, limit, offset)
}

func (r *firestoreWalletRequestRepository) collectRequests(ctx context.Context, query firestore.Query, limit, offset int) ([]*entity.WalletRequest, int64, error) {
	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count wallet requests", err)
	}
	total := int64(len(countDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var requests []*entity.WalletRequest
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to list wallet requests", err)
		}

		var request entity.WalletRequest
		if err := doc.DataTo(&request); err != nil {
			return nil, 0, errors.Internal("Failed to parse wallet request data", err)
		}
		requests = append(requests, &request)
	}

	return requests, total, nil
}

// Process flips a pending request in one transaction. Approving a deposit
// credits the full amount; approving a withdrawal debits the gross amount
// while the stored net amount is what the admin pays out. The pending-status
// guard means a request can only ever be applied once.
func (r *firestoreWalletRequestRepository) Process(ctx context.Context, requestID, adminID string, approve bool, notes string) (*entity.WalletRequest, error) {
	var result entity.WalletRequest

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(r.requestRef(requestID))
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Wallet request", err)
			}
			return err
		}

		var request entity.WalletRequest
		if err := doc.DataTo(&request); err != nil {
			return err
		}

		if request.Status != entity.WalletRequestPending {
			return errors.Conflict("Wallet request has already been processed")
		}

		walletRef := r.client.Collection("wallets").Doc(request.UserID)
		walletDoc, err := tx.Get(walletRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Wallet", err)
			}
			return err
		}

		var wallet entity.Wallet
		if err := walletDoc.DataTo(&wallet); err != nil {
			return err
		}

		now := time.Now()

		if approve {
			delta := request.Amount
			txnType := entity.WalletTxnDeposit
			description := "Deposit approved"
			if request.Type == entity.WalletRequestWithdraw {
				delta = -request.Amount
				txnType = entity.WalletTxnWithdraw
				description = "Withdrawal approved (5% fee withheld)"
			}

			if wallet.Balance+delta < 0 {
				return errors.BadRequest("Insufficient wallet balance", nil)
			}

			previousBalance := wallet.Balance
			wallet.Balance += delta
			wallet.LastTxnAt = now
			wallet.UpdatedAt = now
			if err := tx.Set(walletRef, &wallet); err != nil {
				return err
			}

			ledger := &entity.WalletTransaction{
				ID:              uuid.New().String(),
				WalletID:        wallet.ID,
				UserID:          request.UserID,
				Type:            txnType,
				Amount:          delta,
				PreviousBalance: previousBalance,
				NewBalance:      wallet.Balance,
				Status:          "completed",
				Reference:       request.ID,
				Description:     description,
				ProcessedAt:     &now,
				CreatedAt:       now,
			}
			if err := tx.Set(r.client.Collection("walletTransactions").Doc(ledger.ID), ledger); err != nil {
				return err
			}

			request.Status = entity.WalletRequestApproved
		} else {
			request.Status = entity.WalletRequestRejected
		}

		request.AdminNotes = notes
		request.ProcessedBy = adminID
		request.ProcessedAt = &now
		request.UpdatedAt = now
		if err := tx.Set(r.requestRef(requestID), &request); err != nil {
			return err
		}

		result = request
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &result, nil
}
