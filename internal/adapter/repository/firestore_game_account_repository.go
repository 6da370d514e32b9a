package repository

import (
	"context"
	"strings"
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

type firestoreGameAccountRepository struct {
	client *firestore.Client
}

func NewFirestoreGameAccountRepository(client *firestore.Client) repository.GameAccountRepository {
	return &firestoreGameAccountRepository{
		client: client,
	}
}

func (r *firestoreGameAccountRepository) Create(ctx context.Context, account *entity.GameAccount) error {
	if account.ID == "" {
		account.ID = uuid.New().String()
	}

	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now

	_, err := r.client.Collection("gameAccounts").Doc(account.ID).Set(ctx, account)
	if err != nil {
		return errors.Internal("Failed to create listing", err)
	}

	return nil
}

func (r *firestoreGameAccountRepository) GetByID(ctx context.Context, id string) (*entity.GameAccount, error) {
	doc, err := r.client.Collection("gameAccounts").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Listing", err)
		}
		return nil, errors.Internal("Failed to get listing", err)
	}

	var account entity.GameAccount
	if err := doc.DataTo(&account); err != nil {
		return nil, errors.Internal("Failed to parse listing data", err)
	}

	return &account, nil
}

func (r *firestoreGameAccountRepository) Update(ctx context.Context, account *entity.GameAccount) error {
	account.UpdatedAt = time.Now()

	_, err := r.client.Collection("gameAccounts").Doc(account.ID).Set(ctx, account)
	if err != nil {
		return errors.Internal("Failed to update listing", err)
	}

	return nil
}

func (r *firestoreGameAccountRepository) Delete(ctx context.Context, id string) error {
	now := time.Now()
	_, err := r.client.Collection("gameAccounts").Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: entity.ListingStatusRemoved},
		{Path: "deletedAt", Value: now},
		{Path: "updatedAt", Value: now},
	})
	return err
}

func (r *firestoreGameAccountRepository) List(ctx context.Context, filter repository.ListingFilter, limit, offset int) ([]*entity.GameAccount, int64, error) {
	query := r.client.Collection("gameAccounts").Query

	if filter.Game != "" {
		query = query.Where("game", "==", filter.Game)
	}
	if filter.Status != "" {
		query = query.Where("status", "==", filter.Status)
	}
	if filter.SellerID != "" {
		query = query.Where("sellerId", "==", filter.SellerID)
	}
	if filter.MinPrice > 0 {
		query = query.Where("price", ">=", filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		query = query.Where("price", "<=", filter.MaxPrice)
	}

	switch filter.Sort {
	case "price_asc":
		query = query.OrderBy("price", firestore.Asc)
	case "price_desc":
		query = query.OrderBy("price", firestore.Desc)
	default:
		if filter.MinPrice > 0 || filter.MaxPrice > 0 {
			// Firestore requires the first ordering to match the range field
			query = query.OrderBy("price", firestore.Asc)
		} else {
			query = query.OrderBy("createdAt", firestore.Desc)
		}
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to list listings", err)
	}

	// Title search is an in-memory substring match; Firestore has no
	// full-text queries and the catalog is small enough to scan.
	var matched []*entity.GameAccount
	queryLower := strings.ToLower(filter.Query)
	for _, doc := range docs {
		var account entity.GameAccount
		if err := doc.DataTo(&account); err != nil {
			return nil, 0, errors.Internal("Failed to parse listing data", err)
		}
		if queryLower != "" &&
			!strings.Contains(strings.ToLower(account.Title), queryLower) &&
			!strings.Contains(strings.ToLower(account.Description), queryLower) {
			continue
		}
		matched = append(matched, &account)
	}

	total := int64(len(matched))

	if offset > 0 {
		if offset >= len(matched) {
			return nil, total, nil
		}
		matched = matched[offset:]
	}
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}

	return matched, total, nil
}

func (r *firestoreGameAccountRepository) ListBySellerID(ctx context.Context, sellerID, status string, limit, offset int) ([]*entity.GameAccount, int64, error) {
	filter := repository.ListingFilter{SellerID: sellerID, Status: status}
	return r.List(ctx, filter, limit, offset)
}

func (r *firestoreGameAccountRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.client.Collection("gameAccounts").Doc(id).Update(ctx, []firestore.Update{
		{Path: "views", Value: firestore.Increment(1)},
	})
	return err
}

func (r *firestoreGameAccountRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	iter := r.client.Collection("gameAccounts").Documents(ctx)
	defer iter.Stop()

	counts := make(map[string]int)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var account entity.GameAccount
		if err := doc.DataTo(&account); err != nil {
			continue
		}
		counts[account.Status]++
	}

	return counts, nil
}
