package repository

import (
	"context"

	"gamemarket/internal/domain/entity"
)

type ListingFilter struct {
	Game     string
	Status   string
	SellerID string
	MinPrice float64
	MaxPrice float64
	Query    string
	Sort     string // "price_asc", "price_desc", "newest"
}

type GameAccountRepository interface {
	Create(ctx context.Context, account *entity.GameAccount) error
	GetByID(ctx context.Context, id string) (*entity.GameAccount, error)
	Update(ctx context.Context, account *entity.GameAccount) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListingFilter, limit, offset int) ([]*entity.GameAccount, int64, error)
	ListBySellerID(ctx context.Context, sellerID, status string, limit, offset int) ([]*entity.GameAccount, int64, error)
	IncrementViews(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (map[string]int, error)
}
